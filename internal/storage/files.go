/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
)

// FileState records a source file's content digest at indexing time.
type FileState struct {
	Path   string
	Digest string // BLAKE3-256, hex
	Size   int64
	MTime  time.Time
}

// HashFile computes the BLAKE3 digest of the file at path by streaming.
func HashFile(path string) (FileState, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileState{}, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return FileState{}, err
	}
	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return FileState{}, fmt.Errorf("hash %s: %w", path, err)
	}
	return FileState{
		Path:   filepath.ToSlash(path),
		Digest: hex.EncodeToString(h.Sum(nil)),
		Size:   st.Size(),
		MTime:  st.ModTime().UTC(),
	}, nil
}

// RecordFiles replaces the stored file set with digests of the given source
// paths. Call it after a successful indexing run so the next run can skip
// unchanged sources.
func RecordFiles(ctx context.Context, projectRoot string, paths []string) error {
	states := make([]FileState, 0, len(paths))
	for _, p := range paths {
		fs, err := HashFile(p)
		if err != nil {
			return err
		}
		states = append(states, fs)
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files;`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear files: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO files(path, digest, size, mtime) VALUES(?,?,?,?);`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, fs := range states {
		if _, err := ins.ExecContext(ctx, fs.Path, fs.Digest, fs.Size, fs.MTime.Format(time.RFC3339Nano)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert file: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FilesUnchanged reports whether the given source set matches the digests
// recorded by the last indexing run: same paths, same content. A missing or
// unreadable file counts as changed, never as an error.
func FilesUnchanged(ctx context.Context, projectRoot string, paths []string) (bool, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return false, err
	}
	defer func() { _ = db.Close() }()

	type stored struct {
		digest string
		size   int64
	}
	rows, err := db.QueryContext(ctx, `SELECT path, digest, size FROM files;`)
	if err != nil {
		return false, fmt.Errorf("read files: %w", err)
	}
	defer func() { _ = rows.Close() }()
	known := make(map[string]stored)
	for rows.Next() {
		var p string
		var s stored
		if err := rows.Scan(&p, &s.digest, &s.size); err != nil {
			return false, fmt.Errorf("scan row: %w", err)
		}
		known[p] = s
	}
	if err := rows.Err(); err != nil {
		return false, err
	}

	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[filepath.ToSlash(p)] = true
	}
	if len(seen) != len(known) {
		return false, nil
	}
	for _, p := range paths {
		st, ok := known[filepath.ToSlash(p)]
		if !ok {
			return false, nil
		}
		fi, err := os.Stat(p)
		if err != nil || fi.Size() != st.size {
			return false, nil
		}
		fs, err := HashFile(p)
		if err != nil || fs.Digest != st.digest {
			return false, nil
		}
	}
	return true, nil
}
