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
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
)

// Run describes one indexing run: who wrote the current songs rows, when,
// and how the compile went.
type Run struct {
	ID          string
	TS          time.Time
	Songs       int
	Diagnostics int
}

// language=SQL
// dialect=SQLite
const listRunsSQL = `SELECT id, ts, songs, diagnostics FROM runs ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneSnapshotsSQL = `DELETE FROM snapshots WHERE run_id NOT IN (
	SELECT id FROM runs ORDER BY ts DESC LIMIT ?
)`

// language=SQL
// dialect=SQLite
const pruneRunsSQL = `DELETE FROM runs WHERE id NOT IN (
	SELECT id FROM runs ORDER BY ts DESC LIMIT ?
)`

// language=SQL
// dialect=SQLite
const selectSnapshotSQL = `SELECT book FROM snapshots WHERE run_id = ?`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT run_id, book FROM snapshots ORDER BY ts DESC LIMIT 1`

// ListRuns returns up to limit most recent indexing runs, newest first.
func ListRuns(ctx context.Context, projectRoot string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Run
	for rows.Next() {
		var r Run
		var tsStr string
		if err := rows.Scan(&r.ID, &tsStr, &r.Songs, &r.Diagnostics); err != nil {
			return nil, err
		}
		r.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneRuns keeps at most keepLast runs (and their snapshots) and deletes
// older ones. It reports the number of runs removed.
func PruneRuns(ctx context.Context, projectRoot string, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	// Snapshots go first so the keep-set subquery still sees every run.
	if _, err := tx.ExecContext(ctx, pruneSnapshotsSQL, keepLast); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	res, err := tx.ExecContext(ctx, pruneRunsSQL, keepLast)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return res.RowsAffected()
}

// SnapshotJSON returns the decompressed compiled-book JSON stored for the
// given run, or nil when the run has no snapshot.
func SnapshotJSON(ctx context.Context, projectRoot, runID string) ([]byte, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	var blob []byte
	err = db.QueryRowContext(ctx, selectSnapshotSQL, runID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decompressSnapshot(blob)
}

// LatestSnapshotJSON returns the run id and decompressed book JSON of the
// most recent snapshot, or empty values when the index holds none.
func LatestSnapshotJSON(ctx context.Context, projectRoot string) (string, []byte, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = db.Close() }()
	var runID string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&runID, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	data, err := decompressSnapshot(blob)
	if err != nil {
		return "", nil, err
	}
	return runID, data, nil
}

func compressSnapshot(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressSnapshot(blob []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
