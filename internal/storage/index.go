/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"songbook/internal/book"
	"songbook/internal/compile"
	"songbook/internal/export"
	applog "songbook/internal/log"
	"songbook/internal/version"

	"github.com/google/uuid"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-project ephemeral/index data under the project root.
	IndexDirName  = ".songbook"
	IndexFileName = "index.db"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2

	// tsLayout is RFC 3339 with fixed-width nanoseconds; the stored strings
	// must sort chronologically under the ORDER BY ts queries.
	tsLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at
// .songbook/index.db, opens the database, enables WAL mode, and ensures the
// version table and core schema exist. The returned *sql.DB is ready for use.
// Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Join(projectRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .songbook dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .songbook dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ensure WAL mode is active.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Foreign keys guard the runs/snapshots relation.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure version failed", slog.Any("err", err))
		return nil, err
	}
	// Ensure core index schema exists (songs, FTS, files, runs, snapshots)
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	// Run migrations to bring DB schema up to date
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureVersion(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS version (
		id          INTEGER PRIMARY KEY CHECK(id=1),
		schema      INTEGER NOT NULL,
		app         TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Insert new row with current schemaVersion for a fresh DB
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per compiled song in book order. The table is fully
		// replaced on every indexing run; run_id records provenance.
		`CREATE TABLE IF NOT EXISTS songs (
			id        INTEGER PRIMARY KEY,
			run_id    TEXT    NOT NULL,
			file      TEXT    NOT NULL,
			line      INTEGER NOT NULL,
			position  INTEGER NOT NULL,
			title     TEXT    NOT NULL,
			subtitles TEXT,
			text      TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_songs_file ON songs(file);`,

		// Contentless FTS5 index fed from songs via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_songs USING fts5(
			title,
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Source file digests for change detection (skip unchanged indexing).
		`CREATE TABLE IF NOT EXISTS files (
			path   TEXT PRIMARY KEY,
			digest TEXT    NOT NULL,
			size   INTEGER NOT NULL,
			mtime  TEXT    NOT NULL
		);`,

		// One row per indexing run.
		`CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			ts          TEXT    NOT NULL,
			songs       INTEGER NOT NULL,
			diagnostics INTEGER NOT NULL
		);`,

		// Compressed compiled-book snapshot per run (history, recovery).
		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT PRIMARY KEY,
			ts     TEXT NOT NULL,
			book   BLOB NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers for contentless FTS synchronization with songs.title/text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS songs_ai AFTER INSERT ON songs BEGIN
			INSERT INTO fts_songs(rowid, title, text) VALUES (new.id, new.title, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS songs_ad AFTER DELETE ON songs BEGIN
			INSERT INTO fts_songs(fts_songs, rowid, title, text) VALUES ('delete', old.id, old.title, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS songs_au AFTER UPDATE OF title, text ON songs BEGIN
			INSERT INTO fts_songs(fts_songs, rowid, title, text) VALUES ('delete', old.id, old.title, old.text);
			INSERT INTO fts_songs(rowid, title, text) VALUES (new.id, new.title, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just log and continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Add helpful indexes for run history and optimize FTS
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts);`,
				`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_songs(fts_songs) VALUES('optimize')`); err != nil {
				// best-effort optimize; ignore errors
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// UpdateIndex replaces the indexed songs with the given compiled build and
// records a run row plus a compressed book snapshot. It returns the recorded
// run.
func UpdateIndex(ctx context.Context, projectRoot string, build *compile.Build) (Run, error) {
	if build == nil || build.Book == nil {
		return Run{}, errors.New("compiled build is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = db.Close() }()
	return replaceSongs(ctx, db, build)
}

// RebuildIndex drops and recreates the core index tables and repopulates them
// from the given build. It preserves the version table. This is a safe
// operation; the index is derived from the song sources.
func RebuildIndex(ctx context.Context, projectRoot string, build *compile.Build) (Run, error) {
	if build == nil || build.Book == nil {
		return Run{}, errors.New("compiled build is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = db.Close() }()
	// Drop core tables inside a transaction and recreate schema
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TABLE IF EXISTS runs;",
		"DROP TABLE IF EXISTS files;",
		"DROP TRIGGER IF EXISTS songs_ai;",
		"DROP TRIGGER IF EXISTS songs_ad;",
		"DROP TRIGGER IF EXISTS songs_au;",
		"DROP TABLE IF EXISTS songs;",
		"DROP TABLE IF EXISTS fts_songs;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return Run{}, fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("drop commit: %w", err)
	}
	// Recreate schema and populate
	if err := ensureIndexSchema(ctx, db); err != nil {
		return Run{}, err
	}
	return replaceSongs(ctx, db, build)
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, build *compile.Build) (bool, error) {
	path := IndexPath(projectRoot)
	// Try to open DB; if fails, attempt backup+delete+rebuild
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if _, rbErr := RebuildIndex(ctx, projectRoot, build); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	// quick_check for corruption
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	// Probe core table
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM songs LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	// Backup and remove existing DB file
	backupIndexFile(path)
	_ = os.Remove(path)
	// Rebuild
	if _, err := RebuildIndex(ctx, projectRoot, build); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .songbook/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// replaceSongs swaps the songs table content for the compiled build in one
// transaction, together with the run row and its compressed snapshot.
func replaceSongs(ctx context.Context, db *sql.DB, build *compile.Build) (Run, error) {
	type songRow struct {
		file      string
		line      int
		position  int
		title     string
		subtitles string
		text      string
	}
	rows := make([]songRow, 0, len(build.Book.Songs))
	for i, s := range build.Book.Songs {
		var org compile.Origin
		if i < len(build.Origins) {
			org = build.Origins[i]
		}
		rows = append(rows, songRow{
			file:      org.File,
			line:      org.Line,
			position:  i,
			title:     s.Title,
			subtitles: strings.Join(s.Subtitles, "\n"),
			text:      book.SongText(s),
		})
	}

	run := Run{
		ID:          uuid.NewString(),
		TS:          time.Now().UTC(),
		Songs:       len(build.Book.Songs),
		Diagnostics: len(build.Diagnostics),
	}
	data, err := export.MarshalBook(build.Book)
	if err != nil {
		return Run{}, fmt.Errorf("marshal snapshot: %w", err)
	}
	blob, err := compressSnapshot(data)
	if err != nil {
		return Run{}, fmt.Errorf("compress snapshot: %w", err)
	}

	ts := run.TS.Format(tsLayout)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs(id, ts, songs, diagnostics) VALUES(?,?,?,?);`, run.ID, ts, run.Songs, run.Diagnostics); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM songs;`); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("clear songs: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO songs(run_id, file, line, position, title, subtitles, text) VALUES(?,?,?,?,?,?,?);`)
	if err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, run.ID, r.file, r.line, r.position, r.title, r.subtitles, r.text); err != nil {
			_ = tx.Rollback()
			return Run{}, fmt.Errorf("insert song: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots(run_id, ts, book) VALUES(?,?,?);`, run.ID, ts, blob); err != nil {
		_ = tx.Rollback()
		return Run{}, fmt.Errorf("insert snapshot: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}
