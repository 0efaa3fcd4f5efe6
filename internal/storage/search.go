/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// File optionally restricts matches to one source file. Limit/Offset
// implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text   string
	File   string
	Limit  int
	Offset int
}

// SearchResult represents a single match row.
// Snippet is a highlighted excerpt using [ ] markers when FTS text is used.
// Position is the song's place in book order.
type SearchResult struct {
	SongID   int64
	File     string
	Line     int
	Position int
	Title    string
	Snippet  string
}

// Search performs full-text search over the indexed songs.
// When q.Text is empty, it scans all songs with filters applied; when the
// FTS query cannot be executed (missing module, bad syntax), it retries as a
// case-insensitive LIKE search over title and text.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	// Build dynamic SQL
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT s.id, s.file, s.line, s.position, s.title, snippet(fts_songs, 1, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_songs JOIN songs s ON fts_songs.rowid = s.id\n")
		sb.WriteString("WHERE fts_songs MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT s.id, s.file, s.line, s.position, s.title, ''\n")
		sb.WriteString("FROM songs s\nWHERE 1=1\n")
	}
	if f := strings.TrimSpace(q.File); f != "" {
		sb.WriteString(" AND s.file = ?\n")
		args = append(args, f)
	}
	sb.WriteString("ORDER BY s.position, s.id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	out, err := querySongs(ctx, db, sb.String(), args)
	if err != nil && useFTS {
		// FTS module missing or the query does not parse as FTS5 syntax.
		return likeSearch(ctx, db, q, limit)
	}
	return out, err
}

// likeSearch is the degraded path when the FTS query cannot run.
func likeSearch(ctx context.Context, db *sql.DB, q SearchQuery, limit int) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	sb.WriteString("SELECT s.id, s.file, s.line, s.position, s.title, ''\n")
	sb.WriteString("FROM songs s\n")
	sb.WriteString("WHERE (lower(s.title) LIKE ? OR lower(s.text) LIKE ?)\n")
	needle := likeContains(strings.ToLower(strings.TrimSpace(q.Text)))
	args = append(args, needle, needle)
	if f := strings.TrimSpace(q.File); f != "" {
		sb.WriteString(" AND s.file = ?\n")
		args = append(args, f)
	}
	sb.WriteString("ORDER BY s.position, s.id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	out, err := querySongs(ctx, db, sb.String(), args)
	if err != nil {
		return nil, fmt.Errorf("like search query: %w", err)
	}
	return out, nil
}

func querySongs(ctx context.Context, db *sql.DB, query string, args []any) ([]SearchResult, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.SongID, &r.File, &r.Line, &r.Position, &r.Title, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}
	return out, nil
}

func likeContains(s string) string { return "%" + s + "%" }
