/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package parser turns chord-annotated song text into the document tree of
// the book package.
//
// Supported syntax:
//   - Songs: "# <title>" starts a song; "## <subtitle>" adds a subtitle.
//   - Paragraph labels: "N." numbers a verse, ">" opens a chorus (continuation
//     ">" lines extend it), "### <text>" sets a custom label.
//   - Chords: `token` or ``token`` spans; a chord captures the lyrics that
//     follow it on its line. Tokens are parsed by the music package under the
//     notation and transposition the song's directives have reached.
//   - Directives: "!±N" / "!<notation>" retune primary chords, the "!!" forms
//     enable and retune an alternative chord row.
//   - Inlines: *emphasis*, **strong**, [text](url "title"),
//     ![class](path "WxH"), ">>" chorus references and <custom> tags.
//   - Blocks: "-"/"*" bullet lists, "---" rules, ``` verbatim fences and
//     tag-initial passthrough regions.
//
// Parsing never fails as a whole: malformed constructs drop the smallest
// enclosing block and are reported as Diagnostics.
package parser

import (
	"strings"

	"songbook/internal/book"
	"songbook/internal/music"
)

// Config carries the book-level settings a song is parsed under.
type Config struct {
	// Notation chords are written in before any directive retunes them.
	Notation music.Notation
	// SmartPunctuation curls quotes and converts dash and ellipsis runs in
	// prose text.
	SmartPunctuation bool
}

// Source is one song's raw text as cut from an input file by Split.
type Source struct {
	File  string   // input name, used in diagnostics
	Title string   // heading text
	Line  int      // 1-based line of the heading in the input
	Body  []string // every line after the heading, in order
}

// ChorusUse locates one ">>" reference.
type ChorusUse struct {
	Num    int
	Line   int
	Column int
}

// ChorusDecl locates one declared chorus.
type ChorusDecl struct {
	Num  int
	Line int
}

// Result is the outcome of parsing one song. Uses and Decls let the caller
// check references against declarations once the song is complete; the check
// does not happen here because assembly owns cross-song reporting order.
type Result struct {
	File        string
	Song        book.Song
	Uses        []ChorusUse
	Decls       []ChorusDecl
	Diagnostics []Diagnostic
}

// songContext threads the mutable per-song state through block and inline
// scanning: directive tuning, label counters and the collected diagnostics.
// A fresh context per song keeps directives from leaking across songs.
type songContext struct {
	cfg       Config
	file      string
	directive directiveState

	verseNum  int // highest verse number handed out
	chorusNum int // most recently declared chorus

	subtitles []string
	uses      []ChorusUse
	decls     []ChorusDecl
	diags     []Diagnostic
}

func (ctx *songContext) report(d Diagnostic) {
	d.File = ctx.file
	ctx.diags = append(ctx.diags, d)
}

// Split cuts an input file into song sources on "# " headings. Headings
// inside verbatim fences do not split. Content before the first heading is
// skipped with a diagnostic.
func Split(file, text string) ([]Source, []Diagnostic) {
	var (
		songs   []Source
		diags   []Diagnostic
		inFence bool
		strayAt int
	)
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		t := strings.TrimSpace(raw)
		if len(songs) > 0 && isFence(t) {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(t, "# ") {
			songs = append(songs, Source{File: file, Title: strings.TrimSpace(t[2:]), Line: i + 1})
			continue
		}
		if len(songs) == 0 {
			if t != "" && strayAt == 0 {
				strayAt = i + 1
			}
			continue
		}
		cur := &songs[len(songs)-1]
		cur.Body = append(cur.Body, raw)
	}
	if strayAt != 0 {
		diags = append(diags, Diagnostic{
			Kind:    KindSyntax,
			File:    file,
			Line:    strayAt,
			Column:  1,
			Message: "content before the first song heading",
			Hint:    `songs start with "# <title>"`,
		})
	}
	return songs, diags
}

// ParseSong parses one song source. It always returns a song; trouble spots
// are dropped block by block and land in Result.Diagnostics.
func ParseSong(src Source, cfg Config) Result {
	if cfg.Notation == "" {
		cfg.Notation = music.DefaultNotation
	}
	ctx := &songContext{
		cfg:       cfg,
		file:      src.File,
		directive: newDirectiveState(cfg.Notation),
	}
	bs := &blockScanner{ctx: ctx, lines: src.Body, base: src.Line + 1}
	blocks := bs.run()
	if blocks == nil {
		blocks = []book.Block{}
	}
	return Result{
		File:        src.File,
		Song:        book.Song{Title: src.Title, Subtitles: ctx.subtitles, Blocks: blocks},
		Uses:        ctx.uses,
		Decls:       ctx.decls,
		Diagnostics: ctx.diags,
	}
}
