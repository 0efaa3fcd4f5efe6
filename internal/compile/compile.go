/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compile assembles parsed songs into a finished Book.
//
// Each input text is split into song sources, the songs parse concurrently,
// and the results merge back in input order. Chorus references are validated
// once a song's tree is complete. Anything wrong with the source material is
// a diagnostic, never an error: one broken song does not abort the build.
package compile

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"songbook/internal/book"
	"songbook/internal/music"
	"songbook/internal/parser"
)

// Input is one named source text, typically the contents of a song file.
// The name is only used for diagnostic locations.
type Input struct {
	Name string
	Text string
}

// Settings carries the book-level configuration merged into the compiled
// tree. The zero value compiles with the default notation and no smart
// punctuation.
type Settings struct {
	Title            string
	Subtitle         string
	FrontImage       string
	TitleNote        string
	ChorusLabel      string
	Notation         string
	SmartPunctuation bool
}

// Origin records which input a song came from and the line of its heading.
type Origin struct {
	File string
	Line int
}

// Build is a compiled songbook: the assembled tree, one Origin per song in
// Book.Songs order, and every diagnostic collected along the way, grouped
// by input and ordered by position within each input.
type Build struct {
	Book        *book.Book
	Origins     []Origin
	Diagnostics []parser.Diagnostic
}

// Compile parses all inputs into a Book. The returned error is non-nil only
// when ctx is cancelled or the settings name an unknown notation; source
// problems land in Build.Diagnostics and compilation keeps going.
func Compile(ctx context.Context, inputs []Input, settings Settings) (*Build, error) {
	notation := music.DefaultNotation
	if settings.Notation != "" {
		n, err := music.ParseNotation(settings.Notation)
		if err != nil {
			return nil, fmt.Errorf("book notation: %w", err)
		}
		notation = n
	}
	cfg := parser.Config{Notation: notation, SmartPunctuation: settings.SmartPunctuation}

	type job struct {
		input int
		src   parser.Source
	}
	var jobs []job
	splitDiags := make([][]parser.Diagnostic, len(inputs))
	for i, in := range inputs {
		srcs, diags := parser.Split(in.Name, in.Text)
		splitDiags[i] = diags
		for _, src := range srcs {
			jobs = append(jobs, job{input: i, src: src})
		}
	}

	// Songs are independent once split, so they parse in parallel into
	// pre-sized slots; input order survives untouched.
	results := make([]parser.Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[k] = parser.ParseSong(j.src, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Build{
		Book: &book.Book{
			Title:       settings.Title,
			Subtitle:    settings.Subtitle,
			FrontImage:  settings.FrontImage,
			TitleNote:   settings.TitleNote,
			ChorusLabel: settings.ChorusLabel,
			Notation:    notation,
			Songs:       []book.Song{},
		},
	}
	k := 0
	for i := range inputs {
		diags := append([]parser.Diagnostic(nil), splitDiags[i]...)
		for ; k < len(jobs) && jobs[k].input == i; k++ {
			res := results[k]
			diags = append(diags, res.Diagnostics...)
			diags = append(diags, validateChorusRefs(res)...)
			b.Book.Songs = append(b.Book.Songs, res.Song)
			b.Origins = append(b.Origins, Origin{File: res.File, Line: jobs[k].src.Line})
		}
		parser.Sort(diags)
		b.Diagnostics = append(b.Diagnostics, diags...)
	}
	return b, nil
}

// validateChorusRefs checks every reference in one song against the choruses
// that song declares. A reference is good when its number was declared on an
// earlier (or the same) line. The node stays in the tree either way; the
// diagnostic marks it.
func validateChorusRefs(res parser.Result) []parser.Diagnostic {
	var diags []parser.Diagnostic
	for _, use := range res.Uses {
		ok := false
		for _, d := range res.Decls {
			if d.Num == use.Num && d.Line <= use.Line {
				ok = true
				break
			}
		}
		if !ok {
			diags = append(diags, parser.Diagnostic{
				Kind:    parser.KindUnknownChorusRef,
				File:    res.File,
				Line:    use.Line,
				Column:  use.Column,
				Message: fmt.Sprintf("reference to undeclared chorus %d", use.Num),
			})
		}
	}
	return diags
}
