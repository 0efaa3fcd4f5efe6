/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"songbook/internal/book"
	"songbook/internal/music"
)

// lineState is shared by an inline scanner and its span sub-scanners so that
// chorus references see everything already emitted on the line.
type lineState struct {
	uses       []ChorusUse
	sawContent bool
}

// inlineScanner parses one line (or one emphasis span of a line) into an
// ordered inline run. Chord spans are recognized only at line top level;
// inside emphasis content a backtick is literal text unless the span itself
// sits under a chord's lyric capture, which is an error.
type inlineScanner struct {
	ctx  *songContext
	st   *lineState
	text string
	no   int // source line, 1-based
	base int // column of text[0] in the source line, 1-based
	pos  int

	depth       int  // emphasis nesting, 0 at line top level
	chordActive bool // scanning content captured by a chord
}

// parseInlines parses one line of content. baseCol is the 1-based column of
// the first byte of text within the original source line.
func (ctx *songContext) parseInlines(text string, lineNo, baseCol int) ([]book.Inline, []ChorusUse, *Diagnostic) {
	st := &lineState{}
	s := &inlineScanner{ctx: ctx, st: st, text: text, no: lineNo, base: baseCol}
	out, d := s.run()
	if d != nil {
		return nil, nil, d
	}
	return out, st.uses, nil
}

func (s *inlineScanner) run() ([]book.Inline, *Diagnostic) {
	var out []book.Inline
	var open *book.Chord    // chord currently capturing lyrics
	var lyric []book.Inline // run captured so far for open

	flush := func() {
		if open == nil {
			return
		}
		if spaceOnly(lyric) {
			open.Baseline = true
		} else {
			open.Inlines = lyric
		}
		out = append(out, *open)
		open, lyric = nil, nil
	}
	emit := func(in book.Inline) {
		if open != nil {
			lyric = append(lyric, in)
		} else {
			out = append(out, in)
		}
	}

	for s.pos < len(s.text) {
		next := s.findConstruct(s.pos)
		if next > s.pos {
			raw := s.text[s.pos:next]
			if strings.TrimSpace(raw) != "" {
				s.st.sawContent = true
			}
			if s.ctx.cfg.SmartPunctuation {
				raw = smartPunct(raw)
			}
			emit(book.Text{Text: raw})
			s.pos = next
			continue
		}
		switch s.text[s.pos] {
		case '`':
			if s.depth > 0 {
				return nil, s.diag(KindNestedChord, s.pos, "chord span inside content already captured by a chord", "")
			}
			ch, d := s.scanChord()
			if d != nil {
				return nil, d
			}
			flush()
			open = &ch
			s.st.sawContent = true
		case '*':
			in, d := s.scanSpan(open != nil || s.chordActive)
			if d != nil {
				return nil, d
			}
			s.st.sawContent = true
			emit(in)
		case '!':
			in, d := s.scanImage()
			if d != nil {
				return nil, d
			}
			s.st.sawContent = true
			emit(in)
		case '[':
			in, d := s.scanLink()
			if d != nil {
				return nil, d
			}
			s.st.sawContent = true
			emit(in)
		case '>':
			emit(s.scanChorusRef())
		case '<':
			in, d := s.scanTag()
			if d != nil {
				return nil, d
			}
			s.st.sawContent = true
			emit(in)
		}
	}
	flush()
	return out, nil
}

// findConstruct returns the position of the next marker that genuinely opens
// an inline construct, or len(text) when the rest of the line is prose.
func (s *inlineScanner) findConstruct(from int) int {
	for i := from; i < len(s.text); i++ {
		switch s.text[i] {
		case '`':
			if s.depth == 0 || s.chordActive {
				return i
			}
		case '*', '[':
			return i
		case '!':
			if i+1 < len(s.text) && s.text[i+1] == '[' {
				return i
			}
		case '>':
			if i+1 < len(s.text) && s.text[i+1] == '>' {
				return i
			}
		case '<':
			if tagStart(s.text, i) {
				return i
			}
		}
	}
	return len(s.text)
}

func (s *inlineScanner) diag(kind Kind, pos int, msg, hint string) *Diagnostic {
	return &Diagnostic{Kind: kind, Line: s.no, Column: s.base + pos, Message: msg, Hint: hint}
}

// scanChord consumes `token` or ``token`` and resolves the token against the
// song's directive state.
func (s *inlineScanner) scanChord() (book.Chord, *Diagnostic) {
	start := s.pos
	marks := runLen(s.text, start, '`')
	if marks > 2 {
		return book.Chord{}, s.diag(KindSyntax, start,
			fmt.Sprintf("chord delimiter of %d backticks; use ` or ``", marks), "")
	}
	inner := start + marks
	rel := strings.IndexByte(s.text[inner:], '`')
	if rel < 0 {
		return book.Chord{}, s.diag(KindSyntax, start, "unterminated chord span", "")
	}
	end := inner + rel
	if runLen(s.text, end, '`') != marks {
		return book.Chord{}, s.diag(KindSyntax, end, "mismatched chord delimiter", "")
	}
	token := s.text[inner:end]
	s.pos = end + marks
	return s.ctx.resolveChord(token, marks, s.no, s.base+start)
}

// resolveChord parses a chord token under the active notation and applies the
// song's transpose and conversion state. The alternative spelling is derived
// from the same source token, never from the primary result.
func (ctx *songContext) resolveChord(token string, marks, lineNo, col int) (book.Chord, *Diagnostic) {
	st := ctx.directive
	parsed, err := music.Parse(token, st.notation)
	if err != nil {
		return book.Chord{}, chordDiag(err, lineNo, col)
	}
	primary, err := parsed.Resolved(st.offset, st.notation)
	if err != nil {
		return book.Chord{}, chordDiag(err, lineNo, col)
	}
	ch := book.Chord{Chord: primary.Text(), Style: marks}
	if st.altEnabled {
		alt, err := parsed.Resolved(st.altOffset, st.altNotation)
		if err != nil {
			return book.Chord{}, chordDiag(err, lineNo, col)
		}
		ch.AltChord = alt.Text()
	}
	return ch, nil
}

func chordDiag(err error, line, col int) *Diagnostic {
	d := &Diagnostic{Kind: KindSyntax, Line: line, Column: col, Message: err.Error()}
	var nerr *music.NotationError
	if errors.As(err, &nerr) {
		d.Kind = KindUnsupportedNotation
		d.Message = fmt.Sprintf("unsupported notation %q", nerr.Name)
		if nerr.Suggestion != "" {
			d.Hint = fmt.Sprintf("did you mean %q?", nerr.Suggestion)
		}
	}
	return d
}

// scanSpan consumes *emphasis* or **strong emphasis** and parses its content
// with a sub-scanner. chordActive marks spans living inside a chord's lyric
// capture, where chord marks are forbidden rather than literal.
func (s *inlineScanner) scanSpan(chordActive bool) (book.Inline, *Diagnostic) {
	start := s.pos
	delim := "*"
	if strings.HasPrefix(s.text[start:], "**") {
		delim = "**"
	}
	inner := start + len(delim)
	rel := strings.Index(s.text[inner:], delim)
	if rel < 0 {
		what := "emphasis"
		if delim == "**" {
			what = "strong emphasis"
		}
		return nil, s.diag(KindSyntax, start, "unterminated "+what+" span", "")
	}
	child := &inlineScanner{
		ctx:         s.ctx,
		st:          s.st,
		text:        s.text[inner : inner+rel],
		no:          s.no,
		base:        s.base + inner,
		depth:       s.depth + 1,
		chordActive: chordActive,
	}
	kids, d := child.run()
	if d != nil {
		return nil, d
	}
	if kids == nil {
		kids = []book.Inline{}
	}
	s.pos = inner + rel + len(delim)
	if delim == "**" {
		return book.Strong{Inlines: kids}, nil
	}
	return book.Emph{Inlines: kids}, nil
}

// scanLink consumes [text](url "title"); the quoted title is optional.
func (s *inlineScanner) scanLink() (book.Inline, *Diagnostic) {
	start := s.pos
	rel := strings.IndexByte(s.text[start+1:], ']')
	if rel < 0 {
		return nil, s.diag(KindSyntax, start, "unterminated link text", "")
	}
	textEnd := start + 1 + rel
	display := s.text[start+1 : textEnd]
	if textEnd+1 >= len(s.text) || s.text[textEnd+1] != '(' {
		return nil, s.diag(KindSyntax, textEnd, "link text must be followed by a (target)", "")
	}
	tgt := textEnd + 2
	rel = strings.IndexByte(s.text[tgt:], ')')
	if rel < 0 {
		return nil, s.diag(KindSyntax, textEnd+1, "unterminated link target", "")
	}
	url, title := splitTarget(s.text[tgt : tgt+rel])
	s.pos = tgt + rel + 1
	return book.Link{URL: url, Title: title, Text: display}, nil
}

// scanImage consumes ![class](path "WxH"). The quoted part, when present,
// must be a WIDTHxHEIGHT pixel size.
func (s *inlineScanner) scanImage() (book.Inline, *Diagnostic) {
	start := s.pos
	s.pos++ // past '!', the rest is link-shaped
	in, d := s.scanLink()
	if d != nil {
		return nil, d
	}
	l := in.(book.Link)
	img := book.Image{Path: l.URL, Class: l.Text}
	if l.Title != "" {
		w, h, ok := parseSize(l.Title)
		if !ok {
			return nil, s.diag(KindSyntax, start,
				fmt.Sprintf("image size %q: expected WIDTHxHEIGHT", l.Title), "")
		}
		img.Width, img.Height = w, h
	}
	return img, nil
}

// scanChorusRef consumes >> with an optional chorus number. A bare reference
// points at the most recently declared chorus, or 1 when none exists yet;
// whether that chorus exists is checked after the whole song is parsed.
func (s *inlineScanner) scanChorusRef() book.ChorusRef {
	start := s.pos
	s.pos += 2
	num := 0
	for s.pos < len(s.text) && s.text[s.pos] >= '0' && s.text[s.pos] <= '9' {
		num = num*10 + int(s.text[s.pos]-'0')
		s.pos++
	}
	if num == 0 {
		num = s.ctx.chorusNum
		if num == 0 {
			num = 1
		}
	}
	ref := book.ChorusRef{Num: num, Space: s.st.sawContent}
	s.st.uses = append(s.st.uses, ChorusUse{Num: num, Line: s.no, Column: s.base + start})
	s.st.sawContent = true
	return ref
}

// scanTag consumes <name key="value">, </name> or <name/>. Closing tags keep
// the slash in their name; the tag set is open and left to renderers.
func (s *inlineScanner) scanTag() (book.Inline, *Diagnostic) {
	start := s.pos
	i := start + 1
	name := ""
	if s.text[i] == '/' {
		name = "/"
		i++
	}
	nameStart := i
	for i < len(s.text) && isNameByte(s.text[i], i > nameStart) {
		i++
	}
	name += s.text[nameStart:i]

	var attrs map[string]string
	for {
		for i < len(s.text) && (s.text[i] == ' ' || s.text[i] == '\t') {
			i++
		}
		if i >= len(s.text) {
			return nil, s.diag(KindSyntax, start, "unterminated tag", "")
		}
		if s.text[i] == '>' {
			i++
			break
		}
		if s.text[i] == '/' && i+1 < len(s.text) && s.text[i+1] == '>' {
			i += 2
			break
		}
		k := i
		for i < len(s.text) && isNameByte(s.text[i], i > k) {
			i++
		}
		if i == k || i >= len(s.text) || s.text[i] != '=' {
			return nil, s.diag(KindSyntax, k, `malformed tag attribute: expected key="value"`, "")
		}
		key := s.text[k:i]
		i++
		if i >= len(s.text) || s.text[i] != '"' {
			return nil, s.diag(KindSyntax, i, "tag attribute value must be double-quoted", "")
		}
		i++
		rel := strings.IndexByte(s.text[i:], '"')
		if rel < 0 {
			return nil, s.diag(KindSyntax, i-1, "unterminated tag attribute value", "")
		}
		if attrs == nil {
			attrs = map[string]string{}
		}
		attrs[key] = s.text[i : i+rel]
		i += rel + 1
	}
	s.pos = i
	return book.Tag{Name: name, Attrs: attrs}, nil
}

// tagStart reports whether text[i] == '<' opens something tag-shaped: an
// optional slash followed by a letter. Everything else stays prose.
func tagStart(text string, i int) bool {
	j := i + 1
	if j < len(text) && text[j] == '/' {
		j++
	}
	return j < len(text) && isLetter(text[j])
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isNameByte(b byte, notFirst bool) bool {
	if isLetter(b) {
		return true
	}
	return notFirst && (b >= '0' && b <= '9' || b == '-' || b == '_')
}

func runLen(text string, i int, b byte) int {
	n := 0
	for i+n < len(text) && text[i+n] == b {
		n++
	}
	return n
}

// spaceOnly reports whether a captured lyric run carries no visible content,
// which turns the capturing chord into a baseline chord.
func spaceOnly(run []book.Inline) bool {
	for _, in := range run {
		t, ok := in.(book.Text)
		if !ok || strings.TrimSpace(t.Text) != "" {
			return false
		}
	}
	return true
}

// splitTarget separates a link target into URL and optional quoted title.
func splitTarget(target string) (url, title string) {
	t := strings.TrimSpace(target)
	if strings.HasSuffix(t, `"`) {
		if i := strings.Index(t, ` "`); i >= 0 {
			return strings.TrimSpace(t[:i]), t[i+2 : len(t)-1]
		}
	}
	return t, ""
}

func parseSize(s string) (w, h int, ok bool) {
	x := strings.IndexByte(s, 'x')
	if x <= 0 || x == len(s)-1 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(s[:x])
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(s[x+1:])
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
