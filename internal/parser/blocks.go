/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"songbook/internal/book"
)

var (
	verseLabelRe = regexp.MustCompile(`^(\d+)\.(?:\s+(.*))?$`)
	bulletRe     = regexp.MustCompile(`^[-*]\s+(.*)$`)
	ruleRe       = regexp.MustCompile(`^(?:-{3,}|\*{3,})$`)
)

func isFence(t string) bool {
	return strings.HasPrefix(t, "```")
}

// Directive lines start with a bang; an image marker is the one bang-initial
// construct that is content instead.
func isDirective(t string) bool {
	return strings.HasPrefix(t, "!") && !strings.HasPrefix(t, "![")
}

func allBackticks(t string) bool {
	return len(t) >= 3 && runLen(t, 0, '`') == len(t)
}

func indentWidth(raw string) int {
	return len(raw) - len(strings.TrimLeft(raw, " \t"))
}

// chorusMarker strips a chorus marker from a trimmed line: a single leading
// ">" with one optional following space. ">>" is a chorus reference, not a
// marker.
func chorusMarker(t string) (content string, off int, ok bool) {
	if !strings.HasPrefix(t, ">") || strings.HasPrefix(t, ">>") {
		return "", 0, false
	}
	content, off = t[1:], 1
	if strings.HasPrefix(content, " ") {
		content, off = content[1:], 2
	}
	return content, off, true
}

// verseBuilder accumulates one Verse block: a contiguous run of paragraph
// lines, where each label marker starts a new paragraph. A blank line or any
// non-paragraph construct closes the block. Chorus references and
// declarations stay local until the block survives to the tree; counter
// marks restore song numbering when it does not.
type verseBuilder struct {
	paragraphs []book.Paragraph
	uses       []ChorusUse
	decls      []ChorusDecl
	verseMark  int
	chorusMark int
}

// blockScanner turns a song body into its block sequence.
type blockScanner struct {
	ctx    *songContext
	lines  []string
	base   int // source line number of lines[0]
	blocks []book.Block
	verse  *verseBuilder
}

func (bs *blockScanner) no(i int) int {
	return bs.base + i
}

func (bs *blockScanner) run() []book.Block {
	i := 0
	for i < len(bs.lines) {
		t := strings.TrimSpace(bs.lines[i])
		switch {
		case t == "":
			bs.flushVerse()
			i++
		case isDirective(t):
			bs.ctx.applyDirective(t, bs.no(i))
			i++
		case isFence(t):
			bs.flushVerse()
			i = bs.scanPre(i)
		case ruleRe.MatchString(t):
			bs.flushVerse()
			bs.blocks = append(bs.blocks, book.HorizontalLine{})
			i++
		case strings.HasPrefix(t, "### "):
			i = bs.scanParagraph(i)
		case strings.HasPrefix(t, "## "):
			bs.flushVerse()
			bs.ctx.subtitles = append(bs.ctx.subtitles, strings.TrimSpace(t[3:]))
			i++
		case bulletRe.MatchString(t):
			bs.flushVerse()
			i = bs.scanBullets(i)
		case strings.HasPrefix(t, "<") && tagStart(t, 0):
			bs.flushVerse()
			i = bs.scanHTML(i)
		default:
			i = bs.scanParagraph(i)
		}
	}
	bs.flushVerse()
	return bs.blocks
}

func (bs *blockScanner) flushVerse() {
	if bs.verse == nil {
		return
	}
	if len(bs.verse.paragraphs) > 0 {
		bs.blocks = append(bs.blocks, book.Verse{Paragraphs: bs.verse.paragraphs})
		bs.ctx.uses = append(bs.ctx.uses, bs.verse.uses...)
		bs.ctx.decls = append(bs.ctx.decls, bs.verse.decls...)
	}
	bs.verse = nil
}

// dropVerse discards the open verse run after a parse error. Verse and
// chorus numbering roll back to where the run began, so the numbers its
// paragraphs consumed are handed out again.
func (bs *blockScanner) dropVerse(d *Diagnostic) {
	bs.ctx.report(*d)
	if bs.verse != nil {
		bs.ctx.verseNum = bs.verse.verseMark
		bs.ctx.chorusNum = bs.verse.chorusMark
	}
	bs.verse = nil
}

// paragraphBoundary reports whether a trimmed line ends the paragraph being
// scanned. Chorus paragraphs absorb their own ">" continuation lines.
func paragraphBoundary(t string, isChorus bool) bool {
	switch {
	case t == "":
		return true
	case isFence(t), ruleRe.MatchString(t):
		return true
	case strings.HasPrefix(t, "### "), strings.HasPrefix(t, "## "):
		return true
	case bulletRe.MatchString(t):
		return true
	case verseLabelRe.MatchString(t):
		return true
	case strings.HasPrefix(t, ">>"):
		return false
	case strings.HasPrefix(t, ">"):
		return !isChorus
	case strings.HasPrefix(t, "<") && tagStart(t, 0):
		return true
	}
	return false
}

// scanParagraph consumes one labeled or plain paragraph and appends it to
// the open verse run, opening one when needed. On an inline error the whole
// run is dropped and scanning resumes after the offending paragraph.
func (bs *blockScanner) scanParagraph(i int) int {
	ctx := bs.ctx
	raw := bs.lines[i]
	lead := indentWidth(raw)
	t := strings.TrimSpace(raw)

	if bs.verse == nil {
		bs.verse = &verseBuilder{verseMark: ctx.verseNum, chorusMark: ctx.chorusNum}
	}

	label := book.Label{Kind: book.LabelNone}
	isChorus := false
	hasFirst := true
	firstContent := t
	firstOff := lead

	if m := verseLabelRe.FindStringSubmatchIndex(t); m != nil {
		n, _ := strconv.Atoi(t[m[2]:m[3]])
		if n <= ctx.verseNum {
			n = ctx.verseNum + 1
		}
		ctx.verseNum = n
		label = book.Label{Kind: book.LabelVerse, Num: n}
		if m[4] >= 0 {
			firstContent = t[m[4]:m[5]]
			firstOff = lead + m[4]
		} else {
			hasFirst = false
		}
	} else if c, off, ok := chorusMarker(t); ok {
		ctx.chorusNum++
		label = book.Label{Kind: book.LabelChorus, Num: ctx.chorusNum}
		bs.verse.decls = append(bs.verse.decls, ChorusDecl{Num: ctx.chorusNum, Line: bs.no(i)})
		isChorus = true
		firstContent = c
		firstOff = lead + off
	} else if strings.HasPrefix(t, "### ") {
		label = book.Label{Kind: book.LabelCustom, Text: strings.TrimSpace(t[4:])}
		hasFirst = false
	}

	var para []book.Inline
	parseLine := func(content string, off, lineIdx int) bool {
		run, uses, d := ctx.parseInlines(content, bs.no(lineIdx), off+1)
		if d != nil {
			bs.dropVerse(d)
			return false
		}
		if len(run) > 0 {
			if len(para) > 0 {
				para = append(para, book.Break{})
			}
			para = append(para, run...)
		}
		bs.verse.uses = append(bs.verse.uses, uses...)
		return true
	}

	if hasFirst && strings.TrimSpace(firstContent) != "" {
		if !parseLine(firstContent, firstOff, i) {
			return bs.skipBlock(i + 1)
		}
	}
	i++

	for i < len(bs.lines) {
		raw := bs.lines[i]
		t := strings.TrimSpace(raw)
		if paragraphBoundary(t, isChorus) {
			break
		}
		if isDirective(t) {
			ctx.applyDirective(t, bs.no(i))
			i++
			continue
		}
		content, off := t, indentWidth(raw)
		if isChorus {
			if c, o, ok := chorusMarker(t); ok {
				content, off = c, indentWidth(raw)+o
			}
		}
		if !parseLine(content, off, i) {
			return bs.skipBlock(i + 1)
		}
		i++
	}

	if para == nil {
		para = []book.Inline{}
	}
	bs.verse.paragraphs = append(bs.verse.paragraphs, book.Paragraph{Label: label, Inlines: para})
	return i
}

// skipBlock advances past the remainder of a discarded verse run: everything
// up to the next blank line or non-paragraph construct. Directive lines in
// the skipped region still apply; they tune the song, not the block.
func (bs *blockScanner) skipBlock(i int) int {
	for i < len(bs.lines) {
		t := strings.TrimSpace(bs.lines[i])
		switch {
		case t == "", isFence(t), ruleRe.MatchString(t):
			return i
		case strings.HasPrefix(t, "## ") && !strings.HasPrefix(t, "### "):
			return i
		case bulletRe.MatchString(t):
			return i
		case strings.HasPrefix(t, "<") && tagStart(t, 0):
			return i
		case isDirective(t):
			bs.ctx.applyDirective(t, bs.no(i))
		}
		i++
	}
	return i
}

// scanBullets consumes a run of "-" or "*" items. Item content is inline
// parsed and flattened to plain text; an error drops the whole list.
func (bs *blockScanner) scanBullets(i int) int {
	var items []string
	for i < len(bs.lines) {
		raw := bs.lines[i]
		t := strings.TrimSpace(raw)
		m := bulletRe.FindStringSubmatchIndex(t)
		if m == nil {
			break
		}
		run, _, d := bs.ctx.parseInlines(t[m[2]:m[3]], bs.no(i), indentWidth(raw)+m[2]+1)
		if d != nil {
			bs.ctx.report(*d)
			for i < len(bs.lines) && bulletRe.MatchString(strings.TrimSpace(bs.lines[i])) {
				i++
			}
			return i
		}
		items = append(items, book.PlainText(run))
		i++
	}
	bs.blocks = append(bs.blocks, book.BulletList{Items: items})
	return i
}

// scanPre consumes a fenced verbatim region. The fence content is stored
// byte-for-byte; nothing inside is parsed, not even directives.
func (bs *blockScanner) scanPre(i int) int {
	open := i
	i++
	var body []string
	for i < len(bs.lines) {
		if allBackticks(strings.TrimSpace(bs.lines[i])) {
			text := ""
			if len(body) > 0 {
				text = strings.Join(body, "\n") + "\n"
			}
			bs.blocks = append(bs.blocks, book.Pre{Text: text})
			return i + 1
		}
		body = append(body, bs.lines[i])
		i++
	}
	bs.ctx.report(Diagnostic{
		Kind:    KindSyntax,
		Line:    bs.no(open),
		Column:  1,
		Message: "unterminated code fence",
	})
	return i
}

// scanHTML consumes a raw passthrough region: from a tag-initial line to the
// next blank line, inline parsed but never segmented into paragraphs.
func (bs *blockScanner) scanHTML(i int) int {
	var inlines []book.Inline
	var uses []ChorusUse
	for i < len(bs.lines) {
		raw := bs.lines[i]
		if strings.TrimSpace(raw) == "" {
			break
		}
		run, u, d := bs.ctx.parseInlines(strings.TrimRight(raw, " \t"), bs.no(i), 1)
		if d != nil {
			bs.ctx.report(*d)
			for i < len(bs.lines) && strings.TrimSpace(bs.lines[i]) != "" {
				i++
			}
			return i
		}
		if len(run) > 0 {
			if len(inlines) > 0 {
				inlines = append(inlines, book.Break{})
			}
			inlines = append(inlines, run...)
		}
		uses = append(uses, u...)
		i++
	}
	bs.blocks = append(bs.blocks, book.HTMLBlock{Inlines: inlines})
	bs.ctx.uses = append(bs.ctx.uses, uses...)
	return i
}
