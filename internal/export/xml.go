/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"

	"songbook/internal/book"
)

// WriteXML writes the book as an XML document whose element names are the
// stable node tags, under a songbook root carrying the book metadata as
// attributes. Node payload fields become attributes; nested inlines and
// character content become child nodes.
func WriteXML(w io.Writer, b *book.Book) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	x := &xmlWriter{enc: enc}

	attrs := []xml.Attr{attr("astVersion", book.CurrentAstVersion()), attr("title", b.Title)}
	if b.Subtitle != "" {
		attrs = append(attrs, attr("subtitle", b.Subtitle))
	}
	if b.FrontImage != "" {
		attrs = append(attrs, attr("frontImage", b.FrontImage))
	}
	if b.TitleNote != "" {
		attrs = append(attrs, attr("titleNote", b.TitleNote))
	}
	attrs = append(attrs, attr("chorusLabel", b.ChorusLabel), attr("notation", string(b.Notation)))

	x.start("songbook", attrs...)
	for _, s := range b.Songs {
		x.song(s)
	}
	x.end("songbook")
	if x.err != nil {
		return fmt.Errorf("encode xml: %w", x.err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flush xml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

// xmlWriter keeps the first token error and swallows the rest, so the node
// walk below stays free of error plumbing.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func attr(k, v string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: k}, Value: v}
}

func (x *xmlWriter) token(t xml.Token) {
	if x.err == nil {
		x.err = x.enc.EncodeToken(t)
	}
}

func (x *xmlWriter) start(name string, attrs ...xml.Attr) {
	x.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (x *xmlWriter) end(name string) {
	x.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (x *xmlWriter) leaf(name string, attrs ...xml.Attr) {
	x.start(name, attrs...)
	x.end(name)
}

func (x *xmlWriter) element(name, text string, attrs ...xml.Attr) {
	x.start(name, attrs...)
	x.token(xml.CharData(text))
	x.end(name)
}

func (x *xmlWriter) song(s book.Song) {
	x.start("song", attr("title", s.Title))
	for _, sub := range s.Subtitles {
		x.element("subtitle", sub)
	}
	for _, blk := range s.Blocks {
		x.block(blk)
	}
	x.end("song")
}

func (x *xmlWriter) block(blk book.Block) {
	switch n := blk.(type) {
	case book.Verse:
		x.start(book.TagVerse)
		for _, p := range n.Paragraphs {
			x.paragraph(p)
		}
		x.end(book.TagVerse)
	case book.BulletList:
		x.start(book.TagBulletList)
		for _, it := range n.Items {
			x.element("item", it)
		}
		x.end(book.TagBulletList)
	case book.HorizontalLine:
		x.leaf(book.TagHorizontalLine)
	case book.Pre:
		x.element(book.TagPre, n.Text)
	case book.HTMLBlock:
		x.start(book.TagHTMLBlock)
		x.inlines(n.Inlines)
		x.end(book.TagHTMLBlock)
	}
}

func (x *xmlWriter) paragraph(p book.Paragraph) {
	attrs := []xml.Attr{attr("label-kind", string(p.Label.Kind))}
	if p.Label.Num > 0 {
		attrs = append(attrs, attr("label-num", strconv.Itoa(p.Label.Num)))
	}
	if p.Label.Text != "" {
		attrs = append(attrs, attr("label-text", p.Label.Text))
	}
	x.start("paragraph", attrs...)
	x.inlines(p.Inlines)
	x.end("paragraph")
}

func (x *xmlWriter) inlines(run []book.Inline) {
	for _, in := range run {
		x.inline(in)
	}
}

func (x *xmlWriter) inline(in book.Inline) {
	switch n := in.(type) {
	case book.Text:
		x.element(book.TagText, n.Text)
	case book.Chord:
		attrs := []xml.Attr{attr("chord", n.Chord)}
		if n.AltChord != "" {
			attrs = append(attrs, attr("altChord", n.AltChord))
		}
		attrs = append(attrs,
			attr("style", strconv.Itoa(n.Style)),
			attr("baseline", strconv.FormatBool(n.Baseline)))
		x.start(book.TagChord, attrs...)
		x.inlines(n.Inlines)
		x.end(book.TagChord)
	case book.Break:
		x.leaf(book.TagBreak)
	case book.Emph:
		x.start(book.TagEmph)
		x.inlines(n.Inlines)
		x.end(book.TagEmph)
	case book.Strong:
		x.start(book.TagStrong)
		x.inlines(n.Inlines)
		x.end(book.TagStrong)
	case book.Link:
		attrs := []xml.Attr{attr("url", n.URL)}
		if n.Title != "" {
			attrs = append(attrs, attr("title", n.Title))
		}
		x.element(book.TagLink, n.Text, attrs...)
	case book.Image:
		attrs := []xml.Attr{attr("path", n.Path)}
		if n.Width > 0 {
			attrs = append(attrs, attr("width", strconv.Itoa(n.Width)))
		}
		if n.Height > 0 {
			attrs = append(attrs, attr("height", strconv.Itoa(n.Height)))
		}
		if n.Class != "" {
			attrs = append(attrs, attr("class", n.Class))
		}
		x.leaf(book.TagImage, attrs...)
	case book.ChorusRef:
		x.leaf(book.TagChorusRef,
			attr("num", strconv.Itoa(n.Num)),
			attr("space", strconv.FormatBool(n.Space)))
	case book.Tag:
		x.start(book.TagTag, attr("name", n.Name))
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			x.element("attr", n.Attrs[k], attr("key", k))
		}
		x.end(book.TagTag)
	}
}
