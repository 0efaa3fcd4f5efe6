/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package book defines the compiled document tree: Book, Song, the Block and
// Inline node variants, and their serialized forms. Trees are built once by
// the parser and are read-only afterwards; renderers dispatch on the stable
// node tags exposed here.
package book

import "songbook/internal/music"

// Stable node tags. Renderers dispatch on these by name, so the strings are
// a compatibility contract and must not change between minor versions.
const (
	TagVerse          = "b-verse"
	TagBulletList     = "b-bullet-list"
	TagHorizontalLine = "b-horizontal-line"
	TagPre            = "b-pre"
	TagHTMLBlock      = "b-html-block"

	TagText      = "i-text"
	TagChord     = "i-chord"
	TagBreak     = "i-break"
	TagEmph      = "i-emph"
	TagStrong    = "i-strong"
	TagLink      = "i-link"
	TagImage     = "i-image"
	TagChorusRef = "i-chorus-ref"
	TagTag       = "i-tag"
)

// Book is the root of the compiled tree.
type Book struct {
	Title       string         `json:"title"`
	Subtitle    string         `json:"subtitle,omitempty"`
	FrontImage  string         `json:"frontImage,omitempty"`
	TitleNote   string         `json:"titleNote,omitempty"`
	ChorusLabel string         `json:"chorusLabel"`
	Notation    music.Notation `json:"notation"`
	Songs       []Song         `json:"songs"`
}

// Song is one parsed song: a title, its subtitles and the block sequence.
type Song struct {
	Title     string   `json:"title"`
	Subtitles []string `json:"subtitles,omitempty"`
	Blocks    []Block  `json:"blocks"`
}

// Block is a closed variant: Verse, BulletList, HorizontalLine, Pre or
// HTMLBlock. The blockNode marker keeps the set closed to this package.
type Block interface {
	BlockTag() string
	blockNode()
}

// Verse groups consecutive labeled paragraphs.
type Verse struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// BulletList holds pre-rendered item strings; items carry no block structure.
type BulletList struct {
	Items []string `json:"items"`
}

// HorizontalLine is a rule with no payload.
type HorizontalLine struct{}

// Pre is a verbatim region; Text is stored byte-for-byte and is never
// inline-parsed.
type Pre struct {
	Text string `json:"text"`
}

// HTMLBlock is a raw passthrough region: inline-parsed but not segmented
// into paragraphs.
type HTMLBlock struct {
	Inlines []Inline `json:"inlines"`
}

func (Verse) BlockTag() string          { return TagVerse }
func (BulletList) BlockTag() string     { return TagBulletList }
func (HorizontalLine) BlockTag() string { return TagHorizontalLine }
func (Pre) BlockTag() string            { return TagPre }
func (HTMLBlock) BlockTag() string      { return TagHTMLBlock }

func (Verse) blockNode()          {}
func (BulletList) blockNode()     {}
func (HorizontalLine) blockNode() {}
func (Pre) blockNode()            {}
func (HTMLBlock) blockNode()      {}

// LabelKind distinguishes the paragraph label variants.
type LabelKind string

const (
	LabelNone   LabelKind = "none"
	LabelVerse  LabelKind = "verse"
	LabelChorus LabelKind = "chorus"
	LabelCustom LabelKind = "custom"
)

// Label names a paragraph: an explicit verse number, a chorus number, custom
// text, or nothing for plain paragraphs.
type Label struct {
	Kind LabelKind `json:"kind"`
	Num  int       `json:"num,omitempty"`
	Text string    `json:"text,omitempty"`
}

// Paragraph is an ordered inline run plus its label.
type Paragraph struct {
	Label   Label    `json:"label"`
	Inlines []Inline `json:"inlines"`
}

// Inline is a closed variant: Text, Chord, Break, Emph, Strong, Link, Image,
// ChorusRef or Tag.
type Inline interface {
	InlineTag() string
	inlineNode()
}

// Text is literal prose.
type Text struct {
	Text string `json:"text"`
}

// Chord is a resolved chord span. Chord and AltChord carry the surface text
// after transposition and notation conversion; Inlines holds the lyric run
// the chord is sung over and never contains another Chord.
type Chord struct {
	Chord    string   `json:"chord"`
	AltChord string   `json:"altChord,omitempty"`
	Style    int      `json:"style"`
	Baseline bool     `json:"baseline"`
	Inlines  []Inline `json:"inlines,omitempty"`
}

// Break separates the lines of a paragraph; it never ends one.
type Break struct{}

// Emph is emphasized content.
type Emph struct {
	Inlines []Inline `json:"inlines"`
}

// Strong is strongly emphasized content.
type Strong struct {
	Inlines []Inline `json:"inlines"`
}

// Link is a hyperlink with display text.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Image references a picture by path; zero width/height mean unspecified.
type Image struct {
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Class  string `json:"class,omitempty"`
}

// ChorusRef points back to a chorus declared earlier in the same song.
// Space is set when the reference follows other content on its line.
type ChorusRef struct {
	Num   int  `json:"num"`
	Space bool `json:"space"`
}

// Tag is an opaque custom element resolved only by the renderer.
type Tag struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

func (Text) InlineTag() string      { return TagText }
func (Chord) InlineTag() string     { return TagChord }
func (Break) InlineTag() string     { return TagBreak }
func (Emph) InlineTag() string      { return TagEmph }
func (Strong) InlineTag() string    { return TagStrong }
func (Link) InlineTag() string      { return TagLink }
func (Image) InlineTag() string     { return TagImage }
func (ChorusRef) InlineTag() string { return TagChorusRef }
func (Tag) InlineTag() string       { return TagTag }

func (Text) inlineNode()      {}
func (Chord) inlineNode()     {}
func (Break) inlineNode()     {}
func (Emph) inlineNode()      {}
func (Strong) inlineNode()    {}
func (Link) inlineNode()      {}
func (Image) inlineNode()     {}
func (ChorusRef) inlineNode() {}
func (Tag) inlineNode()       {}
