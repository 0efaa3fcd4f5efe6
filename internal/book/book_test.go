/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package book

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalWritesTypeTags(t *testing.T) {
	s := Song{
		Title: "Marshal Me",
		Blocks: []Block{
			Verse{Paragraphs: []Paragraph{
				{
					Label: Label{Kind: LabelVerse, Num: 1},
					Inlines: []Inline{
						Chord{Chord: "G7", Style: 1, Inlines: []Inline{Text{Text: "hello"}}},
						Break{},
						Strong{Inlines: []Inline{Text{Text: "loud"}}},
						ChorusRef{Num: 1, Space: true},
					},
				},
			}},
			HorizontalLine{},
			Pre{Text: "  raw\n"},
		},
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(b)
	for _, tag := range []string{
		TagVerse, TagChord, TagBreak, TagStrong, TagChorusRef, TagHorizontalLine, TagPre, TagText,
	} {
		if !strings.Contains(out, `"type":"`+tag+`"`) {
			t.Fatalf("marshaled song missing %q tag: %s", tag, out)
		}
	}
	if !strings.Contains(out, `"chord":"G7"`) {
		t.Fatalf("chord surface text not serialized: %s", out)
	}
}

func TestMarshalTypeFieldComesFirst(t *testing.T) {
	b, err := json.Marshal(Text{Text: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"type":"i-text","text":"x"}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestMarshalEmptyNodes(t *testing.T) {
	b, err := json.Marshal([]Inline{Break{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `[{"type":"i-break"}]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestWalkInlinesVisitsNestedRuns(t *testing.T) {
	run := []Inline{
		Chord{Chord: "C", Inlines: []Inline{
			Text{Text: "a"},
			Emph{Inlines: []Inline{Text{Text: "b"}}},
		}},
		Text{Text: "c"},
	}

	var tags []string
	WalkInlines(run, func(in Inline) bool {
		tags = append(tags, in.InlineTag())
		return true
	})
	want := []string{TagChord, TagText, TagEmph, TagText, TagText}
	if len(tags) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(tags), len(want), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("visit order %v, want %v", tags, want)
		}
	}
}

func TestWalkInlinesStopsEarly(t *testing.T) {
	run := []Inline{Text{Text: "a"}, Text{Text: "b"}, Text{Text: "c"}}
	var n int
	WalkInlines(run, func(Inline) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("visited %d nodes after early stop, want 2", n)
	}
}

func TestPlainTextFlattensChordsAndBreaks(t *testing.T) {
	run := []Inline{
		Chord{Chord: "G", Inlines: []Inline{Text{Text: "Hello"}}},
		Break{},
		Text{Text: "world "},
		Link{URL: "https://example.com", Text: "here"},
		Image{Path: "x.png"},
	}
	if got, want := PlainText(run), "Hello world here"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSongTextJoinsBlocks(t *testing.T) {
	s := Song{
		Title: "Index Me",
		Blocks: []Block{
			Verse{Paragraphs: []Paragraph{
				{Inlines: []Inline{Text{Text: "first line"}}},
				{Inlines: []Inline{Text{Text: "second line"}}},
			}},
			HorizontalLine{},
			BulletList{Items: []string{"one", "two"}},
			Pre{Text: "kept as is\n"},
		},
	}
	got := SongText(s)
	want := "first line second line one two kept as is"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestCurrentAstVersionMatchesLog(t *testing.T) {
	if len(AstVersionLog) == 0 {
		t.Fatal("version log is empty")
	}
	last := AstVersionLog[len(AstVersionLog)-1]
	if CurrentAstVersion() != last.Version {
		t.Fatalf("current %q does not match last log entry %q", CurrentAstVersion(), last.Version)
	}
	for _, c := range AstVersionLog {
		if c.Version == "" || c.Summary == "" {
			t.Fatalf("incomplete log entry: %+v", c)
		}
	}
}
