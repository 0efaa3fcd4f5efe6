/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package music

import (
	"errors"
	"testing"
)

func TestParseEnglishBasics(t *testing.T) {
	c, err := Parse("G7", NotationEnglish)
	if err != nil {
		t.Fatalf("parse G7: %v", err)
	}
	if c.Root() != 7 || c.Suffix() != "7" {
		t.Fatalf("G7 parsed to root=%d suffix=%q", c.Root(), c.Suffix())
	}
	if _, ok := c.Bass(); ok {
		t.Fatalf("G7 should have no bass note")
	}

	c, err = Parse("F#m7/A", NotationEnglish)
	if err != nil {
		t.Fatalf("parse F#m7/A: %v", err)
	}
	if c.Root() != 6 || c.Suffix() != "m7" {
		t.Fatalf("F#m7/A parsed to root=%d suffix=%q", c.Root(), c.Suffix())
	}
	if bass, ok := c.Bass(); !ok || bass != 9 {
		t.Fatalf("F#m7/A bass = %d, %v", bass, ok)
	}
	if c.Text() != "F#m7/A" {
		t.Fatalf("untransformed chord re-rendered as %q", c.Text())
	}

	c, err = Parse("Cb", NotationEnglish)
	if err != nil {
		t.Fatalf("parse Cb: %v", err)
	}
	if c.Root() != 11 {
		t.Fatalf("Cb root = %d, want 11", c.Root())
	}
}

func TestParseGermanBasics(t *testing.T) {
	for _, tc := range []struct {
		token string
		root  int
	}{
		{"H", 11},
		{"B", 10},
		{"Fis", 6},
		{"Es", 3},
		{"As", 8},
		{"Ceses", 10},
		{"Hm7", 11},
	} {
		c, err := Parse(tc.token, NotationGerman)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.token, err)
		}
		if c.Root() != tc.root {
			t.Fatalf("%q root = %d, want %d", tc.token, c.Root(), tc.root)
		}
	}
}

func TestParseDegreeSystems(t *testing.T) {
	c, err := Parse("b3m7", NotationNashville)
	if err != nil {
		t.Fatalf("parse b3m7: %v", err)
	}
	if c.Root() != 3 || c.Suffix() != "m7" {
		t.Fatalf("b3m7 parsed to root=%d suffix=%q", c.Root(), c.Suffix())
	}

	c, err = Parse("bVIIsus4/IV", NotationRoman)
	if err != nil {
		t.Fatalf("parse bVIIsus4/IV: %v", err)
	}
	if c.Root() != 10 || c.Suffix() != "sus4" {
		t.Fatalf("bVIIsus4/IV parsed to root=%d suffix=%q", c.Root(), c.Suffix())
	}
	if bass, ok := c.Bass(); !ok || bass != 5 {
		t.Fatalf("bVIIsus4/IV bass = %d, %v", bass, ok)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "   ", "?", "c", "H", "8", "VIII", "C m", "/G"} {
		if _, err := Parse(token, NotationEnglish); !errors.Is(err, ErrChordSyntax) {
			t.Fatalf("Parse(%q) error = %v, want ErrChordSyntax", token, err)
		}
	}
	// Valid only in another system.
	if _, err := Parse("b3", NotationRoman); !errors.Is(err, ErrChordSyntax) {
		t.Fatalf("Roman b3 should not parse, got %v", err)
	}
}

func TestParseUnknownNotation(t *testing.T) {
	if _, err := Parse("C", Notation("klingon")); !errors.Is(err, ErrUnsupportedNotation) {
		t.Fatalf("expected ErrUnsupportedNotation, got %v", err)
	}
}

func TestTransposeBySemitones(t *testing.T) {
	for _, tc := range []struct {
		token string
		by    int
		want  string
	}{
		{"G7", 5, "C7"},
		{"C", 5, "F"},
		{"C/G", 2, "D/A"},
		{"Cmaj7/B", 1, "C#maj7/C"},
		{"Eb", 3, "Gb"},
		{"Eb", 1, "E"},
		{"D#", 3, "F#"},
		{"A", -2, "G"},
	} {
		c, err := Parse(tc.token, NotationEnglish)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.token, err)
		}
		got, err := c.Transposed(tc.by)
		if err != nil {
			t.Fatalf("transpose %q by %d: %v", tc.token, tc.by, err)
		}
		if got.Text() != tc.want {
			t.Fatalf("%q %+d = %q, want %q", tc.token, tc.by, got.Text(), tc.want)
		}
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	tokens := map[Notation][]string{
		NotationEnglish:   {"C", "G7", "F#m7/A", "Bb", "C##dim", "Ebsus4/Gb"},
		NotationGerman:    {"H7", "B", "Fism", "Es", "Asmaj7/Des", "Ceses"},
		NotationNashville: {"1", "b3m7", "#4/5", "7sus4"},
		NotationRoman:     {"I", "bVIIm", "#IVdim/V", "IIIsus2"},
	}
	for notation, list := range tokens {
		for _, token := range list {
			orig, err := Parse(token, notation)
			if err != nil {
				t.Fatalf("parse %s %q: %v", notation, token, err)
			}
			for n := -11; n <= 11; n++ {
				up, err := orig.Transposed(n)
				if err != nil {
					t.Fatalf("%q %+d: %v", token, n, err)
				}
				down, err := up.Transposed(-n)
				if err != nil {
					t.Fatalf("%q %+d then %+d: %v", token, n, -n, err)
				}
				if down.Text() != token {
					t.Fatalf("%s %q %+d then %+d = %q, want original", notation, token, n, -n, down.Text())
				}
			}
		}
	}
}

func TestTransposeOutOfRange(t *testing.T) {
	c, err := Parse("C", NotationEnglish)
	if err != nil {
		t.Fatalf("parse C: %v", err)
	}
	for _, n := range []int{12, -12, 30} {
		if _, err := c.Transposed(n); !errors.Is(err, ErrInvalidTransposition) {
			t.Fatalf("Transposed(%d) error = %v, want ErrInvalidTransposition", n, err)
		}
	}
}

func TestConvertNotation(t *testing.T) {
	for _, tc := range []struct {
		token string
		from  Notation
		to    Notation
		want  string
	}{
		{"B", NotationEnglish, NotationGerman, "H"},
		{"Bb", NotationEnglish, NotationGerman, "B"},
		{"B", NotationGerman, NotationEnglish, "Bb"},
		{"H", NotationGerman, NotationEnglish, "B"},
		{"C#", NotationEnglish, NotationNashville, "#1"},
		{"Eb", NotationEnglish, NotationRoman, "bIII"},
		{"Fism7", NotationGerman, NotationEnglish, "F#m7"},
		{"b7", NotationNashville, NotationEnglish, "Bb"},
	} {
		c, err := Parse(tc.token, tc.from)
		if err != nil {
			t.Fatalf("parse %s %q: %v", tc.from, tc.token, err)
		}
		got, err := c.Converted(tc.to)
		if err != nil {
			t.Fatalf("convert %q to %s: %v", tc.token, tc.to, err)
		}
		if got.Text() != tc.want {
			t.Fatalf("%s %q in %s = %q, want %q", tc.from, tc.token, tc.to, got.Text(), tc.want)
		}
	}
}

func TestConvertRoundTripRestoresSpelling(t *testing.T) {
	// A -> B -> A must reproduce the source text even for spellings the
	// canonical tables would normalize differently.
	for _, token := range []string{"C", "Bb7", "F#m", "C##", "Ebsus4/Gb"} {
		c, err := Parse(token, NotationEnglish)
		if err != nil {
			t.Fatalf("parse %q: %v", token, err)
		}
		there, err := c.Converted(NotationGerman)
		if err != nil {
			t.Fatalf("convert %q: %v", token, err)
		}
		back, err := there.Converted(NotationEnglish)
		if err != nil {
			t.Fatalf("convert %q back: %v", token, err)
		}
		if back.Text() != token {
			t.Fatalf("%q round trip = %q", token, back.Text())
		}
	}
}

func TestConvertSameNotationIsNoOp(t *testing.T) {
	c, err := Parse("C##sus4", NotationEnglish)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	same, err := c.Converted(NotationEnglish)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if same.Text() != "C##sus4" {
		t.Fatalf("no-op conversion changed text to %q", same.Text())
	}
}

func TestConvertUnknownTarget(t *testing.T) {
	c, err := Parse("C", NotationEnglish)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := c.Converted(Notation("solfege")); !errors.Is(err, ErrUnsupportedNotation) {
		t.Fatalf("expected ErrUnsupportedNotation, got %v", err)
	}
}

func TestResolvedCombinesTransposeAndConvert(t *testing.T) {
	c, err := Parse("G7", NotationEnglish)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := c.Resolved(5, NotationGerman)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Text() != "C7" {
		t.Fatalf("G7 +5 in german = %q, want \"C7\"", got.Text())
	}
	got, err = c.Resolved(4, NotationGerman)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Text() != "H7" {
		t.Fatalf("G7 +4 in german = %q, want \"H7\"", got.Text())
	}
}
