/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package music

import "strings"

// note is a pitch class plus the accidental preference of its source
// spelling. The preference decides between the sharp and flat table on
// re-encoding.
type note struct {
	pc   int
	flat bool
}

func (n note) transposed(semitones int) note {
	return note{pc: normPC(n.pc + semitones), flat: n.flat}
}

// Chord is an immutable chord value. Transformations return new values.
//
// A chord remembers the token it was parsed from together with the
// accumulated semitone delta; while the delta is a whole number of octaves
// and the notation still equals the source notation, Text returns the
// original spelling verbatim. Transposing by +N and then -N therefore
// reproduces the exact source text for every parseable token, including
// multi-accidental spellings that the canonical tables would normalize.
type Chord struct {
	root     note
	bass     note
	hasBass  bool
	suffix   string
	notation Notation

	src         string
	srcNotation Notation
	delta       int
}

// Parse parses a chord token in the given notation.
//
// A token is a root (note letter with accidental marks, a German note name,
// or an accidental-prefixed scale degree), an opaque quality/extension
// suffix passed through unchanged, and an optional "/bass" note parsed in
// the same notation.
func Parse(text string, n Notation) (Chord, error) {
	if !n.Valid() {
		return Chord{}, &NotationError{Name: string(n), Suggestion: SuggestNotation(string(n))}
	}
	token := strings.TrimSpace(text)
	if token == "" {
		return Chord{}, &ChordError{Token: text, Notation: n, Reason: "empty token"}
	}

	parsed, err := parserFor(n).ParseString("", token)
	if err != nil {
		return Chord{}, &ChordError{Token: token, Notation: n, Reason: err.Error()}
	}

	pc, flat := decodeRoot(parsed.Root, n)
	c := Chord{
		root:        note{pc: pc, flat: flat},
		suffix:      parsed.Suffix,
		notation:    n,
		src:         token,
		srcNotation: n,
	}
	if parsed.Bass != nil {
		bpc, bflat := decodeRoot(parsed.Bass.Root, n)
		c.bass = note{pc: bpc, flat: bflat}
		c.hasBass = true
	}
	return c, nil
}

// Transposed shifts the chord by the given number of semitones, re-spelling
// root and bass in the chord's current notation. Deltas outside [-11, 11]
// yield a *TranspositionError; callers working from directives normalize
// offsets modulo 12 first and never hit it.
func (c Chord) Transposed(semitones int) (Chord, error) {
	if semitones < -11 || semitones > 11 {
		return Chord{}, &TranspositionError{Semitones: semitones}
	}
	c.root = c.root.transposed(semitones)
	if c.hasBass {
		c.bass = c.bass.transposed(semitones)
	}
	c.delta += semitones
	return c, nil
}

// Converted re-spells the chord in the target notation without changing
// pitch. Converting to the notation already in effect is a strict no-op.
func (c Chord) Converted(target Notation) (Chord, error) {
	if !target.Valid() {
		return Chord{}, &NotationError{Name: string(target), Suggestion: SuggestNotation(string(target))}
	}
	c.notation = target
	return c, nil
}

// Resolved applies a transpose offset and a target notation in one step.
func (c Chord) Resolved(offset int, target Notation) (Chord, error) {
	t, err := c.Transposed(offset)
	if err != nil {
		return Chord{}, err
	}
	return t.Converted(target)
}

// Text renders the chord's surface spelling in its current notation.
func (c Chord) Text() string {
	if c.delta%12 == 0 && c.notation == c.srcNotation {
		return c.src
	}
	var b strings.Builder
	b.WriteString(spell(c.root.pc, c.notation, c.root.flat))
	b.WriteString(c.suffix)
	if c.hasBass {
		b.WriteByte('/')
		b.WriteString(spell(c.bass.pc, c.notation, c.bass.flat))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (c Chord) String() string {
	return c.Text()
}

// Root returns the root pitch class (0-11, 0 = C).
func (c Chord) Root() int {
	return c.root.pc
}

// Bass returns the bass pitch class and whether a bass note is present.
func (c Chord) Bass() (int, bool) {
	return c.bass.pc, c.hasBass
}

// Suffix returns the opaque quality/extension suffix.
func (c Chord) Suffix() string {
	return c.suffix
}

// Notation returns the notation the chord currently renders in.
func (c Chord) Notation() Notation {
	return c.notation
}
