/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package music

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// chordToken is the participle grammar shared by all four notations; only
// the Root lexer rule differs per system. The suffix is opaque and runs to
// the bass separator or the end of the token.
//
//nolint:govet // participle grammar tags are not standard struct tags
type chordToken struct {
	Root   string     `@Root`
	Suffix string     `@(Rest | Root)*`
	Bass   *bassToken `("/" @@)?`
}

// bassToken is a bare note after "/"; it takes no suffix of its own.
//
//nolint:govet // participle grammar tags are not standard struct tags
type bassToken struct {
	Root string `@Root`
}

// chordLexer builds the token rules for one notation. Whitespace is not a
// rule on purpose: a chord token containing spaces fails lexing and is
// reported as a syntax error.
func chordLexer(rootPattern string) lexer.Definition {
	return lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Root", Pattern: rootPattern},
		{Name: "Slash", Pattern: `/`},
		{Name: "Rest", Pattern: `[^/\s]`},
	})
}

// Root patterns. English roots take trailing # or b marks (repeatable, not
// mixed). German roots are matched longest-name-first so that "Es" wins over
// "E" followed by an "s" suffix; the degree systems put accidentals before
// the degree.
const (
	englishRootPattern   = `[A-G](?:#+|b+)?`
	germanRootPattern    = `A(?:isis|is|sas|ses|s)?|B|C(?:isis|is|eses|es)?|D(?:isis|is|eses|es)?|E(?:isis|is|ses|s)?|F(?:isis|is|eses|es)?|G(?:isis|is|eses|es)?|H(?:isis|is|eses|es)?`
	nashvilleRootPattern = `(?:#+|b+)?[1-7]`
	romanRootPattern     = `(?:#+|b+)?(?:VII|VI|V|IV|III|II|I)`
)

var (
	englishChordParser = participle.MustBuild[chordToken](
		participle.Lexer(chordLexer(englishRootPattern)),
	)
	germanChordParser = participle.MustBuild[chordToken](
		participle.Lexer(chordLexer(germanRootPattern)),
	)
	nashvilleChordParser = participle.MustBuild[chordToken](
		participle.Lexer(chordLexer(nashvilleRootPattern)),
	)
	romanChordParser = participle.MustBuild[chordToken](
		participle.Lexer(chordLexer(romanRootPattern)),
	)
)

// parserFor selects the token parser for a notation.
func parserFor(n Notation) *participle.Parser[chordToken] {
	switch n {
	case NotationGerman:
		return germanChordParser
	case NotationNashville:
		return nashvilleChordParser
	case NotationRoman:
		return romanChordParser
	default:
		return englishChordParser
	}
}

// decodeRoot turns a matched root string into a pitch class and an
// accidental preference for re-spelling.
func decodeRoot(root string, n Notation) (pc int, flat bool) {
	switch n {
	case NotationGerman:
		return decodeGermanRoot(root)
	case NotationNashville:
		return decodeDegreeRoot(root, false)
	case NotationRoman:
		return decodeDegreeRoot(root, true)
	default:
		return decodeEnglishRoot(root)
	}
}

func decodeEnglishRoot(root string) (int, bool) {
	pc := englishLetterPC[root[0]]
	rest := root[1:]
	pc += strings.Count(rest, "#")
	pc -= strings.Count(rest, "b")
	return normPC(pc), strings.Contains(rest, "b")
}

func decodeGermanRoot(root string) (int, bool) {
	pc := germanLetterPC[root[0]]
	// Plain "B" is itself the flat spelling of pitch class 10.
	flat := root == "B"
	rest := root[1:]
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "is"):
			pc++
			rest = rest[2:]
		case strings.HasPrefix(rest, "sas"):
			pc -= 2
			flat = true
			rest = rest[3:]
		case strings.HasPrefix(rest, "es"):
			pc--
			flat = true
			rest = rest[2:]
		default: // bare "s" (As, Es) and the "ses" tail
			pc--
			flat = true
			rest = rest[1:]
		}
	}
	return normPC(pc), flat
}

func decodeDegreeRoot(root string, roman bool) (int, bool) {
	marks := 0
	for marks < len(root) && (root[marks] == '#' || root[marks] == 'b') {
		marks++
	}
	accs := root[:marks]
	degree := 0
	if roman {
		degree = romanDegree[root[marks:]]
	} else {
		degree = int(root[marks] - '0')
	}
	pc := degreePC[degree]
	pc += strings.Count(accs, "#")
	pc -= strings.Count(accs, "b")
	return normPC(pc), strings.Contains(accs, "b")
}
