/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package music implements the chord engine: parsing chord tokens into
// structured chords, transposition by semitones, and conversion between the
// four supported notation systems. All operations are pure functions over
// immutable chord values; pitch is held as a pitch class 0-11 (0 = C).
package music

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Notation identifies one of the supported chord spelling systems.
type Notation string

const (
	NotationEnglish   Notation = "english"
	NotationGerman    Notation = "german"
	NotationNashville Notation = "nashville"
	NotationRoman     Notation = "roman"
)

// DefaultNotation is assumed when a book declares none.
const DefaultNotation = NotationEnglish

// Notations returns the supported systems in documentation order.
func Notations() []Notation {
	return []Notation{NotationEnglish, NotationGerman, NotationNashville, NotationRoman}
}

// Valid reports whether n is one of the four supported systems.
func (n Notation) Valid() bool {
	switch n {
	case NotationEnglish, NotationGerman, NotationNashville, NotationRoman:
		return true
	}
	return false
}

// suggestionFloor is the minimum Jaro-Winkler similarity for a
// "did you mean" hint on unknown notation names.
const suggestionFloor = 0.8

// ParseNotation resolves a notation name case-insensitively. Unknown names
// yield a *NotationError carrying the closest known name as a suggestion.
func ParseNotation(name string) (Notation, error) {
	n := Notation(strings.ToLower(strings.TrimSpace(name)))
	if n.Valid() {
		return n, nil
	}
	return "", &NotationError{Name: name, Suggestion: SuggestNotation(name)}
}

// SuggestNotation returns the known notation name most similar to name, or
// "" when nothing scores above the suggestion floor.
func SuggestNotation(name string) string {
	jw := metrics.NewJaroWinkler()
	needle := strings.ToLower(strings.TrimSpace(name))
	best := ""
	bestScore := suggestionFloor
	for _, n := range Notations() {
		if score := strutil.Similarity(needle, string(n), jw); score >= bestScore {
			best, bestScore = string(n), score
		}
	}
	return best
}
