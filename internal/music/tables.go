/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package music

// Canonical spelling tables. Re-encoding a pitch class picks the sharp table
// unless the source token was spelled with flats; this keeps repeated round
// trips deterministic. The scale-degree systems (Nashville, Roman) are
// anchored to a fixed reference key of C major, which makes every system a
// total, invertible map over pitch classes 0-11.

var englishSharp = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var englishFlat = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// German spells sharps with "is" and flats with "es" (irregulars: As, Es, B).
// Pitch class 10 is "B", 11 is "H".
var germanSharp = [12]string{"C", "Cis", "D", "Dis", "E", "F", "Fis", "G", "Gis", "A", "Ais", "H"}
var germanFlat = [12]string{"C", "Des", "D", "Es", "E", "F", "Ges", "G", "As", "A", "B", "H"}

// Nashville and Roman write the accidental before the degree.
var nashvilleSharp = [12]string{"1", "#1", "2", "#2", "3", "4", "#4", "5", "#5", "6", "#6", "7"}
var nashvilleFlat = [12]string{"1", "b2", "2", "b3", "3", "4", "b5", "5", "b6", "6", "b7", "7"}

var romanSharp = [12]string{"I", "#I", "II", "#II", "III", "IV", "#IV", "V", "#V", "VI", "#VI", "VII"}
var romanFlat = [12]string{"I", "bII", "II", "bIII", "III", "IV", "bV", "V", "bVI", "VI", "bVII", "VII"}

// englishLetterPC maps natural note letters to pitch classes.
var englishLetterPC = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// germanLetterPC differs from English in the B/H pair: German B is English
// B-flat, German H is English B.
var germanLetterPC = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 10, 'H': 11,
}

// degreePC maps scale degrees 1-7 to pitch classes in the C major reference.
var degreePC = [8]int{0, 0, 2, 4, 5, 7, 9, 11}

// romanDegree maps uppercase Roman numerals to scale degrees.
var romanDegree = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6, "VII": 7,
}

// spell renders a pitch class in the given notation, preferring flat
// spellings when flat is set.
func spell(pc int, n Notation, flat bool) string {
	pc = normPC(pc)
	switch n {
	case NotationGerman:
		if flat {
			return germanFlat[pc]
		}
		return germanSharp[pc]
	case NotationNashville:
		if flat {
			return nashvilleFlat[pc]
		}
		return nashvilleSharp[pc]
	case NotationRoman:
		if flat {
			return romanFlat[pc]
		}
		return romanSharp[pc]
	default:
		if flat {
			return englishFlat[pc]
		}
		return englishSharp[pc]
	}
}

// normPC wraps a pitch class into 0-11.
func normPC(pc int) int {
	pc %= 12
	if pc < 0 {
		pc += 12
	}
	return pc
}
