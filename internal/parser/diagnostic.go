/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parser

import (
	"fmt"
	"sort"
)

// Kind names a diagnostic category. The strings are part of the tool's
// output contract and match the error taxonomy of the compiler.
type Kind string

const (
	KindSyntax              Kind = "SyntaxError"
	KindUnsupportedNotation Kind = "UnsupportedNotation"
	KindUnknownChorusRef    Kind = "UnknownChorusReference"
	KindNestedChord         Kind = "NestedChordError"
)

// Diagnostic records one problem found while parsing or validating a song.
// Every dropped block and every bad reference produces exactly one
// Diagnostic; there are no silent failures.
type Diagnostic struct {
	Kind    Kind
	File    string // input name the song came from
	Line    int    // 1-based
	Column  int    // 1-based byte offset in the line
	Message string
	Hint    string // optional "did you mean" style suggestion
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Kind, d.Message)
}

// Sort orders diagnostics by input name, then line, then column. The order
// of diagnostics sharing a position is preserved.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
