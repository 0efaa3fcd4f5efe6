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

func TestParseNotationNames(t *testing.T) {
	for name, want := range map[string]Notation{
		"english":     NotationEnglish,
		"English":     NotationEnglish,
		"GERMAN":      NotationGerman,
		" nashville ": NotationNashville,
		"Roman":       NotationRoman,
	} {
		got, err := ParseNotation(name)
		if err != nil {
			t.Fatalf("ParseNotation(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseNotation(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestParseNotationUnknown(t *testing.T) {
	_, err := ParseNotation("germann")
	if !errors.Is(err, ErrUnsupportedNotation) {
		t.Fatalf("expected ErrUnsupportedNotation, got %v", err)
	}
	var ne *NotationError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NotationError, got %T", err)
	}
	if ne.Suggestion != "german" {
		t.Fatalf("suggestion = %q, want \"german\"", ne.Suggestion)
	}

	_, err = ParseNotation("klingon")
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NotationError, got %T", err)
	}
	if ne.Suggestion != "" {
		t.Fatalf("suggestion for unrelated name = %q, want none", ne.Suggestion)
	}
}

func TestNotationValid(t *testing.T) {
	for _, n := range Notations() {
		if !n.Valid() {
			t.Fatalf("%q should be valid", n)
		}
	}
	if Notation("tabs").Valid() {
		t.Fatalf("unknown notation reported valid")
	}
}
