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
	"fmt"
)

// Sentinel errors for the chord engine. Callers match with errors.Is.
var (
	// ErrChordSyntax indicates a token that matches no recognized chord grammar.
	ErrChordSyntax = errors.New("chord syntax error")
	// ErrUnsupportedNotation indicates a notation name outside the four known systems.
	ErrUnsupportedNotation = errors.New("unsupported notation")
	// ErrInvalidTransposition indicates a semitone delta outside [-11, 11].
	ErrInvalidTransposition = errors.New("invalid transposition")
)

// ChordError reports a chord token that could not be parsed.
type ChordError struct {
	Token    string   // the offending token as given
	Notation Notation // notation the token was parsed under
	Reason   string   // parser detail
}

func (e *ChordError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s chord %q: %s", e.Notation, e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid %s chord %q", e.Notation, e.Token)
}

func (e *ChordError) Unwrap() error {
	return ErrChordSyntax
}

// NotationError reports an unknown notation name. Suggestion carries the
// closest known name when one scores above the similarity floor.
type NotationError struct {
	Name       string
	Suggestion string
}

func (e *NotationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown notation %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown notation %q", e.Name)
}

func (e *NotationError) Unwrap() error {
	return ErrUnsupportedNotation
}

// TranspositionError reports a semitone delta outside the representable range.
type TranspositionError struct {
	Semitones int
}

func (e *TranspositionError) Error() string {
	return fmt.Sprintf("transposition by %d semitones is outside [-11, 11]", e.Semitones)
}

func (e *TranspositionError) Unwrap() error {
	return ErrInvalidTransposition
}
