/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"songbook/internal/music"
)

// directiveState carries the chord interpretation a song has reached at a
// given line. Directives mutate it from their own line forward; every song
// starts from a fresh state so no directive leaks across songs.
type directiveState struct {
	offset      int // semitones added to primary chords, 0..11
	notation    music.Notation
	altEnabled  bool
	altOffset   int // semitones added to alternative chords, 0..11
	altNotation music.Notation
}

func newDirectiveState(def music.Notation) directiveState {
	return directiveState{notation: def, altNotation: def}
}

// A directive line is "!" or "!!" followed by either a signed semitone
// count or a notation name. Anything else after the bang is malformed.
var directiveRe = regexp.MustCompile(`^(!!?)\s*([+-]?\d+|[A-Za-z][A-Za-z-]*)\s*$`)

// applyDirective interprets one "!"-initial line. Malformed directives are
// reported and leave the state untouched; the line itself never reaches the
// block parser either way.
func (ctx *songContext) applyDirective(line string, lineNo int) {
	m := directiveRe.FindStringSubmatch(line)
	if m == nil {
		ctx.report(Diagnostic{
			Kind:    KindSyntax,
			Line:    lineNo,
			Column:  1,
			Message: fmt.Sprintf("malformed directive %q", line),
			Hint:    "expected !<semitones>, !<notation>, !!<semitones> or !!<notation>",
		})
		return
	}
	alt := m[1] == "!!"
	arg := m[2]

	if off, err := strconv.Atoi(arg); err == nil {
		off = ((off % 12) + 12) % 12
		if alt {
			ctx.directive.altEnabled = true
			ctx.directive.altOffset = off
		} else {
			ctx.directive.offset = off
		}
		return
	}

	n, err := music.ParseNotation(arg)
	if err != nil {
		d := Diagnostic{
			Kind:    KindUnsupportedNotation,
			Line:    lineNo,
			Column:  len(m[1]) + 1,
			Message: fmt.Sprintf("unsupported notation %q", arg),
		}
		var nerr *music.NotationError
		if errors.As(err, &nerr) && nerr.Suggestion != "" {
			d.Hint = fmt.Sprintf("did you mean %q?", nerr.Suggestion)
		}
		ctx.report(d)
		return
	}
	if alt {
		ctx.directive.altEnabled = true
		ctx.directive.altNotation = n
	} else {
		ctx.directive.notation = n
	}
}
