/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

import "strings"

// WalkInlines visits every inline in the run depth first, parents before
// children. Visiting stops early when fn returns false.
func WalkInlines(inlines []Inline, fn func(Inline) bool) bool {
	for _, in := range inlines {
		if !fn(in) {
			return false
		}
		var children []Inline
		switch n := in.(type) {
		case Chord:
			children = n.Inlines
		case Emph:
			children = n.Inlines
		case Strong:
			children = n.Inlines
		}
		if children != nil && !WalkInlines(children, fn) {
			return false
		}
	}
	return true
}

// PlainText flattens an inline run to prose: text and link display text are
// kept, breaks become spaces, chords contribute only their lyrics.
func PlainText(inlines []Inline) string {
	var sb strings.Builder
	WalkInlines(inlines, func(in Inline) bool {
		switch n := in.(type) {
		case Text:
			sb.WriteString(n.Text)
		case Link:
			sb.WriteString(n.Text)
		case Break:
			sb.WriteByte(' ')
		}
		return true
	})
	return sb.String()
}

// SongText flattens a whole song to prose for indexing: paragraph and
// block boundaries become single spaces, surrounding whitespace is trimmed.
func SongText(s Song) string {
	var parts []string
	for _, b := range s.Blocks {
		switch n := b.(type) {
		case Verse:
			for _, p := range n.Paragraphs {
				if t := strings.TrimSpace(PlainText(p.Inlines)); t != "" {
					parts = append(parts, t)
				}
			}
		case BulletList:
			for _, it := range n.Items {
				if t := strings.TrimSpace(it); t != "" {
					parts = append(parts, t)
				}
			}
		case Pre:
			if t := strings.TrimSpace(n.Text); t != "" {
				parts = append(parts, t)
			}
		case HTMLBlock:
			if t := strings.TrimSpace(PlainText(n.Inlines)); t != "" {
				parts = append(parts, t)
			}
		}
	}
	return strings.Join(parts, " ")
}
