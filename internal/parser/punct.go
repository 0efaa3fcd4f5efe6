/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// smartPunct replaces typewriter punctuation with typographic forms: "..."
// becomes an ellipsis, "---" an em dash, "--" an en dash, and straight quotes
// curl based on the character before them. It runs over prose text only;
// chord tokens, verbatim regions, URLs and attribute values never pass
// through here.
func smartPunct(s string) string {
	if !strings.ContainsAny(s, `.-'"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := rune(0)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '.' && strings.HasPrefix(s[i:], "..."):
			b.WriteRune('…')
			prev = '…'
			i += 3
			continue
		case r == '-' && strings.HasPrefix(s[i:], "---"):
			b.WriteRune('—')
			prev = '—'
			i += 3
			continue
		case r == '-' && strings.HasPrefix(s[i:], "--"):
			b.WriteRune('–')
			prev = '–'
			i += 2
			continue
		case r == '\'':
			if opensQuote(prev) {
				b.WriteRune('‘')
				prev = '‘'
			} else {
				b.WriteRune('’')
				prev = '’'
			}
			i += size
			continue
		case r == '"':
			if opensQuote(prev) {
				b.WriteRune('“')
				prev = '“'
			} else {
				b.WriteRune('”')
				prev = '”'
			}
			i += size
			continue
		}
		b.WriteRune(r)
		prev = r
		i += size
	}
	return b.String()
}

// opensQuote reports whether a quote following prev reads as an opening one.
// Start of text, whitespace and opening brackets all begin a quotation.
func opensQuote(prev rune) bool {
	return prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{‘“", prev)
}
