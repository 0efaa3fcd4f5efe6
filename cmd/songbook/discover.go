/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// globLike reports whether a pattern carries glob metacharacters. Plain
// filenames get a direct existence check instead of glob matching, so a
// typo in songbook.yaml fails loudly rather than silently matching nothing.
func globLike(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// discoverSongs expands song patterns into concrete paths, relative to the
// working directory. Matches sort lexically within each pattern but the
// patterns keep their configured order, so a book can be sequenced glob by
// glob. A path matched by several patterns is kept each time: listing a
// song twice puts it in the book twice.
func discoverSongs(patterns []string) ([]string, error) {
	var paths []string
	for _, pat := range patterns {
		if !globLike(pat) {
			if _, err := os.Stat(pat); err != nil {
				return nil, fmt.Errorf("song file %q: %w", pat, err)
			}
			paths = append(paths, filepath.ToSlash(pat))
			continue
		}
		matches, err := filepath.Glob(pat)
		if err != nil {
			return nil, fmt.Errorf("song pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern %q", pat)
		}
		for i, m := range matches {
			matches[i] = filepath.ToSlash(m)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// dedupPaths drops repeated paths keeping first-seen order. The index
// stores one row per file, so a song listed twice in the book is hashed
// and recorded once.
func dedupPaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
