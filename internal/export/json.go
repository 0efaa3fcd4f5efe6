/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export serializes compiled books. JSON is the interchange format
// (schema under docs/book.schema.json); XML serves toolchains that would
// rather run XPath. Both writers receive an io.Writer and never touch the
// filesystem themselves.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"songbook/internal/book"
)

// MarshalBook returns the canonical JSON encoding of a book: an astVersion
// field ahead of the book fields, two-space indentation, trailing newline.
// Snapshots in the songbook index store exactly these bytes.
func MarshalBook(b *book.Book) ([]byte, error) {
	doc := struct {
		AstVersion string `json:"astVersion"`
		*book.Book
	}{book.CurrentAstVersion(), b}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal book: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON writes the canonical JSON encoding of the book to w.
func WriteJSON(w io.Writer, b *book.Book) error {
	data, err := MarshalBook(b)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write book json: %w", err)
	}
	return nil
}
