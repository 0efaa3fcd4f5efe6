/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render pins the interface between the compiler and document
// renderers.
//
// Turning a songbook into PDF, HTML or anything else is a separate concern
// with its own toolchain; this repository produces the tree and stops. What
// a renderer builds against:
//
//   - Dispatch is by node tag. Every Block reports one of the b-* tags via
//     BlockTag, every Inline one of the i-* tags via InlineTag. The tag set
//     for a given AST version is closed; book.AstVersionLog records when it
//     changed.
//   - A renderer handles every tag of the version it targets. An unknown
//     tag means the tree is newer than the renderer: fail, do not skip.
//   - The tree is immutable. Renderers never modify it and may share it
//     across goroutines.
//   - Chord nodes arrive presentation-ready: transposition and notation
//     conversion already happened, Style selects between the one- and
//     two-mark looks, and AltChord is set only when a second row was
//     requested.
//   - Tag nodes (i-tag) are opaque to the compiler; their names and
//     attributes mean whatever the renderer decides they mean.
package render

import (
	"context"

	"songbook/internal/book"
)

// Options carries the render-time settings a renderer receives next to the
// tree. The tree itself never records where it will be written.
type Options struct {
	// Output is the destination path. Renderers that produce multiple
	// files treat it as a base name.
	Output string
	// BaseDir anchors relative asset paths: Image nodes and the book's
	// front image resolve against it.
	BaseDir string
}

// Renderer turns a compiled book into one output document.
type Renderer interface {
	Render(ctx context.Context, b *book.Book, opts Options) error
}
