/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package storage maintains the per-project songbook index.
// It manages the embedded SQLite database at <project>/.songbook/index.db
// used for full-text search over compiled songs, change detection of source
// files, and a compressed snapshot history of compiled books.
// The index is derived from the song sources and is rebuildable/disposable;
// corruption is handled by backing the file up and rebuilding from a fresh
// compile.
package storage
