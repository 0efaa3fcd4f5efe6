/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package book

// AstChange records one revision of the serialized tree format.
type AstChange struct {
	Version string
	Summary string
}

// AstVersionLog lists every revision of the tree format, oldest first.
// Append a new entry whenever the serialized shape of any node changes;
// never edit or reorder existing entries.
var AstVersionLog = []AstChange{
	{Version: "1.0.0", Summary: "Initial version."},
	{Version: "1.1.0", Summary: "HTML passthrough blocks and the baseline flag on chords."},
	{Version: "1.2.0", Summary: "Width and height fields on images."},
}

// CurrentAstVersion reports the format version written by this build.
func CurrentAstVersion() string {
	return AstVersionLog[len(AstVersionLog)-1].Version
}
