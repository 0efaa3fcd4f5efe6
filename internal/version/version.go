/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the application version used in CLI output,
// crash reports and the songbook index metadata.
package version

// Version is the application version. Release builds override it via
// -ldflags "-X songbook/internal/version.Version=...".
var Version = "0.4.0-dev"

// Name is the application name as shown to users.
const Name = "songbook"

// String returns the bare version, e.g. "0.4.0-dev".
func String() string {
	return Version
}

// Full returns name and version, e.g. "songbook 0.4.0-dev".
func Full() string {
	return Name + " " + Version
}
