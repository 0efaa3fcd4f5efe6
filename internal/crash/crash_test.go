/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReportCreatesFileUnderCacheDir(t *testing.T) {
	root := t.TempDir()
	oldCache := cacheDir
	cacheDir = func() (string, error) { return root, nil }
	defer func() { cacheDir = oldCache }()

	path, err := writeReport("boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	want := filepath.Join(root, "songbook", "crash")
	if !strings.HasPrefix(path, want) {
		t.Fatalf("expected report under %s, got %s", want, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "songbook crash report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
	if !strings.Contains(s, "AST: ") {
		t.Fatalf("tree version missing: %s", s)
	}
}

func TestWriteReportFallsBackToTemp(t *testing.T) {
	oldCache := cacheDir
	cacheDir = func() (string, error) { return "", errors.New("no cache dir") }
	defer func() { cacheDir = oldCache }()

	path, err := writeReport("kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	defer func() { _ = os.Remove(path) }()
	if !strings.HasPrefix(path, os.TempDir()) {
		t.Fatalf("expected report under temp dir, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}
