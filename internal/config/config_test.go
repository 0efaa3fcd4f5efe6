/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv neutralizes every SBK_* override for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile, EnvNotation, EnvOutputDir} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def := Defaults()
	if cfg.Book.ChorusLabel != def.Book.ChorusLabel || cfg.Book.Notation != "english" || !cfg.Book.SmartPunctuation {
		t.Fatalf("book defaults wrong: %#v", cfg.Book)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Format != "json" {
		t.Fatalf("output defaults wrong: %#v", cfg.Output)
	}
	if cfg.Index.KeepRuns != 10 {
		t.Fatalf("index defaults wrong: %#v", cfg.Index)
	}
	if len(cfg.Songs) != 1 || cfg.Songs[0] != "songs/*.md" {
		t.Fatalf("songs default wrong: %#v", cfg.Songs)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	data := `book:
  title: Campfire Collection
  smart_punctuation: false
songs:
  - tunes/*.md
  - extra/anthem.md
output:
  format: both
`
	if err := os.WriteFile(Path(root), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Book.Title != "Campfire Collection" {
		t.Fatalf("title not merged: %q", cfg.Book.Title)
	}
	// An explicit false must win over the true default.
	if cfg.Book.SmartPunctuation {
		t.Fatalf("smart_punctuation=false from file was lost")
	}
	// Untouched fields keep their defaults.
	if cfg.Book.ChorusLabel != "Ch" || cfg.Book.Notation != "english" {
		t.Fatalf("defaults clobbered: %#v", cfg.Book)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Format != "both" {
		t.Fatalf("output merge wrong: %#v", cfg.Output)
	}
	if len(cfg.Songs) != 2 || cfg.Songs[0] != "tunes/*.md" {
		t.Fatalf("songs list not replaced: %#v", cfg.Songs)
	}
}

func TestLoadBadYAMLErrors(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	if err := os.WriteFile(Path(root), []byte("book: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	data := "book:\n  notation: german\noutput:\n  dir: dist\n"
	if err := os.WriteFile(Path(root), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvNotation, "Nashville")
	t.Setenv(EnvOutputDir, "build")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogSource, "1")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Book.Notation != "nashville" {
		t.Fatalf("notation override missing: %q", cfg.Book.Notation)
	}
	if cfg.Output.Dir != "build" {
		t.Fatalf("output dir override missing: %#v", cfg.Output)
	}
	if cfg.General.LogLevel != "error" || !cfg.General.LogSource {
		t.Fatalf("log overrides missing: %#v", cfg.General)
	}
}

func TestNormalizeRepairsEmptyValues(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	data := "book:\n  notation: ENGLISH\nindex:\n  keep_runs: 0\nsongs: []\n"
	if err := os.WriteFile(Path(root), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Book.Notation != "english" {
		t.Fatalf("notation not lowercased: %q", cfg.Book.Notation)
	}
	if cfg.Index.KeepRuns != 10 {
		t.Fatalf("keep_runs not repaired: %d", cfg.Index.KeepRuns)
	}
	if len(cfg.Songs) != 1 || cfg.Songs[0] != "songs/*.md" {
		t.Fatalf("empty songs list not repaired: %#v", cfg.Songs)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	cfg := Defaults()
	cfg.Book.Title = "Round Trip"
	cfg.Book.Notation = "german"
	cfg.Output.Format = "both"
	if err := Save(cfg, root); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "# songbook project configuration\n") {
		t.Fatalf("missing header comment: %q", string(raw[:40]))
	}
	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Book.Title != "Round Trip" || got.Book.Notation != "german" || got.Output.Format != "both" {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}
