/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSong(t *testing.T, dir, name, text string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestHashFileDigest(t *testing.T) {
	dir := t.TempDir()
	p := writeSong(t, dir, "one.md", "# One\n\n1. la `C` la\n")

	a, err := HashFile(p)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if len(a.Digest) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %q", a.Digest)
	}
	b, err := HashFile(p)
	if err != nil {
		t.Fatalf("HashFile again: %v", err)
	}
	if a.Digest != b.Digest || a.Size != b.Size {
		t.Fatalf("digest not stable: %+v vs %+v", a, b)
	}

	q := writeSong(t, dir, "two.md", "# Two\n\n1. di `D` da\n")
	c, err := HashFile(q)
	if err != nil {
		t.Fatalf("HashFile other: %v", err)
	}
	if c.Digest == a.Digest {
		t.Fatalf("different content produced same digest")
	}
}

func TestFilesUnchangedRoundTrip(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	songsDir := filepath.Join(root, "songs")
	if err := os.MkdirAll(songsDir, 0o755); err != nil {
		t.Fatalf("mk songs dir: %v", err)
	}
	one := writeSong(t, songsDir, "one.md", "# One\n\n1. la `C` la\n")
	two := writeSong(t, songsDir, "two.md", "# Two\n\n1. di `D` da\n")
	paths := []string{one, two}

	// Nothing recorded yet: everything counts as changed.
	unchanged, err := FilesUnchanged(ctx, root, paths)
	if err != nil {
		t.Fatalf("FilesUnchanged: %v", err)
	}
	if unchanged {
		t.Fatalf("expected changed before first record")
	}

	if err := RecordFiles(ctx, root, paths); err != nil {
		t.Fatalf("RecordFiles: %v", err)
	}
	if unchanged, err = FilesUnchanged(ctx, root, paths); err != nil || !unchanged {
		t.Fatalf("expected unchanged after record, got %v / %v", unchanged, err)
	}

	// Touching content invalidates the set.
	writeSong(t, songsDir, "one.md", "# One\n\n1. la `C` la la\n")
	if unchanged, err = FilesUnchanged(ctx, root, paths); err != nil || unchanged {
		t.Fatalf("expected changed after edit, got %v / %v", unchanged, err)
	}
	if err := RecordFiles(ctx, root, paths); err != nil {
		t.Fatalf("RecordFiles after edit: %v", err)
	}

	// Adding a source changes the set even though recorded files match.
	three := writeSong(t, songsDir, "three.md", "# Three\n\n1. do `E` re\n")
	if unchanged, err = FilesUnchanged(ctx, root, append(paths, three)); err != nil || unchanged {
		t.Fatalf("expected changed for grown set, got %v / %v", unchanged, err)
	}

	// A vanished file counts as changed, not as an error.
	if err := os.Remove(two); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if unchanged, err = FilesUnchanged(ctx, root, paths); err != nil || unchanged {
		t.Fatalf("expected changed for missing file, got %v / %v", unchanged, err)
	}
}
