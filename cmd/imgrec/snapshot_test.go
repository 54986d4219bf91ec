package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t)
	snap := filepath.Join(f.dir, "index.snap")

	out, err := execute(t, "snapshot", "-o", snap, "--index", "vptree", "--vectors", f.vectors)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, "wrote vptree index of 5 vectors") {
		t.Errorf("unexpected output %q", out)
	}
	if info, err := os.Stat(snap); err != nil || info.Size() == 0 {
		t.Fatalf("snapshot not written: %v", err)
	}

	out, err = execute(t, "similar", "A", "-k", "2", "--snapshot", snap, "--vectors", f.vectors)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "B") || !strings.HasSuffix(lines[1], "E") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSnapshotMissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, "similar", "A", "--snapshot", filepath.Join(f.dir, "missing.snap"), "--vectors", f.vectors)
	if err == nil {
		t.Fatal("expected error for missing snapshot")
	}
}

func TestSnapshotFromOtherCorpusIsRebuilt(t *testing.T) {
	f := newFixture(t)
	other := f.write(t, "other.json", `{"v": {"image_embedding": [1, 0]}, "w": {"image_embedding": [0, 1]},
		"x": {"image_embedding": [1, 1]}, "y": {"image_embedding": [-1, 0]}, "z": {"image_embedding": [0, -1]}}`)
	snap := filepath.Join(f.dir, "other.snap")
	if _, err := execute(t, "snapshot", "-o", snap, "--index", "brute", "--vectors", other); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	out, err := execute(t, "similar", "A", "-k", "2", "--snapshot", snap, "--vectors", f.vectors)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "  B") || !strings.HasSuffix(lines[1], "  E") {
		t.Errorf("unexpected output %q", out)
	}
}
