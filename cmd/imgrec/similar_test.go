package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/viant/imgrec/recommender"
)

func TestSimilarCmd(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "similar", "A", "-k", "2", "--vectors", f.vectors)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if !strings.HasSuffix(lines[0], "  B") || !strings.HasSuffix(lines[1], "  E") {
		t.Errorf("unexpected ranking %q", out)
	}
}

func TestSimilarCmdJSON(t *testing.T) {
	f := newFixture(t)
	for _, indexKind := range []string{"brute", "vptree", "cover"} {
		out, err := execute(t, "similar", "A", "-k", "4", "--json", "--index", indexKind, "--vectors", f.vectors)
		if err != nil {
			t.Fatalf("%s: execute: %v", indexKind, err)
		}
		var gallery recommender.Gallery
		if err := json.Unmarshal([]byte(out), &gallery); err != nil {
			t.Fatalf("%s: decode: %v", indexKind, err)
		}
		want := []string{"B", "E", "C", "D"}
		if strings.Join(gallery.Images, ",") != strings.Join(want, ",") {
			t.Errorf("%s: expected %v, got %v", indexKind, want, gallery.Images)
		}
	}
}

func TestSimilarCmdIDMap(t *testing.T) {
	f := newFixture(t)
	ids := f.write(t, "ids.json", `{"img/apple.png": "A"}`)
	out, err := execute(t, "similar", "apple.png", "-k", "1", "--vectors", f.vectors, "--ids", ids)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "B") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSimilarCmdNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, "similar", "Z", "--vectors", f.vectors)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
