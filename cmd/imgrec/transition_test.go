package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/viant/imgrec/recommender"
)

func TestTransitionCmd(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "transition", "A", "C", "--path", "--vectors", f.vectors, "--prompts", f.prompts)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected path and at least two prompts, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "path: A -> ") || !strings.HasSuffix(lines[0], " -> C") {
		t.Errorf("unexpected path line %q", lines[0])
	}
	if lines[1] != "a red apple" || lines[len(lines)-1] != "a green field" {
		t.Errorf("unexpected prompts %q", lines[1:])
	}
}

func TestTransitionCmdJSON(t *testing.T) {
	f := newFixture(t)
	out, err := execute(t, "transition", "B", "B", "--json", "--vectors", f.vectors, "--prompts", f.prompts)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var path recommender.TransitionPath
	if err := json.Unmarshal([]byte(out), &path); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(path.Prompts) != 1 || path.Prompts[0] != "a red apple on a table" {
		t.Errorf("unexpected prompts %v", path.Prompts)
	}
}

func TestTransitionCmdWithoutPrompts(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, "transition", "A", "C", "--vectors", f.vectors)
	if err == nil || !strings.Contains(err.Error(), "no prompt service") {
		t.Fatalf("expected prompt service error, got %v", err)
	}
}
