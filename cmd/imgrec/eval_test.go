package main

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/viant/imgrec/eval"
)

func TestEvalCmd(t *testing.T) {
	f := newFixture(t)
	queries := f.write(t, "queries.json", `{"queries": ["A", "C", "missing"]}`)
	truth := f.write(t, "truth.json", `{"ground_truth": {"A": ["B", "E"], "C": ["E", "B"]}}`)
	transitions := f.write(t, "transitions.json",
		`{"transitions": [{"uuid_1": "A", "uuid_2": "A", "word_dict": {"red": 1, "apple": 1}, "path_length": 1}]}`)

	out, err := execute(t, "eval", "--json", "--vectors", f.vectors, "--prompts", f.prompts,
		"--queries", queries, "--truth", truth, "--transitions", transitions)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var report eval.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.QueriesSucceeded != 2 {
		t.Errorf("expected 2 successful queries, got %d", report.QueriesSucceeded)
	}
	if report.TransitionsSucceeded != 1 || report.MeanQuality != 1 {
		t.Errorf("unexpected transition results %+v", report.Transitions)
	}
}

func TestEvalCmdRequiresInput(t *testing.T) {
	f := newFixture(t)
	_, err := execute(t, "eval", "--vectors", f.vectors)
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}
