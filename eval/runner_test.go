package eval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/imgrec/recommender"
)

type fakeSearcher struct {
	galleries   map[string][]string
	transitions map[string][]string
}

func (f *fakeSearcher) FindSimilarImages(_ context.Context, id string, k int) (recommender.Gallery, error) {
	images, ok := f.galleries[id]
	if !ok {
		return recommender.Gallery{}, recommender.ErrNotFound
	}
	if len(images) > k {
		images = images[:k]
	}
	return recommender.Gallery{Images: images, Scores: make([]float64, len(images))}, nil
}

func (f *fakeSearcher) FindTransitionPrompts(_ context.Context, id1, id2 string) ([]string, error) {
	prompts, ok := f.transitions[id1+">"+id2]
	if !ok {
		return nil, errors.New("no path")
	}
	return prompts, nil
}

func TestRunner_Run(t *testing.T) {
	searcher := &fakeSearcher{
		galleries: map[string][]string{
			"q1": {"a", "b"},
			"q2": {"x", "y"},
		},
		transitions: map[string][]string{
			"q1>q2": {"red fox", "blue fox"},
		},
	}
	truth := map[string][]string{
		"q1": {"a", "b", "c"},
		"q2": {"y", "z"},
	}
	cases := []Transition{
		{From: "q1", To: "q2", WordDict: map[string]int{"fox": 2, "red": 1}, PathLength: 3},
		{From: "q2", To: "q1", WordDict: map[string]int{"fox": 1}},
	}
	runner := &Runner{Searcher: searcher, K: 2, TruthK: 100, Parallelism: 2}

	report, err := runner.Run(context.Background(), []string{"q1", "q2", "missing"}, truth, cases)
	require.NoError(t, err)

	require.Len(t, report.Queries, 3)
	assert.Equal(t, "q1", report.Queries[0].ID)
	assert.Equal(t, 1.0, report.Queries[0].Precision)
	assert.Equal(t, 0.5, report.Queries[1].Precision)
	assert.NotEmpty(t, report.Queries[2].Error)
	assert.Equal(t, 2, report.QueriesSucceeded)
	assert.InDelta(t, 0.75, report.MeanPrecision, 1e-12)

	require.Len(t, report.Transitions, 2)
	assert.Equal(t, 1.0, report.Transitions[0].Quality)
	assert.Equal(t, 1, report.Transitions[0].PathLengthDiff)
	assert.NotEmpty(t, report.Transitions[1].Error)
	assert.Equal(t, 1, report.TransitionsSucceeded)
	assert.InDelta(t, 1.0, report.MeanQuality, 1e-12)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &Runner{Searcher: &fakeSearcher{}}
	_, err := runner.RunQueries(ctx, []string{"q1"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		filename := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
		return filename
	}

	queries, err := LoadQueries(write("queries.json", `{"queries": ["a", "b"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, queries)

	truth, err := LoadTruth(write("truth.json", `{"ground_truth": {"a": ["b", "c"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, truth["a"])

	transitions, err := LoadTransitions(write("transitions.json",
		`{"transitions": [{"uuid_1": "a", "uuid_2": "b", "word_dict": {"fox": 2}, "path_length": 4}]}`))
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, Transition{From: "a", To: "b", WordDict: map[string]int{"fox": 2}, PathLength: 4}, transitions[0])

	_, err = LoadQueries(write("broken.json", `{"queries": [`))
	assert.Error(t, err)
	_, err = LoadTruth(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
