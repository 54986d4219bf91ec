package eval

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viant/imgrec/internal/logging"
	"github.com/viant/imgrec/recommender"
)

// Searcher is the query surface under evaluation.
type Searcher interface {
	FindSimilarImages(ctx context.Context, id string, k int) (recommender.Gallery, error)
	FindTransitionPrompts(ctx context.Context, id1, id2 string) ([]string, error)
}

// QueryResult is the outcome of one similar-images query.
type QueryResult struct {
	ID        string        `json:"id"`
	Images    []string      `json:"images,omitempty"`
	Precision float64       `json:"precision"`
	HasTruth  bool          `json:"hasTruth"`
	Took      time.Duration `json:"took"`
	Error     string        `json:"error,omitempty"`
}

// TransitionResult is the outcome of one transition case.
type TransitionResult struct {
	From           string        `json:"from"`
	To             string        `json:"to"`
	Prompts        []string      `json:"prompts,omitempty"`
	Quality        float64       `json:"quality"`
	PathLengthDiff int           `json:"pathLengthDiff"`
	Took           time.Duration `json:"took"`
	Error          string        `json:"error,omitempty"`
}

// Report aggregates a run.
type Report struct {
	Queries              []QueryResult      `json:"queries"`
	QueriesSucceeded     int                `json:"queriesSucceeded"`
	MeanPrecision        float64            `json:"meanPrecision"`
	QueryTime            time.Duration      `json:"queryTime"`
	Transitions          []TransitionResult `json:"transitions,omitempty"`
	TransitionsSucceeded int                `json:"transitionsSucceeded"`
	MeanQuality          float64            `json:"meanQuality"`
	MeanPathLengthDiff   float64            `json:"meanPathLengthDiff"`
	TransitionTime       time.Duration      `json:"transitionTime"`
}

// Runner drives a Searcher over query and transition cases. A failing case
// is recorded in its result and never aborts the batch.
type Runner struct {
	Searcher    Searcher
	K           int
	TruthK      int
	Parallelism int
	Logger      *logging.Logger
}

func (r *Runner) logger() *logging.Logger {
	if r.Logger == nil {
		return logging.NoopLogger()
	}
	return r.Logger
}

// RunQueries evaluates ids concurrently, at most Parallelism at a time.
// Results keep the order of ids.
func (r *Runner) RunQueries(ctx context.Context, ids []string, truth map[string][]string) ([]QueryResult, error) {
	k := r.K
	if k <= 0 {
		k = 10
	}
	results := make([]QueryResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	if r.Parallelism > 0 {
		g.SetLimit(r.Parallelism)
	}
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			res := QueryResult{ID: id}
			gallery, err := r.Searcher.FindSimilarImages(gctx, id, k)
			res.Took = time.Since(started)
			if err != nil {
				res.Error = err.Error()
				r.logger().WarnContext(gctx, "query failed", "id", id, "error", err)
			} else {
				res.Images = gallery.Images
				if expected, ok := truth[id]; ok {
					res.HasTruth = true
					res.Precision = PrecisionAtK(gallery.Images, expected, k, r.TruthK)
				}
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunTransitions evaluates transition cases sequentially.
func (r *Runner) RunTransitions(ctx context.Context, cases []Transition) ([]TransitionResult, error) {
	results := make([]TransitionResult, 0, len(cases))
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started := time.Now()
		res := TransitionResult{From: tc.From, To: tc.To}
		prompts, err := r.Searcher.FindTransitionPrompts(ctx, tc.From, tc.To)
		res.Took = time.Since(started)
		if err != nil {
			res.Error = err.Error()
			r.logger().WarnContext(ctx, "transition failed", "from", tc.From, "to", tc.To, "error", err)
		} else {
			res.Prompts = prompts
			res.Quality = TransitionQuality(prompts, tc.WordDict)
			res.PathLengthDiff = abs(len(prompts) - tc.PathLength)
		}
		results = append(results, res)
	}
	return results, nil
}

// Run evaluates both query and transition cases and aggregates the results.
func (r *Runner) Run(ctx context.Context, ids []string, truth map[string][]string, cases []Transition) (*Report, error) {
	report := &Report{}
	started := time.Now()
	queries, err := r.RunQueries(ctx, ids, truth)
	if err != nil {
		return nil, err
	}
	report.QueryTime = time.Since(started)
	report.Queries = queries
	scored := 0
	for _, q := range queries {
		if q.Error != "" {
			continue
		}
		report.QueriesSucceeded++
		if q.HasTruth {
			scored++
			report.MeanPrecision += q.Precision
		}
	}
	if scored > 0 {
		report.MeanPrecision /= float64(scored)
	}

	started = time.Now()
	transitions, err := r.RunTransitions(ctx, cases)
	if err != nil {
		return nil, err
	}
	report.TransitionTime = time.Since(started)
	report.Transitions = transitions
	for _, tr := range transitions {
		if tr.Error != "" {
			continue
		}
		report.TransitionsSucceeded++
		report.MeanQuality += tr.Quality
		report.MeanPathLengthDiff += float64(tr.PathLengthDiff)
	}
	if n := report.TransitionsSucceeded; n > 0 {
		report.MeanQuality /= float64(n)
		report.MeanPathLengthDiff /= float64(n)
	}
	return report, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
