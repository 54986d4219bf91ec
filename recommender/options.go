package recommender

import (
	"log/slog"
	"runtime"

	"github.com/viant/imgrec/index"
	"github.com/viant/imgrec/index/cover"
	"github.com/viant/imgrec/internal/logging"
	"github.com/viant/imgrec/vector"
)

// TransitionConfig bounds the transition search. Larger candidate sets and
// hop caps find smoother walks at higher cost; fewer hops return faster but
// may skip meaningful intermediates.
type TransitionConfig struct {
	// NeighborsPerEndpoint nearest neighbours seeded from each endpoint; a
	// quarter of it is also seeded from every waypoint.
	NeighborsPerEndpoint int
	// Waypoints is the number of points spaced evenly along the arc between
	// the endpoints whose neighbours seed intermediate candidates.
	Waypoints int
	// ExpansionNeighbors added per seed during the one-hop expansion.
	ExpansionNeighbors int
	// MaxCandidates is the hard cap on graph nodes, endpoints included.
	MaxCandidates int
	// EdgesPerNode keeps the graph sparse: each node links to its most
	// similar candidates only.
	EdgesPerNode int
	// MaxHops caps the number of edges on the returned path.
	MaxHops int
	// MinSimilarity drops weaker edges (the direct endpoint edge is kept).
	MinSimilarity float64
	// HopPenalty is added to every edge weight to favour shorter paths.
	HopPenalty float64
}

// DefaultTransitionConfig returns the tuned defaults.
func DefaultTransitionConfig() TransitionConfig {
	return TransitionConfig{
		NeighborsPerEndpoint: 20,
		Waypoints:            3,
		ExpansionNeighbors:   5,
		MaxCandidates:        64,
		EdgesPerNode:         8,
		MaxHops:              6,
	}
}

func (c TransitionConfig) normalized() TransitionConfig {
	d := DefaultTransitionConfig()
	if c.MaxCandidates < 2 {
		c.MaxCandidates = d.MaxCandidates
	}
	if c.MaxHops < 1 {
		c.MaxHops = d.MaxHops
	}
	if c.NeighborsPerEndpoint < 0 {
		c.NeighborsPerEndpoint = 0
	}
	if c.Waypoints < 0 {
		c.Waypoints = 0
	}
	if c.ExpansionNeighbors < 0 {
		c.ExpansionNeighbors = 0
	}
	if c.EdgesPerNode < 0 {
		c.EdgesPerNode = 0
	}
	if c.HopPenalty < 0 {
		c.HopPenalty = 0
	}
	return c
}

// Option customises a Recommender.
type Option func(*Recommender)

// WithKind selects the embedding kind used by FindSimilarImages and the
// transition graph. Defaults to vector.KindImage.
func WithKind(kind vector.Kind) Option {
	return func(r *Recommender) { r.kind = kind }
}

// WithIndex selects the index implementation; index.KindAuto picks by corpus
// size.
func WithIndex(kind index.Kind, opts ...cover.Option) Option {
	return func(r *Recommender) {
		r.indexKind = kind
		r.coverOpts = opts
	}
}

// WithPromptService injects the prompt collaborator.
func WithPromptService(svc PromptService) Option {
	return func(r *Recommender) { r.prompts = svc }
}

// WithIDMapper injects the identifier-mapping collaborator.
func WithIDMapper(m IDMapper) Option {
	return func(r *Recommender) { r.mapper = m }
}

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recommender) {
		if l != nil {
			r.logger = &logging.Logger{Logger: l}
		}
	}
}

// WithTransition overrides the transition search bounds.
func WithTransition(cfg TransitionConfig) Option {
	return func(r *Recommender) { r.transition = cfg.normalized() }
}

// WithParallelism bounds the goroutines used by Preprocess.
func WithParallelism(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.parallelism = n
		}
	}
}

func defaults(r *Recommender) {
	r.kind = vector.KindImage
	r.indexKind = index.KindAuto
	r.transition = DefaultTransitionConfig()
	r.logger = logging.NoopLogger()
	r.parallelism = runtime.GOMAXPROCS(0)
}
