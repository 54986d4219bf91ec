package cover

type options struct {
	base     float32
	bound    BoundStrategy
	distance DistanceFunction
}

func defaultOptions() options {
	return options{base: 1.3, bound: BoundPerNode, distance: DistanceFunctionEuclidean}
}

// Option customises a cover index.
type Option func(*options)

// WithBase sets the cover tree base (must be > 1).
func WithBase(base float32) Option {
	return func(o *options) {
		if base > 1 {
			o.base = base
		}
	}
}

// WithBoundStrategy selects the pruning radius; BoundLevel trades recall for
// fewer distance evaluations.
func WithBoundStrategy(s BoundStrategy) Option {
	return func(o *options) { o.bound = s }
}

// WithDistance selects the tree metric. DistanceFunctionCosine is not a
// metric, so results become approximate.
func WithDistance(d DistanceFunction) Option {
	return func(o *options) {
		if d.Function() != nil {
			o.distance = d
		}
	}
}
