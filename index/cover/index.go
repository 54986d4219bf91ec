package cover

import (
	"fmt"

	"github.com/viant/imgrec/internal/cover/tree"
	"github.com/viant/imgrec/internal/topk"
	"github.com/viant/imgrec/internal/vecio"
	"github.com/viant/imgrec/vector"
)

// Re-exported tree settings so callers need not import the internal package.
type (
	BoundStrategy    = tree.BoundStrategy
	DistanceFunction = tree.DistanceFunction
)

const (
	BoundPerNode              = tree.BoundPerNode
	BoundLevel                = tree.BoundLevel
	DistanceFunctionCosine    = tree.DistanceFunctionCosine
	DistanceFunctionEuclidean = tree.DistanceFunctionEuclidean
)

// overfetch widens the tree search so float32 near-ties at the k-th place
// are re-ranked with exact float64 cosine.
const overfetch = 8

// Index is a cosine kNN index over a cover tree. Vectors are normalised to
// unit length at build time; on the unit sphere Euclidean order equals
// cosine order, so the default Euclidean metric keeps pruning exact.
type Index struct {
	opts  options
	ids   []string
	vecs  [][]float32
	mags  []float64
	dim   int
	tree  *tree.Tree[int]
	zeros []int
}

// New creates an empty cover index.
func New(opts ...Option) *Index {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Index{opts: o}
}

// Build normalises and inserts every vector, then seals the tree.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("cover: ids/vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if i.opts.base == 0 {
		i.opts = defaultOptions()
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.mags = make([]float64, len(vectors))
	i.zeros, i.dim = nil, 0
	i.tree = tree.NewTree[int](i.opts.base, i.opts.distance)
	i.tree.SetBoundStrategy(i.opts.bound)
	if len(vectors) == 0 {
		return nil
	}
	i.dim = len(vectors[0])
	for j, v := range vectors {
		if len(v) != i.dim {
			return fmt.Errorf("cover: %s: %w", ids[j], &vector.DimensionMismatchError{Expected: i.dim, Actual: len(v)})
		}
		i.mags[j] = vector.Norm(v)
		unit, ok := vector.Normalize(v)
		if !ok {
			i.zeros = append(i.zeros, j)
			continue
		}
		p := tree.NewPoint(unit...)
		p.Magnitude = 1
		i.tree.Insert(j, p)
	}
	i.tree.Seal()
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Entries returns the indexed ids and vectors in build order.
func (i *Index) Entries() ([]string, [][]float32) { return i.ids, i.vecs }

// Exact reports whether tree pruning never drops a true neighbour: the
// distance must be a metric and radii tracked per node.
func (i *Index) Exact() bool {
	return i.opts.distance.Metric() && i.opts.bound == BoundPerNode
}

// Query returns up to k ids ordered by decreasing cosine similarity, ties by id.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("cover: query: %w", &vector.DimensionMismatchError{Expected: i.dim, Actual: len(query)})
	}
	h := topk.New(k)
	qm := vector.Norm(query)
	score := func(j int) {
		h.Push(topk.Item{Ord: j, ID: i.ids[j], Score: vector.CosineWithNorms(query, i.vecs[j], qm, i.mags[j])})
	}
	unit, ok := vector.Normalize(query)
	if !ok || k <= 0 || k+overfetch >= len(i.vecs) {
		for j := range i.vecs {
			score(j)
		}
		return unpack(h.Sorted())
	}
	for _, j := range i.zeros {
		score(j)
	}
	p := tree.NewPoint(unit...)
	p.Magnitude = 1
	for _, nb := range i.tree.KNearestNeighbors(p, k+overfetch) {
		score(i.tree.Value(nb.Point))
	}
	return unpack(h.Sorted())
}

func unpack(ranked []topk.Item) ([]string, []float64, error) {
	ids := make([]string, len(ranked))
	scores := make([]float64, len(ranked))
	for n, it := range ranked {
		ids[n] = it.ID
		scores[n] = it.Score
	}
	return ids, scores, nil
}

// MarshalBinary stores the raw vectors; the tree is rebuilt on load.
func (i *Index) MarshalBinary() ([]byte, error) {
	return vecio.Encode(i.ids, i.vecs, i.dim), nil
}

// UnmarshalBinary loads the vecio layout and rebuilds the cover tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := vecio.Decode(data)
	if err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	return i.Build(ids, vecs)
}
