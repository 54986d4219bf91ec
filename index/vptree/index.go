package vptree

import (
	"fmt"
	"math"
	"sort"

	"github.com/viant/imgrec/internal/topk"
	"github.com/viant/imgrec/internal/vecio"
	"github.com/viant/imgrec/vector"
)

// slack absorbs rounding in acos so pruning never drops a true neighbour
const slack = 1e-9

// Index implements a cosine kNN index using a VP-tree over angular distance
// (acos of cosine similarity), which is a metric, so pruning is exact.
// Zero-magnitude vectors have no angle; they are kept aside and score 0.
type Index struct {
	ids   []string
	vecs  [][]float32
	mags  []float64
	dim   int
	root  *node
	zeros []int
}

type node struct {
	idx   int // index into ids/vecs
	thr   float64
	left  *node
	right *node
}

// Build constructs the VP-tree and caches magnitudes.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("vptree: ids/vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.mags = make([]float64, len(vectors))
	i.root, i.zeros, i.dim = nil, nil, 0
	if len(vectors) == 0 {
		return nil
	}
	i.dim = len(vectors[0])
	idxs := make([]int, 0, len(vectors))
	for j := range vectors {
		if len(vectors[j]) != i.dim {
			return fmt.Errorf("vptree: %s: %w", ids[j], &vector.DimensionMismatchError{Expected: i.dim, Actual: len(vectors[j])})
		}
		i.mags[j] = vector.Norm(vectors[j])
		if i.mags[j] == 0 {
			i.zeros = append(i.zeros, j)
			continue
		}
		idxs = append(idxs, j)
	}
	i.root = i.buildVP(idxs)
	return nil
}

func (i *Index) angle(a []float32, am float64, j int) float64 {
	return math.Acos(vector.CosineWithNorms(a, i.vecs[j], am, i.mags[j]))
}

func (i *Index) buildVP(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// last element is the vantage point, keeping builds deterministic
	vp := idxs[len(idxs)-1]
	idxs = idxs[:len(idxs)-1]
	if len(idxs) == 0 {
		return &node{idx: vp}
	}
	dists := make([]float64, len(idxs))
	for k, j := range idxs {
		dists[k] = i.angle(i.vecs[vp], i.mags[vp], j)
	}
	order := make([]int, len(idxs))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return dists[order[a]] < dists[order[b]] })
	mid := len(order) / 2
	thr := dists[order[mid]]
	leftIdxs := make([]int, 0, mid+1)
	rightIdxs := make([]int, 0, len(order)-(mid+1))
	for rank, k := range order {
		if rank <= mid {
			leftIdxs = append(leftIdxs, idxs[k])
		} else {
			rightIdxs = append(rightIdxs, idxs[k])
		}
	}
	return &node{
		idx:   vp,
		thr:   thr,
		left:  i.buildVP(leftIdxs),
		right: i.buildVP(rightIdxs),
	}
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Entries returns the indexed ids and vectors in build order.
func (i *Index) Entries() ([]string, [][]float32) { return i.ids, i.vecs }

// Query returns up to k ids ordered by decreasing cosine similarity, ties by id.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("vptree: query: %w", &vector.DimensionMismatchError{Expected: i.dim, Actual: len(query)})
	}
	h := topk.New(k)
	qm := vector.Norm(query)
	if qm == 0 {
		for j := range i.ids {
			h.Push(topk.Item{Ord: j, ID: i.ids[j], Score: 0})
		}
		return unpack(h.Sorted())
	}
	for _, j := range i.zeros {
		h.Push(topk.Item{Ord: j, ID: i.ids[j], Score: 0})
	}
	// bound is the angle of the current k-th best, +Inf until the heap fills
	bound := func() float64 {
		if !h.Full() {
			return math.Inf(1)
		}
		w, _ := h.Worst()
		return math.Acos(w.Score)
	}
	var search func(n *node)
	search = func(n *node) {
		if n == nil {
			return
		}
		s := vector.CosineWithNorms(query, i.vecs[n.idx], qm, i.mags[n.idx])
		h.Push(topk.Item{Ord: n.idx, ID: i.ids[n.idx], Score: s})
		d := math.Acos(s)
		// prune using triangle inequality
		if d < n.thr {
			if d-bound() <= n.thr+slack {
				search(n.left)
			}
			if d+bound() >= n.thr-slack {
				search(n.right)
			}
		} else {
			if d+bound() >= n.thr-slack {
				search(n.right)
			}
			if d-bound() <= n.thr+slack {
				search(n.left)
			}
		}
	}
	search(i.root)
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

// UnmarshalBinary loads the vecio layout and rebuilds the VP-tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := vecio.Decode(data)
	if err != nil {
		return fmt.Errorf("vptree: %w", err)
	}
	return i.Build(ids, vecs)
}
