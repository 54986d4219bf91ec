package bruteforce

import (
	"fmt"
	"math"

	"github.com/viant/imgrec/internal/topk"
	"github.com/viant/imgrec/internal/vecio"
	"github.com/viant/imgrec/vector"
)

// Index is a simple brute-force vector index implementing cosine similarity.
type Index struct {
	ids  []string
	vecs [][]float32
	dim  int
	mags []float64
}

// Build loads ids and vectors and precomputes magnitudes.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("bruteforce: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if len(ids) == 0 {
		i.ids, i.vecs, i.mags, i.dim = nil, nil, nil, 0
		return nil
	}
	dim := len(vectors[0])
	for j := range vectors {
		if len(vectors[j]) != dim {
			return fmt.Errorf("bruteforce: %s: %w", ids[j], &vector.DimensionMismatchError{Expected: dim, Actual: len(vectors[j])})
		}
	}
	mags := make([]float64, len(vectors))
	for j := range vectors {
		mags[j] = vector.Norm(vectors[j])
	}
	i.ids = append([]string(nil), ids...)
	i.vecs = append([][]float32(nil), vectors...)
	i.dim = dim
	i.mags = mags
	return nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int { return len(i.ids) }

// Entries returns the indexed ids and vectors in build order.
func (i *Index) Entries() ([]string, [][]float32) { return i.ids, i.vecs }

// Query returns top-k by cosine similarity, ties broken by id.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("bruteforce: query: %w", &vector.DimensionMismatchError{Expected: i.dim, Actual: len(query)})
	}
	qm := vector.Norm(query)
	h := topk.New(k)
	for j := range i.vecs {
		s := vector.CosineWithNorms(query, i.vecs[j], qm, i.mags[j])
		if math.IsNaN(s) {
			continue
		}
		h.Push(topk.Item{Ord: j, ID: i.ids[j], Score: s})
	}
	ranked := h.Sorted()
	outIDs := make([]string, len(ranked))
	outScores := make([]float64, len(ranked))
	for n, it := range ranked {
		outIDs[n] = it.ID
		outScores[n] = it.Score
	}
	return outIDs, outScores, nil
}

// MarshalBinary stores the vectors in the vecio layout.
func (i *Index) MarshalBinary() ([]byte, error) {
	return vecio.Encode(i.ids, i.vecs, i.dim), nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	ids, vecs, err := vecio.Decode(data)
	if err != nil {
		return fmt.Errorf("bruteforce: %w", err)
	}
	return i.Build(ids, vecs)
}
