package index

// Index defines a generic vector index with basic lifecycle methods.
// It enables building from (id, embedding) pairs, kNN queries, and
// binary serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length and every vector the same
	// dimension; ids are expected to be unique.
	Build(ids []string, vectors [][]float32) error

	// Query runs a kNN search with the provided query vector and returns up
	// to k matches (all of them when k <= 0) as parallel slices of ids and
	// cosine scores, ordered by score descending and then id ascending.
	// Zero-magnitude vectors score 0 against everything.
	Query(query []float32, k int) (ids []string, scores []float64, err error)

	// Len returns the number of indexed vectors.
	Len() int

	// Entries returns the indexed ids and vectors in build order. The
	// slices are shared with the index and must not be modified.
	Entries() (ids []string, vectors [][]float32)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}
