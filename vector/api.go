package vector

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned by stores for unknown identifiers.
var ErrRecordNotFound = errors.New("vector: record not found")

// Match is a single similarity search hit.
type Match struct {
	ID     string
	Prompt string
	Score  float64
}

// Store is a durable image catalog: embeddings per kind plus the prompt each
// image was generated from.
type Store interface {
	// Put upserts records. Embeddings of kinds absent from a record are left
	// untouched.
	Put(ctx context.Context, records []Record) error

	// Records loads every record ordered by id.
	Records(ctx context.Context) ([]Record, error)

	// SimilaritySearch ranks stored embeddings of kind against query by
	// cosine similarity, highest first, ties by id, and returns up to k hits.
	SimilaritySearch(ctx context.Context, kind Kind, query []float32, k int) ([]Match, error)

	// Remove deletes the record and all its embeddings.
	Remove(ctx context.Context, id string) error
}
