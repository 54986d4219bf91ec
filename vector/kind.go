package vector

// Kind names an embedding family stored per image, e.g. the CLIP image or
// text embedding.
type Kind string

const (
	// KindImage is the CLIP image embedding.
	KindImage Kind = "image_embedding"
	// KindText is the CLIP embedding of the image prompt.
	KindText Kind = "text_embedding"
)

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Record is an image with its embeddings and optional caption. Records are
// treated as immutable once handed to an index.
type Record struct {
	ID         string
	Prompt     string
	Meta       string
	Embeddings map[Kind][]float32
}

// Embedding returns the vector of the given kind, or nil.
func (r *Record) Embedding(kind Kind) []float32 {
	if r == nil || r.Embeddings == nil {
		return nil
	}
	return r.Embeddings[kind]
}
