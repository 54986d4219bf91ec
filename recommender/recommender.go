package recommender

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/viant/imgrec/index"
	"github.com/viant/imgrec/index/cover"
	"github.com/viant/imgrec/internal/logging"
	"github.com/viant/imgrec/vector"
)

// normChunk is the number of vectors one goroutine normalises at a time.
const normChunk = 512

// Gallery is a ranked list of similar images.
type Gallery struct {
	Images []string  `json:"images"`
	Scores []float64 `json:"scores"`
}

// Len returns the number of images.
func (g Gallery) Len() int { return len(g.Images) }

// Recommender indexes image embeddings and answers similarity and transition
// queries.
type Recommender struct {
	kind        vector.Kind
	indexKind   index.Kind
	coverOpts   []cover.Option
	transition  TransitionConfig
	prompts     PromptService
	mapper      IDMapper
	logger      *logging.Logger
	parallelism int
	prebuilt    map[vector.Kind]prebuiltIndex

	records []vector.Record

	mu       sync.Mutex
	prepErr  error
	prepared atomic.Pointer[state]
}

type prebuiltIndex struct {
	kind index.Kind
	idx  index.Index
}

type state struct {
	spaces map[vector.Kind]*space
}

// space holds the vectors of one embedding kind in ordinal (sorted id) order.
type space struct {
	kind      vector.Kind
	indexKind index.Kind
	ids       []string
	vecs      [][]float32
	norms     []float64
	ord       map[string]int
	idx       index.Index
}

func (s *space) dim() int {
	if len(s.vecs) == 0 {
		return 0
	}
	return len(s.vecs[0])
}

func configure(opts []Option) *Recommender {
	r := &Recommender{}
	defaults(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// New builds an unprepared Recommender from materialised records, for example
// those returned by vector.SQLiteStore.Records.
func New(records []vector.Record, opts ...Option) (*Recommender, error) {
	r := configure(opts)
	if err := r.setRecords(records); err != nil {
		return nil, err
	}
	return r, nil
}

// WithIndexFor installs a prebuilt index of indexKind (for example one
// restored with index.Load) for embedding kind. Preprocess uses it only when
// it holds exactly the ids and vectors of that kind; otherwise a fresh index
// is built and a warning logged.
func WithIndexFor(kind vector.Kind, indexKind index.Kind, idx index.Index) Option {
	return func(r *Recommender) {
		if r.prebuilt == nil {
			r.prebuilt = map[vector.Kind]prebuiltIndex{}
		}
		r.prebuilt[kind] = prebuiltIndex{kind: indexKind, idx: idx}
	}
}

func (r *Recommender) setRecords(records []vector.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: no records", ErrLoad)
	}
	sorted := make([]vector.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	dims := map[vector.Kind]int{}
	for i, rec := range sorted {
		if i > 0 && sorted[i-1].ID == rec.ID {
			return fmt.Errorf("%w: duplicate id %q", ErrLoad, rec.ID)
		}
		for kind, vec := range rec.Embeddings {
			want, ok := dims[kind]
			if !ok {
				dims[kind] = len(vec)
				continue
			}
			if want != len(vec) {
				return fmt.Errorf("%w: record %q %s: %w", ErrLoad, rec.ID, kind,
					&vector.DimensionMismatchError{Expected: want, Actual: len(vec)})
			}
		}
	}
	r.records = sorted
	return nil
}

// Len returns the number of loaded records.
func (r *Recommender) Len() int { return len(r.records) }

// IDs returns the loaded identifiers in lexical order.
func (r *Recommender) IDs() []string {
	ids := make([]string, len(r.records))
	for i := range r.records {
		ids[i] = r.records[i].ID
	}
	return ids
}

// Kinds returns the embedding kinds present in the corpus, sorted.
func (r *Recommender) Kinds() []vector.Kind {
	seen := map[vector.Kind]bool{}
	var kinds []vector.Kind
	for i := range r.records {
		for kind := range r.records[i].Embeddings {
			if !seen[kind] {
				seen[kind] = true
				kinds = append(kinds, kind)
			}
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Kind returns the kind used by FindSimilarImages and transitions.
func (r *Recommender) Kind() vector.Kind { return r.kind }

// Preprocess fixes ordinals, caches norms and builds one index per embedding
// kind. It is idempotent: later calls return the first call's result.
func (r *Recommender) Preprocess(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prepared.Load() != nil || r.prepErr != nil {
		return r.prepErr
	}
	kinds := r.Kinds()
	spaces := make(map[vector.Kind]*space, len(kinds))
	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			return err
		}
		sp, err := r.buildSpace(ctx, kind)
		if err != nil {
			if ctx.Err() == nil {
				r.prepErr = err
			}
			return err
		}
		spaces[kind] = sp
	}
	r.prepared.Store(&state{spaces: spaces})
	return nil
}

func (r *Recommender) buildSpace(ctx context.Context, kind vector.Kind) (*space, error) {
	started := time.Now()
	sp := &space{kind: kind, ord: map[string]int{}}
	for i := range r.records {
		vec := r.records[i].Embedding(kind)
		if vec == nil {
			continue
		}
		sp.ord[r.records[i].ID] = len(sp.ids)
		sp.ids = append(sp.ids, r.records[i].ID)
		sp.vecs = append(sp.vecs, vec)
	}
	sp.norms = make([]float64, len(sp.vecs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for lo := 0; lo < len(sp.vecs); lo += normChunk {
		lo, hi := lo, min(lo+normChunk, len(sp.vecs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				sp.norms[i] = vector.Norm(sp.vecs[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pre, ok := r.prebuilt[kind]
	if ok && pre.idx != nil {
		if reason := sp.mismatch(pre.idx); reason != "" {
			r.logger.LogStaleIndex(ctx, kind.String(), reason)
			ok = false
		}
	}
	if ok && pre.idx != nil {
		sp.idx = pre.idx
		sp.indexKind = pre.kind
	} else {
		sp.indexKind = index.Resolve(r.indexKind, len(sp.ids), sp.dim())
		idx, err := index.New(sp.indexKind, r.coverOpts...)
		if err != nil {
			return nil, err
		}
		if err := idx.Build(sp.ids, sp.vecs); err != nil {
			return nil, fmt.Errorf("recommender: build %s index for %s: %w", sp.indexKind, kind, err)
		}
		sp.idx = idx
	}
	if ex, ok := sp.idx.(interface{ Exact() bool }); ok && !ex.Exact() {
		r.logger.LogApproximateIndex(ctx, kind.String(), string(sp.indexKind))
	}
	r.logger.LogPreprocess(ctx, kind.String(), string(sp.indexKind), len(sp.ids), sp.dim(), time.Since(started))
	return sp, nil
}

// mismatch reports why idx does not cover exactly the vectors of sp, or ""
// when it does.
func (sp *space) mismatch(idx index.Index) string {
	ids, vecs := idx.Entries()
	if len(ids) != len(sp.ids) || len(vecs) != len(sp.vecs) {
		return fmt.Sprintf("size %d, corpus has %d", len(ids), len(sp.ids))
	}
	for j, id := range ids {
		ord, ok := sp.ord[id]
		if !ok {
			return fmt.Sprintf("unknown id %q", id)
		}
		if !slices.Equal(vecs[j], sp.vecs[ord]) {
			return fmt.Sprintf("vector of %q differs", id)
		}
	}
	return ""
}

// Index returns the index built for kind along with its resolved kind.
func (r *Recommender) Index(kind vector.Kind) (index.Index, index.Kind, error) {
	sp, err := r.space(kind)
	if err != nil {
		return nil, "", err
	}
	return sp.idx, sp.indexKind, nil
}

func (r *Recommender) space(kind vector.Kind) (*space, error) {
	st := r.prepared.Load()
	if st == nil {
		return nil, ErrNotPrepared
	}
	sp, ok := st.spaces[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no %s embeddings", ErrNotFound, kind)
	}
	return sp, nil
}

// resolve maps id (or, failing that, its IDMapper translation) to an ordinal.
func (r *Recommender) resolve(sp *space, id string) (int, string, error) {
	if ord, ok := sp.ord[id]; ok {
		return ord, id, nil
	}
	if r.mapper != nil {
		if mapped, ok := r.mapper.Resolve(id); ok {
			if ord, ok := sp.ord[mapped]; ok {
				return ord, mapped, nil
			}
		}
	}
	return 0, "", fmt.Errorf("%w: %s", ErrNotFound, id)
}

// FindSimilarImages returns the k images most similar to id under the
// configured kind, ranked by cosine similarity descending and then id
// ascending. The query image itself is never returned.
func (r *Recommender) FindSimilarImages(ctx context.Context, id string, k int) (Gallery, error) {
	return r.FindSimilarImagesOfKind(ctx, r.kind, id, k)
}

// FindSimilarImagesOfKind is FindSimilarImages over an explicit kind.
func (r *Recommender) FindSimilarImagesOfKind(ctx context.Context, kind vector.Kind, id string, k int) (Gallery, error) {
	gallery, err := r.findSimilar(ctx, kind, id, k)
	r.logger.LogSearch(ctx, id, k, gallery.Len(), err)
	return gallery, err
}

func (r *Recommender) findSimilar(ctx context.Context, kind vector.Kind, id string, k int) (Gallery, error) {
	if err := ctx.Err(); err != nil {
		return Gallery{}, err
	}
	sp, err := r.space(kind)
	if err != nil {
		return Gallery{}, err
	}
	if k <= 0 {
		return Gallery{}, fmt.Errorf("%w: %d", ErrInvalidK, k)
	}
	ord, resolved, err := r.resolve(sp, id)
	if err != nil {
		return Gallery{}, err
	}
	ids, scores, err := sp.idx.Query(sp.vecs[ord], k+1)
	if err != nil {
		return Gallery{}, err
	}
	gallery := Gallery{Images: make([]string, 0, k), Scores: make([]float64, 0, k)}
	for i, candidate := range ids {
		if _, ok := sp.ord[candidate]; !ok || candidate == resolved {
			continue
		}
		if len(gallery.Images) == k {
			break
		}
		gallery.Images = append(gallery.Images, candidate)
		gallery.Scores = append(gallery.Scores, scores[i])
	}
	return gallery, nil
}

// neighbors returns up to n nearest ordinals to vec, excluding skip.
func (sp *space) neighbors(vec []float32, n, skip int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, _, err := sp.idx.Query(vec, n+1)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, n)
	for _, id := range ids {
		ord, ok := sp.ord[id]
		if !ok || ord == skip {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, ord)
	}
	return out, nil
}
