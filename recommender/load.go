package recommender

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/viant/imgrec/vector"
)

const envelopeKey = "vectors"

// Load reads a vector store file and returns an unprepared Recommender.
func Load(path string, opts ...Option) (*Recommender, error) {
	rec := configure(opts)
	err := rec.loadFile(path)
	rec.logger.LogLoad(context.Background(), path, len(rec.records), err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Recommender) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return r.decode(f)
}

// Decode reads a vector store in the form
//
//	{"<id>": {"image_embedding": [...], "text_embedding": [...]}, ...}
//
// optionally wrapped as {"vectors": {...}}.
func Decode(r io.Reader, opts ...Option) (*Recommender, error) {
	rec := configure(opts)
	if err := rec.decode(r); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *Recommender) decode(reader io.Reader) error {
	records, err := DecodeRecords(reader)
	if err != nil {
		return err
	}
	return r.setRecords(records)
}

// LoadRecords reads a vector store file into records sorted by id.
func LoadRecords(path string) ([]vector.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return decodeRecords(data)
}

// DecodeRecords is LoadRecords over a reader.
func DecodeRecords(r io.Reader) ([]vector.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return decodeRecords(data)
}

func decodeRecords(data []byte) ([]vector.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrLoad)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if inner, ok := top[envelopeKey]; ok {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, envelopeKey, err)
		}
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrLoad)
	}
	ids := make([]string, 0, len(top))
	for id := range top {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	records := make([]vector.Record, 0, len(ids))
	for _, id := range ids {
		var fields map[string][]float32
		if err := json.Unmarshal(top[id], &fields); err != nil {
			return nil, fmt.Errorf("%w: record %q: %w", ErrLoad, id, err)
		}
		rec := vector.Record{ID: id, Embeddings: make(map[vector.Kind][]float32, len(fields))}
		for name, vec := range fields {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: record %q: empty %s", ErrLoad, id, name)
			}
			rec.Embeddings[vector.Kind(name)] = vec
		}
		records = append(records, rec)
	}
	return records, nil
}
