package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLiteStore implements Store on a SQLite database. Similarity search relies
// on the vec_cosine SQL function, so the database must be opened through
// engine.Open (or have the functions registered before connecting).
//
// SQLiteStore also satisfies the recommender's prompt service contract via
// Prompt and Exists.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store. It ensures the catalog
// schema exists in the provided database.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("vector: ensure schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Put upserts records in a single transaction.
func (s *SQLiteStore) Put(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	imgStmt, err := tx.PrepareContext(ctx, `INSERT INTO images(id, prompt, meta) VALUES(?, ?, ?)
ON CONFLICT(id) DO UPDATE SET prompt = excluded.prompt, meta = excluded.meta`)
	if err != nil {
		return err
	}
	defer imgStmt.Close()
	embStmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO embeddings(id, kind, embedding) VALUES(?, ?, ?)`)
	if err != nil {
		return err
	}
	defer embStmt.Close()

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("vector: Record.ID must be set")
		}
		if _, err := imgStmt.ExecContext(ctx, r.ID, r.Prompt, r.Meta); err != nil {
			return fmt.Errorf("vector: put %s: %w", r.ID, err)
		}
		for kind, vec := range r.Embeddings {
			blob, err := EncodeEmbedding(vec)
			if err != nil {
				return err
			}
			if blob == nil {
				continue
			}
			if _, err := embStmt.ExecContext(ctx, r.ID, string(kind), blob); err != nil {
				return fmt.Errorf("vector: put %s/%s: %w", r.ID, kind, err)
			}
		}
	}
	return tx.Commit()
}

// Records loads every image with its embeddings, ordered by id.
func (s *SQLiteStore) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT i.id, i.prompt, i.meta, e.kind, e.embedding
FROM images i LEFT JOIN embeddings e ON e.id = i.id
ORDER BY i.id, e.kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id           string
			prompt, meta sql.NullString
			kind         sql.NullString
			blob         []byte
		)
		if err := rows.Scan(&id, &prompt, &meta, &kind, &blob); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, Record{ID: id, Prompt: prompt.String, Meta: meta.String, Embeddings: map[Kind][]float32{}})
		}
		if !kind.Valid {
			continue
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("vector: decode %s/%s: %w", id, kind.String, err)
		}
		out[len(out)-1].Embeddings[Kind(kind.String)] = vec
	}
	return out, rows.Err()
}

// Embedding returns the stored embedding of kind for id.
func (s *SQLiteStore) Embedding(ctx context.Context, id string, kind Kind) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT embedding FROM embeddings WHERE id = ? AND kind = ?`, id, string(kind)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, id, kind)
	}
	if err != nil {
		return nil, err
	}
	return DecodeEmbedding(blob)
}

// SimilaritySearch ranks embeddings of kind with vec_cosine.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, kind Kind, query []float32, k int) ([]Match, error) {
	return s.search(ctx, "vec_cosine", "DESC", kind, query, k)
}

// DistanceSearch ranks embeddings of kind by vec_l2, nearest first. Match.Score
// holds the Euclidean distance.
func (s *SQLiteStore) DistanceSearch(ctx context.Context, kind Kind, query []float32, k int) ([]Match, error) {
	return s.search(ctx, "vec_l2", "ASC", kind, query, k)
}

func (s *SQLiteStore) search(ctx context.Context, fn, order string, kind Kind, query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	q, err := EncodeEmbedding(query)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("vector: empty query embedding")
	}
	rows, err := s.db.QueryContext(ctx, `SELECT e.id, COALESCE(i.prompt, ''), `+fn+`(e.embedding, ?) AS score
FROM embeddings e LEFT JOIN images i ON i.id = e.id
WHERE e.kind = ?
ORDER BY score `+order+`, e.id
LIMIT ?`, q, string(kind), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.Prompt, &m.Score); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Remove deletes a record and its embeddings in one transaction.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings WHERE id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return tx.Commit()
}

// Prompt returns the stored prompt for id.
func (s *SQLiteStore) Prompt(ctx context.Context, id string) (string, error) {
	var prompt sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT prompt FROM images WHERE id = ?`, id).Scan(&prompt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return "", err
	}
	return prompt.String, nil
}

// Exists reports whether id is in the catalog.
func (s *SQLiteStore) Exists(ctx context.Context, id string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM images WHERE id = ?`, id).Scan(&one)
	return err == nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
