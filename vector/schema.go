package vector

import (
	"context"
	"database/sql"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS images (
    id     TEXT PRIMARY KEY,
    prompt TEXT,
    meta   TEXT
);
CREATE TABLE IF NOT EXISTS embeddings (
    id        TEXT NOT NULL,
    kind      TEXT NOT NULL,
    embedding BLOB NOT NULL,
    PRIMARY KEY(id, kind)
);
CREATE INDEX IF NOT EXISTS embeddings_kind ON embeddings(kind);
`

// EnsureSchema creates the images and embeddings tables in the provided
// database if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, catalogSchema)
	return err
}
