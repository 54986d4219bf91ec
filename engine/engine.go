package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// Open opens a SQLite database using the modernc.org/sqlite driver with
// vec_cosine and vec_l2 available on every connection.
//
// For file-based databases, pass a path like "./catalog.sqlite". For
// in-memory databases, pass ":memory:" (each pooled connection then sees its
// own database; call db.SetMaxOpenConns(1) when that matters).
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterVectorFunctions(nil); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", dsn)
}
