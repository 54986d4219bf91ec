package engine

import (
	"path/filepath"
	"testing"

	"github.com/viant/imgrec/vector"
)

func TestOpenRegistersFunctions(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "catalog.sqlite")
	for i := 0; i < 2; i++ {
		db, err := Open(dsn)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i, err)
		}
		a, _ := vector.EncodeEmbedding([]float32{1, 0})
		b, _ := vector.EncodeEmbedding([]float32{0, 2})
		var cos, l2 float64
		if err := db.QueryRow("SELECT vec_cosine(?, ?), vec_l2(?, ?)", a, a, a, b).Scan(&cos, &l2); err != nil {
			_ = db.Close()
			t.Fatalf("query #%d failed: %v", i, err)
		}
		_ = db.Close()
		if cos < 0.999999 {
			t.Errorf("vec_cosine(a, a) = %v, want 1", cos)
		}
		if l2 < 2.236 || l2 > 2.237 {
			t.Errorf("vec_l2(a, b) = %v, want sqrt(5)", l2)
		}
	}
}
