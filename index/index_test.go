package index

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":       KindAuto,
		"auto":   KindAuto,
		"Brute":  KindBrute,
		"flat":   KindBrute,
		"vptree": KindVPTree,
		"vp":     KindVPTree,
		" cover": KindCover,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("hnsw")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, KindBrute, Resolve(KindAuto, 100, 512))
	assert.Equal(t, KindBrute, Resolve(KindAuto, 10000, 8))
	assert.Equal(t, KindVPTree, Resolve(KindAuto, 10000, 512))
	assert.Equal(t, KindCover, Resolve(KindCover, 1, 1))
}

func TestNew(t *testing.T) {
	for _, k := range []Kind{KindBrute, KindVPTree, KindCover} {
		idx, err := New(k)
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
	}
	_, err := New(KindAuto)
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}
	vecs := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}, {-1, 0}, {0.8, 0.2}}
	for _, k := range []Kind{KindBrute, KindVPTree, KindCover} {
		idx, err := New(k)
		require.NoError(t, err)
		require.NoError(t, idx.Build(ids, vecs))

		var buf bytes.Buffer
		require.NoError(t, Save(&buf, k, idx))

		kind, restored, err := Load(&buf)
		require.NoError(t, err)
		assert.Equal(t, k, kind)
		assert.Equal(t, 5, restored.Len())
		got, _, err := restored.Query([]float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "E"}, got, string(k))
	}
}

func TestLoad_BadSnapshot(t *testing.T) {
	_, _, err := Load(bytes.NewReader([]byte("definitely not zstd")))
	assert.Error(t, err)
}
