package vptree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/imgrec/index/bruteforce"
	"github.com/viant/imgrec/vector"
)

func randomCorpus(n, dim int, seed int64) ([]string, [][]float32) {
	r := rand.New(rand.NewSource(seed))
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("img-%04d", i)
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(r.NormFloat64())
		}
		vecs[i] = v
	}
	// duplicates and a zero vector exercise ties and the zero bucket
	vecs[7] = append([]float32(nil), vecs[3]...)
	vecs[11] = make([]float32, dim)
	return ids, vecs
}

func TestQuery_MatchesBruteForce(t *testing.T) {
	ids, vecs := randomCorpus(500, 16, 42)
	vp := &Index{}
	require.NoError(t, vp.Build(ids, vecs))
	bf := &bruteforce.Index{}
	require.NoError(t, bf.Build(ids, vecs))

	r := rand.New(rand.NewSource(7))
	for q := 0; q < 25; q++ {
		query := vecs[r.Intn(len(vecs))]
		for _, k := range []int{1, 5, 10, 33} {
			want, wantScores, err := bf.Query(query, k)
			require.NoError(t, err)
			got, gotScores, err := vp.Query(query, k)
			require.NoError(t, err)
			assert.Equal(t, want, got, "query %d k=%d", q, k)
			assert.InDeltaSlice(t, wantScores, gotScores, 1e-12)
		}
	}
}

func TestQuery_ZeroQuery(t *testing.T) {
	ids, vecs := randomCorpus(20, 4, 1)
	vp := &Index{}
	require.NoError(t, vp.Build(ids, vecs))
	got, scores, err := vp.Query(make([]float32, 4), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"img-0000", "img-0001", "img-0002"}, got)
	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	vp := &Index{}
	err := vp.Build([]string{"a", "b"}, [][]float32{{1, 0}, {1, 0, 0}})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	require.NoError(t, vp.Build([]string{"a"}, [][]float32{{1, 0}}))
	_, _, err = vp.Query([]float32{1}, 1)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestMarshalRoundTrip(t *testing.T) {
	ids, vecs := randomCorpus(100, 8, 3)
	vp := &Index{}
	require.NoError(t, vp.Build(ids, vecs))
	data, err := vp.MarshalBinary()
	require.NoError(t, err)

	restored := &Index{}
	require.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, vp.Len(), restored.Len())
	a, _, _ := vp.Query(vecs[5], 10)
	b, _, _ := restored.Query(vecs[5], 10)
	assert.Equal(t, a, b)
}
