package cover

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/imgrec/index/bruteforce"
	"github.com/viant/imgrec/vector"
)

func corpus(n, dim int) ([]string, [][]float32) {
	r := rand.New(rand.NewSource(99))
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%03d", i)
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(r.NormFloat64())
		}
		vecs[i] = v
	}
	vecs[4] = make([]float32, dim)
	return ids, vecs
}

func TestQuery_AgreesWithBruteForce(t *testing.T) {
	ids, vecs := corpus(400, 6)
	cv := New()
	require.NoError(t, cv.Build(ids, vecs))
	bf := &bruteforce.Index{}
	require.NoError(t, bf.Build(ids, vecs))

	for q := 0; q < 20; q++ {
		query := vecs[(q*37)%len(vecs)]
		want, _, err := bf.Query(query, 10)
		require.NoError(t, err)
		got, scores, err := cv.Query(query, 10)
		require.NoError(t, err)
		require.Len(t, got, 10)
		assert.Equal(t, want, got)
		for n := 1; n < len(scores); n++ {
			assert.LessOrEqual(t, scores[n], scores[n-1])
		}
	}
}

func TestQuery_SmallCorpusScans(t *testing.T) {
	ids, vecs := corpus(12, 3)
	cv := New(WithBase(2), WithBoundStrategy(BoundPerNode), WithDistance(DistanceFunctionEuclidean))
	require.NoError(t, cv.Build(ids, vecs))
	got, _, err := cv.Query(vecs[0], 0)
	require.NoError(t, err)
	assert.Len(t, got, 12)
	assert.Equal(t, "id-000", got[0])
}

func TestQuery_Errors(t *testing.T) {
	cv := New()
	ids, _, err := cv.Query([]float32{1}, 1)
	require.NoError(t, err)
	assert.Nil(t, ids)

	assert.ErrorIs(t, cv.Build([]string{"a", "b"}, [][]float32{{1}, {1, 2}}), vector.ErrDimensionMismatch)
	require.NoError(t, cv.Build([]string{"a"}, [][]float32{{1, 2}}))
	_, _, err = cv.Query([]float32{1, 2, 3}, 1)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestMarshalRoundTrip(t *testing.T) {
	ids, vecs := corpus(50, 4)
	cv := New()
	require.NoError(t, cv.Build(ids, vecs))
	data, err := cv.MarshalBinary()
	require.NoError(t, err)
	restored := &Index{}
	require.NoError(t, restored.UnmarshalBinary(data))
	a, _, _ := cv.Query(vecs[9], 5)
	b, _, _ := restored.Query(vecs[9], 5)
	assert.Equal(t, a, b)
}

func TestExact(t *testing.T) {
	assert.True(t, New().Exact())
	assert.False(t, New(WithDistance(DistanceFunctionCosine)).Exact())
	assert.False(t, New(WithBoundStrategy(BoundLevel)).Exact())
}
