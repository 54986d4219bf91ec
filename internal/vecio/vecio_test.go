package vecio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	ids := []string{"a", "bb", ""}
	vecs := [][]float32{{1, 2}, {-3, 4.5}, {0, 0}}
	data := Encode(ids, vecs, 2)

	gotIDs, gotVecs, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ids, gotIDs)
	assert.Equal(t, vecs, gotVecs)
}

func TestDecode_Empty(t *testing.T) {
	ids, vecs, err := Decode(Encode(nil, nil, 0))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, vecs)
}

func TestDecode_Truncated(t *testing.T) {
	data := Encode([]string{"abc"}, [][]float32{{1, 2, 3}}, 3)
	_, _, err := Decode(data[:len(data)-2])
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, err = Decode([]byte{1, 2})
	assert.Error(t, err)
}
