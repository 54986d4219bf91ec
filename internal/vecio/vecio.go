// Package vecio implements the binary layout shared by index snapshots:
// dim(uint32), n(uint32), then for each item idLen(uint32), id bytes and
// vec(float32[dim]), all little-endian.
package vecio

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/viant/imgrec/vector"
)

// ErrTruncated is returned when data ends before the declared content.
var ErrTruncated = errors.New("vecio: truncated")

// Encode serializes ids and vectors; every vector must have length dim.
func Encode(ids []string, vecs [][]float32, dim int) []byte {
	size := 8
	for _, id := range ids {
		size += 4 + len(id) + 4*dim
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(dim))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(ids)))
	for i, id := range ids {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(id)))
		out = append(out, id...)
		out = vector.AppendEmbedding(out, vecs[i])
	}
	return out
}

// Decode is the inverse of Encode.
func Decode(data []byte) ([]string, [][]float32, error) {
	if len(data) < 8 {
		return nil, nil, errors.New("vecio: invalid data")
	}
	off := 0
	u32 := func() (uint32, bool) {
		if off+4 > len(data) {
			return 0, false
		}
		v := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		return v, true
	}
	d, _ := u32()
	c, _ := u32()
	dim, n := int(d), int(c)
	ids := make([]string, 0, min(n, len(data)/4))
	vecs := make([][]float32, 0, min(n, len(data)/4))
	for i := 0; i < n; i++ {
		l, ok := u32()
		if !ok || off+int(l) > len(data) {
			return nil, nil, ErrTruncated
		}
		ids = append(ids, string(data[off:off+int(l)]))
		off += int(l)
		if off+4*dim > len(data) {
			return nil, nil, ErrTruncated
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs = append(vecs, vec)
	}
	return ids, vecs, nil
}
