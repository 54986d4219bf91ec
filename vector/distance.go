package vector

import (
	"math"
)

// CosineSimilarity computes (a·b)/(‖a‖·‖b‖) in float64. It returns 0 when
// either vector has zero magnitude (empty vectors included) and a
// DimensionMismatchError when the lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, mismatch(len(a), len(b))
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, nil
	}
	return clamp(dot / (math.Sqrt(na2) * math.Sqrt(nb2))), nil
}

// CosineWithNorms computes cosine similarity using precomputed norms. The
// caller guarantees equal lengths.
func CosineWithNorms(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(Dot(a, b) / (na * nb))
}

// Dot returns the float64 dot product of two equal-length vectors.
func Dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// Norm returns the Euclidean magnitude of v.
func Norm(v []float32) float64 { return math.Sqrt(Dot(v, v)) }

// Normalize returns a unit-length copy of v and false when v has zero norm.
func Normalize(v []float32) ([]float32, bool) {
	n := Norm(v)
	out := make([]float32, len(v))
	if n == 0 {
		return out, false
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out, true
}

// L2Distance computes the Euclidean (L2) distance between two vectors. It
// returns an error if the vectors have different lengths.
func L2Distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, mismatch(len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// rounding can push |cos| slightly above 1
func clamp(s float64) float64 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	}
	return s
}
