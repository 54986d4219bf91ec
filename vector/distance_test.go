package vector

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	// Orthogonal vectors -> similarity 0
	if sim, err := CosineSimilarity(a, b); err != nil || sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, %v; want 0, nil", sim, err)
	}

	// Identical vectors -> similarity 1
	if sim, err := CosineSimilarity(a, c); err != nil || sim != 1 {
		t.Fatalf("CosineSimilarity(a,c) = %v, %v; want 1, nil", sim, err)
	}
}

func TestCosineSimilarity_Properties(t *testing.T) {
	vecs := [][]float32{
		{0.3, -1.2, 4.5},
		{1e-3, 2e-3, -7e-3, 0.5},
		{-2, -2, -2, -2, -2},
	}
	for _, v := range vecs {
		self, err := CosineSimilarity(v, v)
		if err != nil || math.Abs(self-1) > 1e-9 {
			t.Fatalf("cos(v,v) = %v, %v; want 1", self, err)
		}
		neg := make([]float32, len(v))
		for i := range v {
			neg[i] = -v[i]
		}
		opp, err := CosineSimilarity(v, neg)
		if err != nil || math.Abs(opp+1) > 1e-9 {
			t.Fatalf("cos(v,-v) = %v, %v; want -1", opp, err)
		}
		zero := make([]float32, len(v))
		if z, err := CosineSimilarity(v, zero); err != nil || z != 0 {
			t.Fatalf("cos(v,0) = %v, %v; want 0", z, err)
		}
		if z, err := CosineSimilarity(zero, v); err != nil || z != 0 {
			t.Fatalf("cos(0,v) = %v, %v; want 0", z, err)
		}
	}
	if z, err := CosineSimilarity(nil, nil); err != nil || z != 0 {
		t.Fatalf("cos(nil,nil) = %v, %v; want 0", z, err)
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	var dm *DimensionMismatchError
	if !errors.As(err, &dm) || dm.Expected != 2 || dm.Actual != 3 {
		t.Fatalf("unexpected error detail: %#v", err)
	}
}

func TestCosineWithNorms(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0.9, 0.1}
	want, _ := CosineSimilarity(a, b)
	got := CosineWithNorms(a, b, Norm(a), Norm(b))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("CosineWithNorms = %v, want %v", got, want)
	}
	if got := CosineWithNorms(a, []float32{0, 0}, 1, 0); got != 0 {
		t.Fatalf("zero norm = %v, want 0", got)
	}
}

func TestNormalize(t *testing.T) {
	u, ok := Normalize([]float32{3, 4})
	if !ok || math.Abs(Norm(u)-1) > 1e-6 {
		t.Fatalf("Normalize(3,4) = %v, %v", u, ok)
	}
	if _, ok := Normalize([]float32{0, 0}); ok {
		t.Fatalf("Normalize(0,0) reported ok")
	}
}

func TestL2Distance(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}

	d, err := L2Distance(a, b)
	if err != nil {
		t.Fatalf("L2Distance failed: %v", err)
	}
	if d != 5 {
		t.Fatalf("L2Distance(0,0)-(3,4) = %v, want 5", d)
	}
	if _, err := L2Distance(a, []float32{1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}
