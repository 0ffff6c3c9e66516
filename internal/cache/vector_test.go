package cache

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite clamped to zero", []float32{1, 0}, []float32{-1, 0}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
		{"empty", nil, nil, 0.0},
	}
	for _, tt := range tests {
		got := Cosine(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Cosine = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCosine_InUnitRange(t *testing.T) {
	a := []float32{0.3, 0.7, 0.2}
	b := []float32{0.31, 0.69, 0.21}
	sim := Cosine(a, b)
	if sim < 0 || sim > 1 {
		t.Errorf("similarity %v outside [0,1]", sim)
	}
}

func TestVectorIndex_Best(t *testing.T) {
	idx := NewVectorIndex()
	if _, _, ok := idx.Best([]float32{1, 0}); ok {
		t.Error("empty index must report no match")
	}

	idx.Add("fp-a", []float32{1, 0})
	idx.Add("fp-b", []float32{0, 1})

	fp, sim, ok := idx.Best([]float32{0.9, 0.1})
	if !ok {
		t.Fatal("expected a best match")
	}
	if fp != "fp-a" {
		t.Errorf("expected fp-a, got %s", fp)
	}
	if sim <= 0.9 {
		t.Errorf("expected high similarity, got %v", sim)
	}
}

func TestVectorIndex_AddIsUpsert(t *testing.T) {
	idx := NewVectorIndex()
	idx.Add("fp-a", []float32{1, 0})
	idx.Add("fp-a", []float32{0, 1})
	if idx.Len() != 1 {
		t.Errorf("expected 1 entry after upsert, got %d", idx.Len())
	}
	fp, _, _ := idx.Best([]float32{0, 1})
	if fp != "fp-a" {
		t.Errorf("expected replaced vector to win, got %s", fp)
	}
}
