package cache

import (
	"math"
	"sync"
)

// Cosine returns the cosine similarity of two vectors clamped to [0, 1].
// Negative similarity carries no useful signal for cache matching, so it
// maps to 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// VectorIndex is an in-memory brute-force similarity index over stored
// prompt embeddings. Reads take an RLock; Add is an upsert keyed by
// fingerprint.
type VectorIndex struct {
	mu      sync.RWMutex
	keys    []string
	vectors [][]float32
	byKey   map[string]int
}

func NewVectorIndex() *VectorIndex {
	return &VectorIndex{byKey: make(map[string]int)}
}

// Add inserts or replaces the embedding for a fingerprint.
func (idx *VectorIndex) Add(fingerprint string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if i, ok := idx.byKey[fingerprint]; ok {
		idx.vectors[i] = vec
		return
	}
	idx.byKey[fingerprint] = len(idx.keys)
	idx.keys = append(idx.keys, fingerprint)
	idx.vectors = append(idx.vectors, vec)
}

// Best returns the fingerprint with the highest cosine similarity to the
// query vector. ok is false when the index is empty.
func (idx *VectorIndex) Best(vec []float32) (fingerprint string, similarity float64, ok bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	best := -1
	bestSim := 0.0
	for i, v := range idx.vectors {
		sim := Cosine(vec, v)
		if best == -1 || sim > bestSim {
			best = i
			bestSim = sim
		}
	}
	if best == -1 {
		return "", 0, false
	}
	return idx.keys[best], bestSim, true
}

// Len returns the number of indexed embeddings.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.keys)
}
