package cache

import (
	"context"
	"time"
)

// Entry is one stored question/answer pair. Entries are immutable once
// written; a rewrite of the same fingerprint is semantically equivalent,
// so last-write-wins upserts are safe.
type Entry struct {
	Fingerprint string     `json:"fingerprint"`
	Prompt      string     `json:"prompt"`
	Answer      string     `json:"answer"`
	Model       string     `json:"model,omitempty"`
	Confidence  *float64   `json:"confidence,omitempty"`
	Embedding   []float32  `json:"embedding,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the entry's optional TTL has elapsed.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// ExactStore is the fingerprint-keyed hot store. Put must be an atomic
// upsert.
type ExactStore interface {
	Get(ctx context.Context, fingerprint string) (*Entry, error)
	Put(ctx context.Context, e *Entry, ttl time.Duration) error
}

// HistoryStore is the durable Q/A record store; it also feeds the vector
// index at startup.
type HistoryStore interface {
	Upsert(ctx context.Context, e *Entry) error
	Get(ctx context.Context, fingerprint string) (*Entry, error)
	Embeddings(ctx context.Context) ([]IndexedEmbedding, error)
}

// IndexedEmbedding is a (fingerprint, vector) pair used to warm the
// similarity index.
type IndexedEmbedding struct {
	Fingerprint string
	Vector      []float32
}

// Embedder produces a fixed-length vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
