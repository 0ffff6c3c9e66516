package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/af-corp/bridge-gateway/internal/config"
)

// MatchType distinguishes how a cache hit was found.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchSemantic MatchType = "semantic"
)

// Hit is a successful cache lookup.
type Hit struct {
	Entry      *Entry
	Match      MatchType
	Similarity float64
}

// Manager layers the exact-match hot store, the in-memory similarity index,
// and the durable history store into one cache service. Constructed once per
// process and injected into the pipeline. Every backend failure degrades to
// a miss: the cache must never fail a request.
type Manager struct {
	exact   ExactStore
	history HistoryStore
	index   *VectorIndex
	embed   Embedder
	cfg     func() config.CacheConfig
}

func NewManager(exact ExactStore, history HistoryStore, embed Embedder, cfg func() config.CacheConfig) *Manager {
	return &Manager{
		exact:   exact,
		history: history,
		index:   NewVectorIndex(),
		embed:   embed,
		cfg:     cfg,
	}
}

// Warm loads stored embeddings from the history store into the similarity
// index. Called once at startup; a failure is logged and leaves the index
// empty, which only disables semantic matches.
func (m *Manager) Warm(ctx context.Context) {
	if m.history == nil {
		return
	}
	embeddings, err := m.history.Embeddings(ctx)
	if err != nil {
		slog.Warn("cache warm-up failed, semantic matching starts cold", "error", err)
		return
	}
	for _, ie := range embeddings {
		m.index.Add(ie.Fingerprint, ie.Vector)
	}
	slog.Info("cache index warmed", "entries", m.index.Len())
}

// Lookup searches for a prior answer to the prompt: exact fingerprint match
// first, then nearest-neighbor similarity at or above the configured
// threshold. A nil return is a miss.
func (m *Manager) Lookup(ctx context.Context, prompt string) *Hit {
	if !m.cfg().Enabled {
		return nil
	}

	fp := Fingerprint(prompt)

	if e := m.lookupExact(ctx, fp); e != nil {
		return &Hit{Entry: e, Match: MatchExact, Similarity: 1.0}
	}

	return m.lookupSimilar(ctx, prompt)
}

func (m *Manager) lookupExact(ctx context.Context, fingerprint string) *Entry {
	now := time.Now()
	if m.exact != nil {
		e, err := m.exact.Get(ctx, fingerprint)
		if err != nil {
			slog.Warn("exact cache lookup failed, treating as miss", "error", err)
		} else if e != nil && !e.Expired(now) {
			return e
		}
	}
	if m.history != nil {
		e, err := m.history.Get(ctx, fingerprint)
		if err != nil {
			slog.Warn("history lookup failed, treating as miss", "error", err)
			return nil
		}
		if e != nil && !e.Expired(now) {
			return e
		}
	}
	return nil
}

func (m *Manager) lookupSimilar(ctx context.Context, prompt string) *Hit {
	if m.embed == nil {
		return nil
	}
	vec, err := m.embed.Embed(ctx, prompt)
	if err != nil {
		slog.Warn("embedding failed, skipping semantic lookup", "error", err)
		return nil
	}

	fp, sim, ok := m.index.Best(vec)
	if !ok || sim < m.cfg().SimilarityThreshold {
		return nil
	}

	e := m.lookupExact(ctx, fp)
	if e == nil {
		// Index pointed at an entry the stores no longer have.
		return nil
	}
	return &Hit{Entry: e, Match: MatchSemantic, Similarity: sim}
}

// Store persists a finished answer under the prompt's fingerprint: atomic
// upsert into the hot store, durable upsert into history, and index update.
// If the entry carries no embedding one is computed here; failures are
// logged and the remaining writes still proceed.
func (m *Manager) Store(ctx context.Context, e *Entry) {
	if !m.cfg().Enabled || e == nil || e.Answer == "" {
		return
	}

	if e.Fingerprint == "" {
		e.Fingerprint = Fingerprint(e.Prompt)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	ttl := m.cfg().TTL
	if ttl > 0 && e.ExpiresAt == nil {
		expires := e.CreatedAt.Add(ttl)
		e.ExpiresAt = &expires
	}

	if len(e.Embedding) == 0 && m.embed != nil {
		vec, err := m.embed.Embed(ctx, e.Prompt)
		if err != nil {
			slog.Warn("embedding failed, storing entry without vector", "error", err)
		} else {
			e.Embedding = vec
		}
	}

	if m.exact != nil {
		if err := m.exact.Put(ctx, e, ttl); err != nil {
			slog.Warn("exact cache write failed", "error", err)
		}
	}
	if m.history != nil {
		if err := m.history.Upsert(ctx, e); err != nil {
			slog.Warn("history write failed", "error", err)
		}
	}
	if len(e.Embedding) > 0 {
		m.index.Add(e.Fingerprint, e.Embedding)
	}
}
