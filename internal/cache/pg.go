package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements HistoryStore on PostgreSQL. The qa_history table is the
// durable record of every answered question and the source the similarity
// index is warmed from at startup.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Upsert(ctx context.Context, e *Entry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO qa_history (fingerprint, prompt, answer, model, confidence, embedding, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (fingerprint) DO UPDATE SET
			answer = EXCLUDED.answer,
			model = EXCLUDED.model,
			confidence = EXCLUDED.confidence,
			embedding = EXCLUDED.embedding,
			expires_at = EXCLUDED.expires_at
	`, e.Fingerprint, e.Prompt, e.Answer, e.Model, e.Confidence, e.Embedding, e.CreatedAt, e.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert qa_history: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	var e Entry
	err := s.db.QueryRow(ctx, `
		SELECT fingerprint, prompt, answer, model, confidence, embedding, created_at, expires_at
		FROM qa_history
		WHERE fingerprint = $1
		  AND (expires_at IS NULL OR expires_at > NOW())
	`, fingerprint).Scan(
		&e.Fingerprint,
		&e.Prompt,
		&e.Answer,
		&e.Model,
		&e.Confidence,
		&e.Embedding,
		&e.CreatedAt,
		&e.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query qa_history: %w", err)
	}
	return &e, nil
}

func (s *PGStore) Embeddings(ctx context.Context) ([]IndexedEmbedding, error) {
	rows, err := s.db.Query(ctx, `
		SELECT fingerprint, embedding
		FROM qa_history
		WHERE embedding IS NOT NULL
		  AND (expires_at IS NULL OR expires_at > NOW())
	`)
	if err != nil {
		return nil, fmt.Errorf("query qa_history embeddings: %w", err)
	}
	defer rows.Close()

	var out []IndexedEmbedding
	for rows.Next() {
		var ie IndexedEmbedding
		if err := rows.Scan(&ie.Fingerprint, &ie.Vector); err != nil {
			return nil, fmt.Errorf("scan embedding row: %w", err)
		}
		out = append(out, ie)
	}
	return out, rows.Err()
}
