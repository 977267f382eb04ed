package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the Postgres pool holding the interaction event log.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the interactions table and its indexes if they
// do not exist. Called once at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			input_text TEXT,
			sentiment_score DOUBLE PRECISION,
			severity_bucket TEXT CHECK (severity_bucket IN ('mild', 'moderate', 'severe')),
			assigned_variant TEXT CHECK (assigned_variant IN ('A_CLINICAL', 'B_EMPATHETIC')),
			response_time_ms INTEGER,
			time_to_decision_ms INTEGER,
			session_depth INTEGER NOT NULL DEFAULT 1,
			converted BOOLEAN,
			experiment_excluded TEXT,
			referral_source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_variant ON interactions(assigned_variant)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_converted ON interactions(converted)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_severity ON interactions(severity_bucket)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_recorded_at ON interactions(recorded_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
