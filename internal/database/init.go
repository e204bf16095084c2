package database

import (
	"context"
	"fmt"

	"github.com/wheelz27/sharp-sniper/internal/config"
)

// pickSchema is the persisted pick ledger. The partial index keeps the
// "needs grading" query cheap as the history grows.
const pickSchema = `
CREATE TABLE IF NOT EXISTS picks (
	id            UUID PRIMARY KEY,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	sport         TEXT NOT NULL,
	away_team     TEXT NOT NULL,
	home_team     TEXT NOT NULL,
	play_side     TEXT NOT NULL,
	bet_type      TEXT NOT NULL DEFAULT 'spread',
	line_taken    DOUBLE PRECISION NOT NULL,
	odds_taken    INTEGER NOT NULL DEFAULT -110,
	model_spread  DOUBLE PRECISION NOT NULL,
	market_spread DOUBLE PRECISION NOT NULL,
	edge_points   DOUBLE PRECISION NOT NULL,
	confidence    TEXT NOT NULL,
	units         NUMERIC(8,2) NOT NULL DEFAULT 1.0,
	notes         TEXT NOT NULL DEFAULT '',
	closing_line  DOUBLE PRECISION,
	result        TEXT NOT NULL DEFAULT 'pending',
	profit_units  NUMERIC(10,2) NOT NULL DEFAULT 0,
	clv           DOUBLE PRECISION,
	graded_at     TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_picks_pending
	ON picks (created_at) WHERE result = 'pending';

CREATE INDEX IF NOT EXISTS idx_picks_sport_created
	ON picks (sport, created_at DESC);
`

// Initialize creates a database connection pool and ensures the pick
// schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, pickSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure pick schema: %w", err)
	}

	return db, nil
}
