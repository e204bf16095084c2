package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wheelz27/sharp-sniper/internal/database"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

const pickColumns = `id, created_at, sport, away_team, home_team, play_side, bet_type,
	       line_taken, odds_taken, model_spread, market_spread, edge_points, confidence,
	       units, notes, closing_line, result, profit_units, clv, graded_at`

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// Create inserts a new pick in pending state
func (p *PostgresPickRepository) Create(ctx context.Context, pick *models.PickRecord) error {
	query := `
		INSERT INTO picks (id, created_at, sport, away_team, home_team, play_side, bet_type,
		                   line_taken, odds_taken, model_spread, market_spread, edge_points,
		                   confidence, units, notes, result, profit_units)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := p.db.GetPool().Exec(ctx, query,
		pick.ID, pick.CreatedAt, pick.Sport, pick.AwayTeam, pick.HomeTeam, pick.PlaySide, pick.BetType,
		pick.LineTaken, pick.OddsTaken, pick.ModelSpread, pick.MarketSpread, pick.EdgePoints,
		pick.Confidence, pick.Units, pick.Notes, pick.Result, pick.ProfitUnits,
	)
	if err != nil {
		return fmt.Errorf("failed to create pick: %w", err)
	}

	return nil
}

// GetByID retrieves a pick by ID
func (p *PostgresPickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PickRecord, error) {
	query := `SELECT ` + pickColumns + ` FROM picks WHERE id = $1`

	pick := &models.PickRecord{}
	err := p.db.GetPool().QueryRow(ctx, query, id).Scan(
		&pick.ID, &pick.CreatedAt, &pick.Sport, &pick.AwayTeam, &pick.HomeTeam, &pick.PlaySide, &pick.BetType,
		&pick.LineTaken, &pick.OddsTaken, &pick.ModelSpread, &pick.MarketSpread, &pick.EdgePoints, &pick.Confidence,
		&pick.Units, &pick.Notes, &pick.ClosingLine, &pick.Result, &pick.ProfitUnits, &pick.CLV, &pick.GradedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}

	return pick, nil
}

// Grade finalises a pending pick. The result guard in the WHERE clause is
// what enforces grade-once: a pick that already has a final result is never
// matched, so the update is a no-op and the caller gets ErrAlreadyGraded.
func (p *PostgresPickRepository) Grade(ctx context.Context, id uuid.UUID, update GradeUpdate) error {
	query := `
		UPDATE picks
		SET closing_line = $2, result = $3, profit_units = $4, clv = $5, graded_at = $6
		WHERE id = $1 AND result = 'pending'
	`

	tag, err := p.db.GetPool().Exec(ctx, query,
		id, update.ClosingLine, update.Result, update.ProfitUnits, update.CLV, update.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to grade pick: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Distinguish "no such pick" from "already graded".
		existing, getErr := p.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if existing.IsGraded() {
			return models.ErrAlreadyGraded
		}
		return models.ErrNotFound
	}

	return nil
}

// GetPending retrieves all picks awaiting grading, oldest first
func (p *PostgresPickRepository) GetPending(ctx context.Context) ([]*models.PickRecord, error) {
	query := `SELECT ` + pickColumns + `
		FROM picks
		WHERE result = 'pending'
		ORDER BY created_at ASC`

	rows, err := p.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// List retrieves picks matching the filter, newest first
func (p *PostgresPickRepository) List(ctx context.Context, filter PickFilter) ([]*models.PickRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.Sport != "" {
		args = append(args, filter.Sport)
		conditions = append(conditions, fmt.Sprintf("sport = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.GradedOnly {
		conditions = append(conditions, "result != 'pending'")
	}

	query := `SELECT ` + pickColumns + ` FROM picks`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := p.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

func scanPicks(rows pgx.Rows) ([]*models.PickRecord, error) {
	var picks []*models.PickRecord
	for rows.Next() {
		pick := &models.PickRecord{}
		err := rows.Scan(
			&pick.ID, &pick.CreatedAt, &pick.Sport, &pick.AwayTeam, &pick.HomeTeam, &pick.PlaySide, &pick.BetType,
			&pick.LineTaken, &pick.OddsTaken, &pick.ModelSpread, &pick.MarketSpread, &pick.EdgePoints, &pick.Confidence,
			&pick.Units, &pick.Notes, &pick.ClosingLine, &pick.Result, &pick.ProfitUnits, &pick.CLV, &pick.GradedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, pick)
	}

	return picks, rows.Err()
}
