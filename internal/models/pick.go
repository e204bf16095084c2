package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetType identifies the market a pick was made on.
type BetType string

const (
	BetTypeSpread     BetType = "spread"
	BetTypeTotalOver  BetType = "total_over"
	BetTypeTotalUnder BetType = "total_under"
	BetTypeMoneyline  BetType = "ml"
)

// PickResult is the graded outcome of a pick.
type PickResult string

const (
	PickResultPending PickResult = "pending"
	PickResultWin     PickResult = "win"
	PickResultLoss    PickResult = "loss"
	PickResultPush    PickResult = "push"
)

// Valid reports whether the result is a known grading outcome.
func (r PickResult) Valid() bool {
	switch r {
	case PickResultWin, PickResultLoss, PickResultPush:
		return true
	}
	return false
}

// PickRecord is a persisted betting decision. Created at decision time with
// a pending result, mutated exactly once by grading; otherwise append-only.
type PickRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Sport     string    `db:"sport" json:"sport" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	PlaySide  PlaySide  `db:"play_side" json:"play_side" validate:"required,oneof=HOME AWAY OVER UNDER"`
	BetType   BetType   `db:"bet_type" json:"bet_type" validate:"required,oneof=spread total_over total_under ml"`

	LineTaken    float64        `db:"line_taken" json:"line_taken"`
	OddsTaken    int            `db:"odds_taken" json:"odds_taken" validate:"required"`
	ModelSpread  float64        `db:"model_spread" json:"model_spread"`
	MarketSpread float64        `db:"market_spread" json:"market_spread"`
	EdgePoints   float64        `db:"edge_points" json:"edge_points"`
	Confidence   ConfidenceTier `db:"confidence" json:"confidence"`

	Units decimal.Decimal `db:"units" json:"units"`
	Notes string          `db:"notes" json:"notes"`

	// Filled in by grading.
	ClosingLine *float64        `db:"closing_line" json:"closing_line"`
	Result      PickResult      `db:"result" json:"result"`
	ProfitUnits decimal.Decimal `db:"profit_units" json:"profit_units"`
	CLV         *float64        `db:"clv" json:"clv"`
	GradedAt    *time.Time      `db:"graded_at" json:"graded_at"`
}

// IsGraded reports whether the pick has a final result.
func (p *PickRecord) IsGraded() bool {
	return p.Result != PickResultPending && p.Result != ""
}

// PlayTeam returns the team the pick is on, empty for totals.
func (p *PickRecord) PlayTeam() string {
	switch p.PlaySide {
	case PlaySideHome:
		return p.HomeTeam
	case PlaySideAway:
		return p.AwayTeam
	}
	return ""
}
