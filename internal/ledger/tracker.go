// Package ledger records betting decisions and grades them against
// closing lines, the transparency layer behind every pick the pipeline
// produces.
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	applog "github.com/wheelz27/sharp-sniper/internal/logger"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/oddsmath"
	"github.com/wheelz27/sharp-sniper/internal/repository"
)

// Tracker is the pick ledger service. All money math runs through
// decimal; floats only cross the boundary at line/CLV values, which are
// points, not currency.
type Tracker struct {
	repo   repository.PickRepository
	logger *logrus.Logger
	audit  *applog.AuditLogger
}

// NewTracker creates a new pick tracker
func NewTracker(repo repository.PickRepository, logger *logrus.Logger) *Tracker {
	return &Tracker{
		repo:   repo,
		logger: logger,
		audit:  applog.NewAuditLogger(logger),
	}
}

// LogPick persists a new pick in pending state and returns its ID.
func (t *Tracker) LogPick(ctx context.Context, pick *models.PickRecord) (uuid.UUID, error) {
	if pick.ID == uuid.Nil {
		pick.ID = uuid.New()
	}
	if pick.CreatedAt.IsZero() {
		pick.CreatedAt = time.Now().UTC()
	}
	pick.Result = models.PickResultPending
	if pick.Units.IsZero() {
		pick.Units = decimal.NewFromInt(1)
	}

	if err := t.repo.Create(ctx, pick); err != nil {
		return uuid.Nil, fmt.Errorf("failed to log pick: %w", err)
	}
	metrics.RecordPickLogged()
	t.audit.LogPickRecorded(pick.ID.String(), pick.Sport,
		pick.AwayTeam+" @ "+pick.HomeTeam, string(pick.PlaySide), pick.PlayTeam(),
		pick.LineTaken, pick.OddsTaken, pick.Units.String(), pick.CreatedAt)

	return pick.ID, nil
}

// GradePick finalises a pending pick against the closing line.
//
// CLV is closingLine - lineTaken for every side. With home-perspective
// lines a positive CLV on a HOME pick means the market moved toward the
// home team after we bet; the sign is not flipped for AWAY picks, so
// CLV reads "how far the line moved from where we got it", not "how far
// it moved in our favour". Consumers that want side-relative CLV can
// negate it for away picks.
//
// A pick that already has a final result returns models.ErrAlreadyGraded;
// corrections require logging a replacement pick.
func (t *Tracker) GradePick(ctx context.Context, id uuid.UUID, closingLine float64, result models.PickResult) error {
	if !result.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidResult, result)
	}

	pick, err := t.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pick.IsGraded() {
		return models.ErrAlreadyGraded
	}

	clv := round2(closingLine - pick.LineTaken)
	profit := profitUnits(result, pick.Units, pick.OddsTaken)

	update := repository.GradeUpdate{
		ClosingLine: closingLine,
		Result:      result,
		ProfitUnits: profit,
		CLV:         clv,
		GradedAt:    time.Now().UTC(),
	}
	if err := t.repo.Grade(ctx, id, update); err != nil {
		return err
	}
	metrics.RecordPickGraded(string(result))
	t.audit.LogPickGraded(id.String(), string(result), closingLine, clv, profit.String())

	return nil
}

// profitUnits computes the win/loss payout from American odds.
func profitUnits(result models.PickResult, units decimal.Decimal, odds int) decimal.Decimal {
	switch result {
	case models.PickResultWin:
		mult, err := oddsmath.ProfitMultiplier(odds)
		if err != nil {
			return decimal.Zero
		}
		return units.Mul(decimal.NewFromFloat(mult)).Round(2)
	case models.PickResultLoss:
		return units.Neg()
	default:
		return decimal.Zero
	}
}

// PendingPicks returns all picks awaiting grading, oldest first.
func (t *Tracker) PendingPicks(ctx context.Context) ([]*models.PickRecord, error) {
	return t.repo.GetPending(ctx)
}

// RecentPicks returns picks logged within the last N days, newest first.
func (t *Tracker) RecentPicks(ctx context.Context, days int) ([]*models.PickRecord, error) {
	return t.repo.List(ctx, repository.PickFilter{
		Since: time.Now().UTC().AddDate(0, 0, -days),
	})
}

// ReportFilter scopes a performance report. Zero values mean all time,
// all sports.
type ReportFilter struct {
	Sport string
	Days  int
}

// TierStats is the per-confidence-tier breakdown in a report.
type TierStats struct {
	Picks  int             `json:"picks"`
	Wins   int             `json:"wins"`
	Profit decimal.Decimal `json:"profit"`
}

// PerformanceSummary aggregates graded picks into the transparency
// metrics that matter: ROI is the headline and CLV is the leading
// indicator of whether the edge is real.
type PerformanceSummary struct {
	TotalPicks int `json:"total_picks"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Pushes     int `json:"pushes"`

	WinRatePct   float64         `json:"win_rate_pct"`
	UnitsWagered decimal.Decimal `json:"units_wagered"`
	UnitsProfit  decimal.Decimal `json:"units_profit"`
	ROIPct       float64         `json:"roi_pct"`

	AvgCLV         float64 `json:"avg_clv"`
	CLVPositivePct float64 `json:"clv_positive_pct"`

	ByConfidence map[models.ConfidenceTier]*TierStats `json:"by_confidence"`

	// Streak is the current run of identical results, pushes skipped,
	// e.g. "3W" or "2L". "0" when nothing decisive has settled.
	Streak string `json:"streak"`
}

// Record formats the W-L-P line.
func (s *PerformanceSummary) Record() string {
	return fmt.Sprintf("%d-%d-%d", s.Wins, s.Losses, s.Pushes)
}

// PerformanceReport aggregates all graded picks matching the filter.
func (t *Tracker) PerformanceReport(ctx context.Context, filter ReportFilter) (*PerformanceSummary, error) {
	pf := repository.PickFilter{
		Sport:      filter.Sport,
		GradedOnly: true,
	}
	if filter.Days > 0 {
		pf.Since = time.Now().UTC().AddDate(0, 0, -filter.Days)
	}

	picks, err := t.repo.List(ctx, pf)
	if err != nil {
		return nil, fmt.Errorf("failed to load graded picks: %w", err)
	}

	summary := &PerformanceSummary{
		UnitsWagered: decimal.Zero,
		UnitsProfit:  decimal.Zero,
		ByConfidence: make(map[models.ConfidenceTier]*TierStats),
		Streak:       "0",
	}
	if len(picks) == 0 {
		return summary, nil
	}

	var clvSum float64
	var clvCount, clvPositive int

	for _, p := range picks {
		switch p.Result {
		case models.PickResultWin:
			summary.Wins++
		case models.PickResultLoss:
			summary.Losses++
		case models.PickResultPush:
			summary.Pushes++
		}
		summary.UnitsWagered = summary.UnitsWagered.Add(p.Units)
		summary.UnitsProfit = summary.UnitsProfit.Add(p.ProfitUnits)

		if p.CLV != nil && *p.CLV != 0 {
			clvSum += *p.CLV
			clvCount++
			if *p.CLV > 0 {
				clvPositive++
			}
		}

		tier := summary.ByConfidence[p.Confidence]
		if tier == nil {
			tier = &TierStats{Profit: decimal.Zero}
			summary.ByConfidence[p.Confidence] = tier
		}
		tier.Picks++
		if p.Result == models.PickResultWin {
			tier.Wins++
		}
		tier.Profit = tier.Profit.Add(p.ProfitUnits)
	}

	summary.TotalPicks = summary.Wins + summary.Losses + summary.Pushes

	if decided := summary.Wins + summary.Losses; decided > 0 {
		summary.WinRatePct = round1(float64(summary.Wins) / float64(decided) * 100)
	}
	if summary.UnitsWagered.IsPositive() {
		roi, _ := summary.UnitsProfit.Div(summary.UnitsWagered).
			Mul(decimal.NewFromInt(100)).Round(2).Float64()
		summary.ROIPct = roi
	}
	if clvCount > 0 {
		summary.AvgCLV = round2(clvSum / float64(clvCount))
		summary.CLVPositivePct = round1(float64(clvPositive) / float64(clvCount) * 100)
	}

	// List returns newest first, so the streak walk starts at index 0.
	summary.Streak = currentStreak(picks)

	return summary, nil
}

// currentStreak walks graded picks newest to oldest, skipping pushes,
// counting the run of identical results.
func currentStreak(picks []*models.PickRecord) string {
	streak := 0
	var streakResult models.PickResult

	for _, p := range picks {
		if p.Result == models.PickResultPush {
			continue
		}
		if streakResult == "" {
			streakResult = p.Result
			streak = 1
			continue
		}
		if p.Result != streakResult {
			break
		}
		streak++
	}

	if streak == 0 {
		return "0"
	}
	suffix := "L"
	if streakResult == models.PickResultWin {
		suffix = "W"
	}
	return fmt.Sprintf("%d%s", streak, suffix)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
