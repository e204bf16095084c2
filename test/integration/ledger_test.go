//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelz27/sharp-sniper/internal/database"
	"github.com/wheelz27/sharp-sniper/internal/ledger"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/repository"
	"github.com/wheelz27/sharp-sniper/test/helpers"
)

// These tests exercise the full pick lifecycle against a running
// Postgres: log, grade, report. SetupTestDB skips when no database is
// reachable. Each run uses a throwaway sport key so reruns and
// parallel suites never collide.

func testSportKey() string {
	return "it-" + uuid.New().String()[:8]
}

func newTracker(t *testing.T) (*ledger.Tracker, *database.DB) {
	t.Helper()

	db := database.SetupTestDB(t)
	repo := repository.NewPostgresPickRepository(db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return ledger.NewTracker(repo, logger), db
}

func TestPickLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tracker, db := newTracker(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()
	sport := testSportKey()

	pick := helpers.NewPickFixture(sport, 1)
	id, err := tracker.LogPick(ctx, pick)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	pending, err := tracker.PendingPicks(ctx)
	require.NoError(t, err)
	found := false
	for _, p := range pending {
		if p.ID == id {
			found = true
		}
	}
	assert.True(t, found, "logged pick should be pending")

	// Home -4.0 covered; the line closed at -6.0 so CLV is -2.0 points
	// of movement against the number taken.
	require.NoError(t, tracker.GradePick(ctx, id, -6.0, models.PickResultWin))

	err = tracker.GradePick(ctx, id, -6.0, models.PickResultWin)
	assert.ErrorIs(t, err, models.ErrAlreadyGraded)

	report, err := tracker.PerformanceReport(ctx, ledger.ReportFilter{Sport: sport})
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalPicks)
	assert.Equal(t, 1, report.Wins)
	assert.InDelta(t, 100.0, report.WinRatePct, 0.01)
	assert.InDelta(t, -2.0, report.AvgCLV, 0.01)
	assert.Equal(t, "0.91", report.UnitsProfit.StringFixed(2))
	assert.Equal(t, "1W", report.Streak)
}

func TestPerformanceReportAggregation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tracker, db := newTracker(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()
	sport := testSportKey()

	results := []models.PickResult{
		models.PickResultWin,
		models.PickResultWin,
		models.PickResultLoss,
		models.PickResultPush,
	}

	for i, result := range results {
		pick := helpers.NewPickFixture(sport, i)
		id, err := tracker.LogPick(ctx, pick)
		require.NoError(t, err)

		// Closing at -5.0 against a -4.0 line taken is -1.0 CLV every
		// time.
		require.NoError(t, tracker.GradePick(ctx, id, -5.0, result))
	}

	report, err := tracker.PerformanceReport(ctx, ledger.ReportFilter{Sport: sport})
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalPicks)
	assert.Equal(t, 2, report.Wins)
	assert.Equal(t, 1, report.Losses)
	assert.Equal(t, 1, report.Pushes)

	// Pushes are excluded from the win rate denominator.
	assert.InDelta(t, 66.7, report.WinRatePct, 0.01)

	// 2 wins at 0.91, 1 loss at -1.00, push flat.
	assert.Equal(t, "0.82", report.UnitsProfit.StringFixed(2))
	assert.Equal(t, "4.00", report.UnitsWagered.StringFixed(2))
	assert.InDelta(t, 20.5, report.ROIPct, 0.01)

	assert.InDelta(t, -1.0, report.AvgCLV, 0.01)
	assert.InDelta(t, 0.0, report.CLVPositivePct, 0.01)

	strong := report.ByConfidence[models.TierStrong]
	require.NotNil(t, strong)
	assert.Equal(t, 4, strong.Picks)
	assert.Equal(t, 2, strong.Wins)
}

func TestGradeRejectsBogusResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tracker, db := newTracker(t)
	defer database.TeardownTestDB(t, db)

	ctx := context.Background()

	pick := helpers.NewPickFixture(testSportKey(), 1)
	id, err := tracker.LogPick(ctx, pick)
	require.NoError(t, err)

	err = tracker.GradePick(ctx, id, -5.0, models.PickResult("covered"))
	assert.ErrorIs(t, err, models.ErrInvalidResult)

	err = tracker.GradePick(ctx, uuid.New(), -5.0, models.PickResultWin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListFiltersBySportAndGraded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tracker, db := newTracker(t)
	defer database.TeardownTestDB(t, db)

	repo := repository.NewPostgresPickRepository(db)
	ctx := context.Background()
	sport := testSportKey()

	var lastID uuid.UUID
	for i := 0; i < 3; i++ {
		pick := helpers.NewPickFixture(sport, i)
		pick.Notes = fmt.Sprintf("list fixture %d", i)
		id, err := tracker.LogPick(ctx, pick)
		require.NoError(t, err)
		lastID = id
	}
	require.NoError(t, tracker.GradePick(ctx, lastID, -5.0, models.PickResultWin))

	all, err := repo.List(ctx, repository.PickFilter{Sport: sport})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	graded, err := repo.List(ctx, repository.PickFilter{Sport: sport, GradedOnly: true})
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, lastID, graded[0].ID)
	assert.Equal(t, models.PickResultWin, graded[0].Result)
}
