package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/repository"
)

// MockPickRepository mocks pick repository
type MockPickRepository struct {
	mock.Mock
}

func (m *MockPickRepository) Create(ctx context.Context, pick *models.PickRecord) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockPickRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PickRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PickRecord), args.Error(1)
}

func (m *MockPickRepository) Grade(ctx context.Context, id uuid.UUID, update repository.GradeUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockPickRepository) GetPending(ctx context.Context) ([]*models.PickRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PickRecord), args.Error(1)
}

func (m *MockPickRepository) List(ctx context.Context, filter repository.PickFilter) ([]*models.PickRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PickRecord), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestLogPickAssignsIDAndPending(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.PickRecord")).Return(nil)

	pick := &models.PickRecord{
		Sport:     "nba",
		AwayTeam:  "LAL",
		HomeTeam:  "SAS",
		PlaySide:  models.PlaySideHome,
		BetType:   models.BetTypeSpread,
		LineTaken: -4.0,
		OddsTaken: -110,
	}

	id, err := tracker.LogPick(context.Background(), pick)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, models.PickResultPending, pick.Result)
	assert.True(t, pick.Units.Equal(decimal.NewFromInt(1)), "defaults to 1 unit")
	repo.AssertExpectations(t)
}

func TestGradePickCLVConvention(t *testing.T) {
	// CLV is closing - taken on both sides. Took SAS -4.0, closed -5.5:
	// the market moved toward the home side, CLV -1.5 by the raw
	// convention even though the move favoured the pick.
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	id := uuid.New()
	pending := &models.PickRecord{
		ID:        id,
		Sport:     "nba",
		AwayTeam:  "LAL",
		HomeTeam:  "SAS",
		PlaySide:  models.PlaySideHome,
		LineTaken: -4.0,
		OddsTaken: -110,
		Units:     decimal.NewFromInt(1),
		Result:    models.PickResultPending,
	}

	repo.On("GetByID", mock.Anything, id).Return(pending, nil)
	repo.On("Grade", mock.Anything, id, mock.MatchedBy(func(u repository.GradeUpdate) bool {
		return u.CLV == -1.5 && u.Result == models.PickResultWin
	})).Return(nil)

	err := tracker.GradePick(context.Background(), id, -5.5, models.PickResultWin)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGradePickProfitFromAmericanOdds(t *testing.T) {
	tests := []struct {
		name     string
		result   models.PickResult
		units    decimal.Decimal
		odds     int
		expected string
	}{
		{"win at -110", models.PickResultWin, decimal.NewFromInt(1), -110, "0.91"},
		{"win at +150", models.PickResultWin, decimal.NewFromInt(2), 150, "3.00"},
		{"loss loses stake", models.PickResultLoss, decimal.NewFromInt(2), -110, "-2.00"},
		{"push returns zero", models.PickResultPush, decimal.NewFromInt(1), -110, "0.00"},
		{"zero odds yield nothing", models.PickResultWin, decimal.NewFromInt(1), 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profitUnits(tt.result, tt.units, tt.odds)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestReportRoundingIsSymmetric(t *testing.T) {
	assert.InDelta(t, 66.7, round1(66.666), 0.0001)
	assert.InDelta(t, -66.7, round1(-66.666), 0.0001)
	assert.InDelta(t, 0.91, round2(0.9091), 0.0001)
	assert.InDelta(t, -0.91, round2(-0.9091), 0.0001)
	assert.InDelta(t, 1e15, round2(1e15), 1)
}

func TestGradePickRejectsRegrade(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	id := uuid.New()
	gradedAt := time.Now()
	graded := &models.PickRecord{
		ID:       id,
		Result:   models.PickResultWin,
		GradedAt: &gradedAt,
	}
	repo.On("GetByID", mock.Anything, id).Return(graded, nil)

	err := tracker.GradePick(context.Background(), id, -5.0, models.PickResultLoss)
	assert.ErrorIs(t, err, models.ErrAlreadyGraded)
	repo.AssertNotCalled(t, "Grade", mock.Anything, mock.Anything, mock.Anything)
}

func TestGradePickRejectsInvalidResult(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	err := tracker.GradePick(context.Background(), uuid.New(), -5.0, "cancelled")
	assert.ErrorIs(t, err, models.ErrInvalidResult)
}

func TestGradePickMissingPick(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, models.ErrNotFound)

	err := tracker.GradePick(context.Background(), id, -5.0, models.PickResultWin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func gradedPick(result models.PickResult, units, profit float64, clv float64, tier models.ConfidenceTier, age time.Duration) *models.PickRecord {
	c := clv
	gradedAt := time.Now().Add(-age)
	return &models.PickRecord{
		ID:          uuid.New(),
		CreatedAt:   time.Now().Add(-age),
		Sport:       "nba",
		Result:      result,
		Units:       decimal.NewFromFloat(units),
		ProfitUnits: decimal.NewFromFloat(profit),
		CLV:         &c,
		Confidence:  tier,
		GradedAt:    &gradedAt,
	}
}

func TestPerformanceReportAggregation(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	// Newest first, matching List ordering.
	picks := []*models.PickRecord{
		gradedPick(models.PickResultWin, 1, 0.91, 1.0, models.TierStrong, time.Hour),
		gradedPick(models.PickResultPush, 1, 0, 0.5, models.TierModerate, 2*time.Hour),
		gradedPick(models.PickResultWin, 1, 0.91, -0.5, models.TierStrong, 3*time.Hour),
		gradedPick(models.PickResultLoss, 1, -1.0, 1.5, models.TierHigh, 4*time.Hour),
	}

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.PickFilter) bool {
		return f.GradedOnly
	})).Return(picks, nil)

	summary, err := tracker.PerformanceReport(context.Background(), ReportFilter{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalPicks)
	assert.Equal(t, "2-1-1", summary.Record())
	assert.InDelta(t, 66.7, summary.WinRatePct, 0.05)
	assert.Equal(t, "4", summary.UnitsWagered.String())
	assert.Equal(t, "0.82", summary.UnitsProfit.StringFixed(2))
	assert.InDelta(t, 20.5, summary.ROIPct, 0.01)

	// CLV: (1.0 + 0.5 - 0.5 + 1.5) / 4 of nonzero values.
	assert.InDelta(t, 0.63, summary.AvgCLV, 0.01)
	assert.InDelta(t, 75.0, summary.CLVPositivePct, 0.01)

	// Two wins then a push (skipped) then... push is newest-2; the walk
	// is W, push skipped, W, then L breaks it.
	assert.Equal(t, "2W", summary.Streak)

	strong := summary.ByConfidence[models.TierStrong]
	require.NotNil(t, strong)
	assert.Equal(t, 2, strong.Picks)
	assert.Equal(t, 2, strong.Wins)
	assert.Equal(t, "1.82", strong.Profit.StringFixed(2))
}

func TestPerformanceReportEmpty(t *testing.T) {
	repo := new(MockPickRepository)
	tracker := NewTracker(repo, testLogger())

	repo.On("List", mock.Anything, mock.Anything).Return([]*models.PickRecord{}, nil)

	summary, err := tracker.PerformanceReport(context.Background(), ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalPicks)
	assert.Equal(t, "0", summary.Streak)
	assert.Equal(t, "No graded picks yet.", FormatReport(summary, ReportFilter{}))
}

func TestCurrentStreakSkipsPushes(t *testing.T) {
	picks := []*models.PickRecord{
		{Result: models.PickResultPush},
		{Result: models.PickResultLoss},
		{Result: models.PickResultPush},
		{Result: models.PickResultLoss},
		{Result: models.PickResultWin},
	}
	assert.Equal(t, "2L", currentStreak(picks))

	assert.Equal(t, "0", currentStreak([]*models.PickRecord{{Result: models.PickResultPush}}))
	assert.Equal(t, "0", currentStreak(nil))
}

func TestFormatReportContainsHeadlines(t *testing.T) {
	summary := &PerformanceSummary{
		TotalPicks:     3,
		Wins:           2,
		Losses:         1,
		WinRatePct:     66.7,
		UnitsWagered:   decimal.NewFromInt(3),
		UnitsProfit:    decimal.NewFromFloat(0.82),
		ROIPct:         27.33,
		AvgCLV:         0.8,
		CLVPositivePct: 66.7,
		Streak:         "2W",
		ByConfidence: map[models.ConfidenceTier]*TierStats{
			models.TierStrong: {Picks: 2, Wins: 2, Profit: decimal.NewFromFloat(1.82)},
		},
	}

	out := FormatReport(summary, ReportFilter{Sport: "nba", Days: 30})
	assert.Contains(t, out, "PERFORMANCE REPORT")
	assert.Contains(t, out, "NBA")
	assert.Contains(t, out, "Last 30 days")
	assert.Contains(t, out, "2-1-0")
	assert.Contains(t, out, "+0.82u")
	assert.Contains(t, out, "Streak:    2W")
	assert.Contains(t, out, "STRONG")
}
