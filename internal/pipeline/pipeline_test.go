package pipeline

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelz27/sharp-sniper/internal/edge"
	"github.com/wheelz27/sharp-sniper/internal/injury"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/ratings"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	engine, err := ratings.NewEngine(ratings.Config{
		Sport:     "nba",
		Weights:   ratings.Weights{Season: 0.55, Last15: 0.25, Last5: 0.15, LastGame: 0.05},
		HomeCourt: 2.5,
	}, logger)
	require.NoError(t, err)

	calc := edge.NewCalculator(edge.Config{
		Sport: "nba",
		Thresholds: edge.Thresholds{
			MinEdgePoints:    1.5,
			StrongEdgePoints: 3.0,
			MinEVPct:         3.0,
			MaxPlaysPerDay:   5,
		},
		CalibrationK: 8.0,
	}, logger)

	return NewPipeline("nba", engine, calc, injury.NewLedger(injury.DefaultTables()), nil, logger)
}

func rating(abbr string, net float64) models.PowerRating {
	return models.PowerRating{
		TeamAbbr:     abbr,
		Sport:        "nba",
		WeightedNet:  net,
		WeightedOff:  115,
		WeightedDef:  112,
		WeightedPace: 100,
	}
}

func spursLakersBoard() []models.GameOdds {
	return []models.GameOdds{
		{
			GameID:   "g1",
			Sport:    "nba",
			AwayTeam: "Los Angeles Lakers",
			HomeTeam: "San Antonio Spurs",
			Books: []models.BookLine{{
				Bookmaker:     "pinnacle",
				SpreadHome:    -4.0,
				SpreadAway:    4.0,
				Total:         224.0,
				MoneylineHome: -180,
				MoneylineAway: 155,
			}},
		},
	}
}

func TestEvaluateAllHappyPath(t *testing.T) {
	p := testPipeline(t)
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
		"LAL": rating("LAL", 1.0),
	}

	outcomes, diag := p.EvaluateAll(context.Background(), spursLakersBoard(), ratingMap)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 1, diag.GamesSeen)
	assert.Equal(t, 1, diag.GamesWithData)
	assert.Equal(t, 1, diag.EdgesProduced)
	assert.Equal(t, 0, diag.Quarantined)

	result := outcomes[0].Result
	require.False(t, outcomes[0].Quarantined)

	// Model margin (5.0-1.0)+2.5 = 6.5 home, so the model line is -6.5
	// against a -4.0 market: home is undervalued by 2.5.
	assert.InDelta(t, -6.5, result.ModelSpreadHome, 0.001)
	assert.InDelta(t, -2.5, result.SpreadEdge, 0.001)
	assert.True(t, result.IsPlayable)
	assert.Equal(t, models.PlaySideHome, result.PlaySide)
	assert.Equal(t, models.TierModerate, result.Confidence)
	assert.Equal(t, "SAS", result.HomeTeam)
	assert.Equal(t, "LAL", result.AwayTeam)
}

func TestEvaluateAllPrefersSharpBookLine(t *testing.T) {
	p := testPipeline(t)
	p.sharpBooks = []string{"pinnacle"}
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
		"LAL": rating("LAL", 1.0),
	}

	board := spursLakersBoard()
	board[0].Books = append(board[0].Books, models.BookLine{
		Bookmaker:     "squarebook",
		SpreadHome:    -6.0,
		SpreadAway:    6.0,
		Total:         224.0,
		MoneylineHome: -180,
		MoneylineAway: 155,
	})

	outcomes, _ := p.EvaluateAll(context.Background(), board, ratingMap)
	require.Len(t, outcomes, 1)

	// Pinnacle's -4.0 wins over the -5.0 consensus of the two books.
	assert.InDelta(t, -4.0, outcomes[0].Result.MarketSpreadHome, 0.001)
	assert.InDelta(t, -2.5, outcomes[0].Result.SpreadEdge, 0.001)
}

func TestEvaluateAllFallsBackToConsensusWithoutSharpQuote(t *testing.T) {
	p := testPipeline(t)
	p.sharpBooks = []string{"circa"}
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
		"LAL": rating("LAL", 1.0),
	}

	outcomes, _ := p.EvaluateAll(context.Background(), spursLakersBoard(), ratingMap)
	require.Len(t, outcomes, 1)
	assert.InDelta(t, -4.0, outcomes[0].Result.MarketSpreadHome, 0.001)
}

func TestEvaluateAllSkipsMissingRating(t *testing.T) {
	p := testPipeline(t)
	// Only the home side is rated.
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
	}

	outcomes, diag := p.EvaluateAll(context.Background(), spursLakersBoard(), ratingMap)
	assert.Empty(t, outcomes)
	assert.Equal(t, 1, diag.GamesSeen)
	assert.Equal(t, 0, diag.GamesWithData)
}

func TestEvaluateAllSkipsNoLines(t *testing.T) {
	p := testPipeline(t)
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
		"LAL": rating("LAL", 1.0),
	}

	board := []models.GameOdds{{
		Sport:    "nba",
		AwayTeam: "Los Angeles Lakers",
		HomeTeam: "San Antonio Spurs",
	}}

	outcomes, diag := p.EvaluateAll(context.Background(), board, ratingMap)
	assert.Empty(t, outcomes)
	assert.Equal(t, 1, diag.GamesSeen)
	assert.Equal(t, 0, diag.GamesWithData)
}

func TestEvaluateAllEmptyBoard(t *testing.T) {
	p := testPipeline(t)

	outcomes, diag := p.EvaluateAll(context.Background(), nil, map[string]models.PowerRating{})
	assert.Empty(t, outcomes)
	assert.Equal(t, Diagnostics{}, diag)
}

func TestEvaluateAllStopsOnCancel(t *testing.T) {
	p := testPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, diag := p.EvaluateAll(ctx, spursLakersBoard(), map[string]models.PowerRating{})
	assert.Empty(t, outcomes)
	assert.Equal(t, 0, diag.GamesSeen)
}

func TestAnalyzeMatchup(t *testing.T) {
	p := testPipeline(t)
	ratingMap := map[string]models.PowerRating{
		"SAS": rating("SAS", 5.0),
		"LAL": rating("LAL", 1.0),
	}

	outcome, ok := p.AnalyzeMatchup("SAS", "LAL", ratingMap, -4.0, 224.0, -180)
	require.True(t, ok)
	assert.InDelta(t, -2.5, outcome.Result.SpreadEdge, 0.001)
	assert.Equal(t, models.PlaySideHome, outcome.Result.PlaySide)

	_, ok = p.AnalyzeMatchup("SAS", "BOS", ratingMap, -4.0, 224.0, -180)
	assert.False(t, ok)
}

func playableOutcome(away, home string, spreadEdge float64) edge.Outcome {
	return edge.Outcome{Result: models.EdgeResult{
		AwayTeam:   away,
		HomeTeam:   home,
		SpreadEdge: spreadEdge,
		IsPlayable: true,
	}}
}

func TestRankOrdersByMagnitudeAndTruncates(t *testing.T) {
	outcomes := []edge.Outcome{
		playableOutcome("A", "B", -2.0),
		playableOutcome("C", "D", 3.5),
		{Result: models.EdgeResult{AwayTeam: "E", HomeTeam: "F", SpreadEdge: 9.0}, Quarantined: true},
		playableOutcome("G", "H", -3.5),
		{Result: models.EdgeResult{AwayTeam: "I", HomeTeam: "J", SpreadEdge: 0.5}},
	}

	ranked := Rank(outcomes, 2)
	require.Len(t, ranked, 2)

	// Equal magnitudes keep board order: C-D before G-H.
	assert.Equal(t, "C", ranked[0].AwayTeam)
	assert.Equal(t, "G", ranked[1].AwayTeam)
}

func TestRankIsIdempotent(t *testing.T) {
	outcomes := []edge.Outcome{
		playableOutcome("A", "B", -2.0),
		playableOutcome("C", "D", 3.5),
		playableOutcome("G", "H", -3.5),
	}

	first := Rank(outcomes, 5)
	second := Rank(outcomes, 5)
	assert.Equal(t, first, second)
}

func TestResolveTeamKey(t *testing.T) {
	assert.Equal(t, "SAS", ResolveTeamKey("nba", "San Antonio Spurs"))
	assert.Equal(t, "LAL", ResolveTeamKey("nba", "Los Angeles Lakers"))
	// Unknown NBA names degrade to a visible best-effort code.
	assert.Equal(t, "SEA", ResolveTeamKey("nba", "Seattle SuperSonics"))
	// College feeds key by full name.
	assert.Equal(t, "Gonzaga Bulldogs", ResolveTeamKey("ncaab", "Gonzaga Bulldogs"))

	assert.Equal(t, "San Antonio Spurs", TeamFullName("nba", "SAS"))
	assert.Equal(t, "XXX", TeamFullName("nba", "XXX"))
}
