// Package pipeline orchestrates one full scan: market board + power
// ratings + injury ledger in, ranked edges out.
package pipeline

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/edge"
	"github.com/wheelz27/sharp-sniper/internal/injury"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/ratings"
)

// Diagnostics counts what happened to every game on the board during a
// scan. A board where nothing survives to evaluation is visible here,
// not an error.
type Diagnostics struct {
	GamesSeen     int `json:"games_seen"`
	GamesWithData int `json:"games_with_data"`
	EdgesProduced int `json:"edges_produced"`
	Quarantined   int `json:"quarantined"`
}

// Pipeline evaluates a board of games against power ratings.
type Pipeline struct {
	sport      string
	engine     *ratings.Engine
	calc       *edge.Calculator
	injuries   *injury.Ledger
	sharpBooks []string
	logger     *logrus.Logger
}

// NewPipeline wires the evaluation components for one sport.
func NewPipeline(sport string, engine *ratings.Engine, calc *edge.Calculator, injuries *injury.Ledger, sharpBooks []string, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		sport:      sport,
		engine:     engine,
		calc:       calc,
		injuries:   injuries,
		sharpBooks: sharpBooks,
		logger:     logger,
	}
}

// Engine exposes the rating engine so callers can rate the league once and
// feed the same map to every evaluation.
func (p *Pipeline) Engine() *ratings.Engine { return p.engine }

// EvaluateAll computes an edge outcome for every evaluable game on the
// board. Games with a missing rating or no posted line are skipped with
// a diagnostic log; a batch is never failed by individual games. The
// returned slice preserves board order.
func (p *Pipeline) EvaluateAll(ctx context.Context, games []models.GameOdds, ratingMap map[string]models.PowerRating) ([]edge.Outcome, Diagnostics) {
	var diag Diagnostics
	outcomes := make([]edge.Outcome, 0, len(games))

	for i := range games {
		if ctx.Err() != nil {
			p.logger.WithField("games_remaining", len(games)-i).Warn("Scan cancelled mid-board")
			break
		}
		game := &games[i]
		diag.GamesSeen++
		metrics.RecordGameScanned(p.sport)

		awayKey := ResolveTeamKey(p.sport, game.AwayTeam)
		homeKey := ResolveTeamKey(p.sport, game.HomeTeam)

		awayRating, awayOK := ratingMap[awayKey]
		homeRating, homeOK := ratingMap[homeKey]
		if !awayOK || !homeOK {
			p.logger.WithFields(logrus.Fields{
				"away": game.AwayTeam,
				"home": game.HomeTeam,
			}).Info("Skipping game with missing rating")
			metrics.RecordGameSkipped(p.sport, "missing_rating")
			continue
		}

		if !game.HasLines() {
			p.logger.WithFields(logrus.Fields{
				"away": game.AwayTeam,
				"home": game.HomeTeam,
			}).Debug("Skipping game with no posted lines")
			metrics.RecordGameSkipped(p.sport, "no_lines")
			continue
		}
		diag.GamesWithData++

		outcome := p.evaluate(game, &awayRating, &homeRating, awayKey, homeKey)
		if outcome.Quarantined {
			diag.Quarantined++
			metrics.RecordQuarantine(p.sport)
		} else if outcome.Result.IsPlayable {
			metrics.RecordEdgeFound(p.sport, string(outcome.Result.Confidence))
		}
		diag.EdgesProduced++
		outcomes = append(outcomes, outcome)
	}

	p.logger.WithFields(logrus.Fields{
		"sport":       p.sport,
		"seen":        diag.GamesSeen,
		"with_data":   diag.GamesWithData,
		"evaluated":   diag.EdgesProduced,
		"quarantined": diag.Quarantined,
	}).Info("Board evaluated")

	return outcomes, diag
}

// evaluate runs injury differential, model projections and the edge
// calculator for one game.
func (p *Pipeline) evaluate(game *models.GameOdds, awayRating, homeRating *models.PowerRating, awayKey, homeKey string) edge.Outcome {
	injuryAdj := p.injuries.MatchupDifferential(homeKey, awayKey)

	// ModelSpread returns a home margin (positive = home favored); the
	// market quotes home-perspective betting lines (negative = home
	// favored). Negate so both sides of the edge share one convention.
	modelSpreadHome := -p.engine.ModelSpread(homeRating, awayRating, homeKey, injuryAdj, 0)
	modelTotal := p.engine.ModelTotal(homeRating, awayRating)

	return p.calc.Compute(edge.Input{
		AwayRating:        awayRating,
		HomeRating:        homeRating,
		ModelSpreadHome:   modelSpreadHome,
		ModelTotal:        modelTotal,
		MarketSpreadHome:  game.SharpestSpreadHome(p.sharpBooks),
		MarketTotal:       game.ConsensusTotal(),
		HomeImpliedProb:   game.HomeImpliedProb(),
		InjuryImpact:      injuryAdj,
		InjurySummaryAway: p.injuries.Summary(awayKey),
		InjurySummaryHome: p.injuries.Summary(homeKey),
	})
}

// AnalyzeMatchup evaluates a single matchup against caller-supplied
// market numbers, for ad-hoc inspection outside a board scan. The
// supplied quote is wrapped as a one-book board so the same evaluation
// path runs end to end.
func (p *Pipeline) AnalyzeMatchup(homeKey, awayKey string, ratingMap map[string]models.PowerRating, marketSpreadHome, marketTotal float64, moneylineHome int) (edge.Outcome, bool) {
	awayRating, awayOK := ratingMap[awayKey]
	homeRating, homeOK := ratingMap[homeKey]
	if !awayOK || !homeOK {
		return edge.Outcome{}, false
	}

	game := models.GameOdds{
		Sport:    p.sport,
		AwayTeam: TeamFullName(p.sport, awayKey),
		HomeTeam: TeamFullName(p.sport, homeKey),
		Books: []models.BookLine{{
			Bookmaker:     "manual",
			SpreadHome:    marketSpreadHome,
			SpreadAway:    -marketSpreadHome,
			Total:         marketTotal,
			MoneylineHome: moneylineHome,
		}},
	}
	return p.evaluate(&game, &awayRating, &homeRating, awayKey, homeKey), true
}

// Rank filters to playable edges, sorts descending by edge magnitude
// and truncates to maxPlays. The sort is stable so equal edges keep
// board order, which keeps a rerun over the same board deterministic.
func Rank(outcomes []edge.Outcome, maxPlays int) []models.EdgeResult {
	playable := make([]models.EdgeResult, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Quarantined && o.Result.IsPlayable {
			playable = append(playable, o.Result)
		}
	}

	sort.SliceStable(playable, func(i, j int) bool {
		return playable[i].EdgeAbs() > playable[j].EdgeAbs()
	})

	if maxPlays > 0 && len(playable) > maxPlays {
		playable = playable[:maxPlays]
	}
	return playable
}
