// Package edge compares model projections to market lines and classifies
// the resulting mispricing.
package edge

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

// Thresholds are the sport-specific playability and tiering cutoffs.
type Thresholds struct {
	MinEdgePoints    float64 `mapstructure:"min_edge_points"`
	StrongEdgePoints float64 `mapstructure:"strong_edge_points"`
	MinEVPct         float64 `mapstructure:"min_ev_pct"`
	MaxPlaysPerDay   int     `mapstructure:"max_plays_per_day"`
}

// Guardrails bound the inputs the calculator will accept. Anything outside
// these limits is treated as a data error and quarantined, never traded.
type Guardrails struct {
	MaxEdgePoints   float64 `mapstructure:"max_edge_points"`   // larger disagreement = data error, not opportunity
	MaxSpreadAbs    float64 `mapstructure:"max_spread_abs"`    // no realistic spread exceeds this
	MinTotal        float64 `mapstructure:"min_total"`
	MaxTotal        float64 `mapstructure:"max_total"`
	MaxInjuryImpact float64 `mapstructure:"max_injury_impact"`
	MaxNetRating    float64 `mapstructure:"max_net_rating"`
	MinImpliedProb  float64 `mapstructure:"min_implied_prob"`
	MaxImpliedProb  float64 `mapstructure:"max_implied_prob"`
}

// DefaultGuardrails returns the standard production limits.
func DefaultGuardrails() Guardrails {
	return Guardrails{
		MaxEdgePoints:   10.0,
		MaxSpreadAbs:    30.0,
		MinTotal:        150.0,
		MaxTotal:        300.0,
		MaxInjuryImpact: 12.0,
		MaxNetRating:    25.0,
		MinImpliedProb:  0.01,
		MaxImpliedProb:  0.99,
	}
}

// Config holds everything the calculator needs. CalibrationK maps spread
// points to win probability; it is a calibration constant (8.0 for NBA,
// 9.5 for the higher-variance college game), not a derived value.
type Config struct {
	Sport        string
	Thresholds   Thresholds
	Guardrails   Guardrails
	CalibrationK float64
}

// Input carries one matchup's projections and market read. Spreads are
// home-perspective betting lines: negative = home favored.
type Input struct {
	AwayRating       *models.PowerRating
	HomeRating       *models.PowerRating
	ModelSpreadHome  float64
	ModelTotal       float64
	MarketSpreadHome float64
	MarketTotal      float64
	HomeImpliedProb  float64
	InjuryImpact     float64
	InjurySummaryAway string
	InjurySummaryHome string
}

// Outcome is a tagged result: either a genuine edge analysis or a
// quarantined record with a reason. The embedded EdgeResult of a
// quarantined outcome still reads as NO PLAY / not playable / LOW tier so
// a consumer that ignores the tag fails safe, but note those sentinel
// values are indistinguishable from a genuine low-confidence no-play;
// check Quarantined before interpreting the numbers.
type Outcome struct {
	Result      models.EdgeResult
	Quarantined bool
	Reason      string
}

// Calculator validates inputs, computes spread/total edges and EV, and
// assigns a confidence tier.
type Calculator struct {
	cfg    Config
	logger *logrus.Logger
}

// NewCalculator returns a calculator for one sport.
func NewCalculator(cfg Config, logger *logrus.Logger) *Calculator {
	if cfg.CalibrationK == 0 {
		cfg.CalibrationK = 8.0
	}
	if cfg.Guardrails == (Guardrails{}) {
		cfg.Guardrails = DefaultGuardrails()
	}
	return &Calculator{cfg: cfg, logger: logger}
}

// WinProb converts a home-perspective spread to a win probability with a
// logistic approximation: P = 1 / (1 + 10^(spread/k)). A spread of zero is
// exactly 0.5 for any calibration constant.
func (c *Calculator) WinProb(spread float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, spread/c.cfg.CalibrationK))
}

// expectedValuePct is (modelProb/marketProb - 1) * 100.
func expectedValuePct(modelProb, marketProb float64) float64 {
	if marketProb <= 0 {
		return 0
	}
	return math.Round((modelProb/marketProb-1)*100*100) / 100
}

// Compute runs validation, edge math and tiering for one matchup. It never
// returns an error: bad inputs quarantine the single game so a batch is
// never taken down by one corrupt line.
func (c *Calculator) Compute(in Input) Outcome {
	if reason := c.validate(in); reason != "" {
		c.logger.WithFields(logrus.Fields{
			"away":   in.AwayRating.TeamAbbr,
			"home":   in.HomeRating.TeamAbbr,
			"sport":  c.cfg.Sport,
			"reason": reason,
		}).Warn("Edge input validation failed, quarantining game")
		return c.quarantined(in, reason)
	}

	// Positive = home undervalued by the market.
	spreadEdge := in.ModelSpreadHome - in.MarketSpreadHome

	if math.Abs(spreadEdge) > c.cfg.Guardrails.MaxEdgePoints {
		reason := fmt.Sprintf("edge %.1f exceeds cap (%.1f), likely data error",
			spreadEdge, c.cfg.Guardrails.MaxEdgePoints)
		c.logger.WithFields(logrus.Fields{
			"away":   in.AwayRating.TeamAbbr,
			"home":   in.HomeRating.TeamAbbr,
			"model":  in.ModelSpreadHome,
			"market": in.MarketSpreadHome,
			"edge":   spreadEdge,
		}).Warn("Edge anomaly quarantined")
		return c.quarantined(in, reason)
	}

	totalEdge := in.ModelTotal - in.MarketTotal
	modelWinProbHome := c.WinProb(in.ModelSpreadHome)
	marketWinProbHome := math.Max(in.HomeImpliedProb, c.cfg.Guardrails.MinImpliedProb)

	// EV for the side the edge favors.
	var evPct float64
	if spreadEdge < 0 {
		evPct = expectedValuePct(modelWinProbHome, marketWinProbHome)
	} else {
		evPct = expectedValuePct(1-modelWinProbHome, 1-marketWinProbHome)
	}

	edgeAbs := math.Abs(spreadEdge)
	isPlayable := edgeAbs >= c.cfg.Thresholds.MinEdgePoints

	playSide := models.PlaySideNone
	if isPlayable {
		if spreadEdge < 0 {
			// Model has home more favored than the market does.
			playSide = models.PlaySideHome
		} else {
			playSide = models.PlaySideAway
		}
	}

	return Outcome{
		Result: models.EdgeResult{
			AwayTeam:          in.AwayRating.TeamAbbr,
			HomeTeam:          in.HomeRating.TeamAbbr,
			Sport:             c.cfg.Sport,
			AwayRating:        in.AwayRating.WeightedNet,
			HomeRating:        in.HomeRating.WeightedNet,
			AwayTrend:         in.AwayRating.TrendLabel(),
			HomeTrend:         in.HomeRating.TrendLabel(),
			ModelSpreadHome:   in.ModelSpreadHome,
			ModelTotal:        in.ModelTotal,
			MarketSpreadHome:  in.MarketSpreadHome,
			MarketTotal:       in.MarketTotal,
			HomeImpliedProb:   in.HomeImpliedProb,
			SpreadEdge:        round1(spreadEdge),
			TotalEdge:         round1(totalEdge),
			ModelWinProbHome:  round3(modelWinProbHome),
			EVPct:             evPct,
			InjuryImpact:      in.InjuryImpact,
			InjurySummaryAway: in.InjurySummaryAway,
			InjurySummaryHome: in.InjurySummaryHome,
			Confidence:        c.TierFor(edgeAbs),
			PlaySide:          playSide,
			IsPlayable:        isPlayable,
			AwayRegimeShift:   in.AwayRating.RegimeShift,
			HomeRegimeShift:   in.HomeRating.RegimeShift,
		},
	}
}

// TierFor maps edge magnitude to a confidence tier. Rules are ordered
// highest-priority-first; the first match wins and LOW is the default.
func (c *Calculator) TierFor(edgeAbs float64) models.ConfidenceTier {
	t := c.cfg.Thresholds
	switch {
	case edgeAbs >= t.StrongEdgePoints*1.5:
		return models.TierHigh
	case edgeAbs >= t.StrongEdgePoints:
		return models.TierStrong
	case edgeAbs >= t.MinEdgePoints:
		return models.TierModerate
	default:
		return models.TierLow
	}
}

// validate returns a human-readable reason string when any input fails the
// guardrails, empty when clean. It runs before any edge math.
func (c *Calculator) validate(in Input) string {
	g := c.cfg.Guardrails

	for _, v := range []struct {
		name string
		val  float64
	}{
		{"model_spread", in.ModelSpreadHome},
		{"market_spread", in.MarketSpreadHome},
		{"model_total", in.ModelTotal},
		{"market_total", in.MarketTotal},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return fmt.Sprintf("%s is not finite", v.name)
		}
	}

	if math.Abs(in.ModelSpreadHome) > g.MaxSpreadAbs {
		return fmt.Sprintf("model spread %.1f exceeds +/-%.0f", in.ModelSpreadHome, g.MaxSpreadAbs)
	}
	if math.Abs(in.MarketSpreadHome) > g.MaxSpreadAbs {
		return fmt.Sprintf("market spread %.1f exceeds +/-%.0f", in.MarketSpreadHome, g.MaxSpreadAbs)
	}
	if in.ModelTotal > 0 && (in.ModelTotal < g.MinTotal || in.ModelTotal > g.MaxTotal) {
		return fmt.Sprintf("model total %.1f outside range [%.0f, %.0f]", in.ModelTotal, g.MinTotal, g.MaxTotal)
	}
	if in.HomeImpliedProb < g.MinImpliedProb || in.HomeImpliedProb > g.MaxImpliedProb {
		return fmt.Sprintf("implied prob %.3f outside [%.2f, %.2f]", in.HomeImpliedProb, g.MinImpliedProb, g.MaxImpliedProb)
	}
	if math.Abs(in.InjuryImpact) > g.MaxInjuryImpact {
		return fmt.Sprintf("injury impact %.1f exceeds +/-%.0f", in.InjuryImpact, g.MaxInjuryImpact)
	}
	if math.Abs(in.AwayRating.WeightedNet) > g.MaxNetRating || math.Abs(in.HomeRating.WeightedNet) > g.MaxNetRating {
		return fmt.Sprintf("weighted net rating outside +/-%.0f range", g.MaxNetRating)
	}

	return ""
}

// quarantined builds the fail-safe outcome for bad inputs.
func (c *Calculator) quarantined(in Input, reason string) Outcome {
	return Outcome{
		Quarantined: true,
		Reason:      reason,
		Result: models.EdgeResult{
			AwayTeam:          in.AwayRating.TeamAbbr,
			HomeTeam:          in.HomeRating.TeamAbbr,
			Sport:             c.cfg.Sport,
			AwayRating:        in.AwayRating.WeightedNet,
			HomeRating:        in.HomeRating.WeightedNet,
			AwayTrend:         in.AwayRating.TrendLabel(),
			HomeTrend:         in.HomeRating.TrendLabel(),
			HomeImpliedProb:   0.5,
			ModelWinProbHome:  0.5,
			InjurySummaryAway: "QUARANTINED",
			InjurySummaryHome: reason,
			Confidence:        models.TierLow,
			PlaySide:          models.PlaySideNone,
			IsPlayable:        false,
		},
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
