// Package ratings computes time-weighted power ratings and model
// projections from multi-window team efficiency metrics.
package ratings

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

// Weights are the per-window blending weights for the composite rating.
// They are sport-specific configuration, not derived values.
type Weights struct {
	Season   float64 `mapstructure:"season"`
	Last15   float64 `mapstructure:"last_15"`
	Last5    float64 `mapstructure:"last_5"`
	LastGame float64 `mapstructure:"last_game"`
}

// weightSumTolerance bounds the acceptable drift from 1.0.
const weightSumTolerance = 0.001

// Validate checks that the weights sum to 1.0 within tolerance. An invalid
// weight set is a fatal configuration error, surfaced at construction.
func (w Weights) Validate() error {
	total := w.Season + w.Last15 + w.Last5 + w.LastGame
	if math.Abs(total-1.0) >= weightSumTolerance {
		return fmt.Errorf("rating weights must sum to 1.0, got %v", total)
	}
	return nil
}

// Config holds the sport-specific constants the engine needs.
type Config struct {
	Sport     string
	Weights   Weights
	HomeCourt float64 // points added to the home side of a model spread
	// ScaleMax is the ceiling of the two-sided rating scale used by the
	// total approximation (200 for a per-100-possessions basis).
	ScaleMax float64
}

// Engine converts team profiles into power ratings and model lines.
type Engine struct {
	cfg    Config
	logger *logrus.Logger
}

// NewEngine validates the weight set and returns an engine. Weight
// validation failure is fatal configuration, never a per-call error.
func NewEngine(cfg Config, logger *logrus.Logger) (*Engine, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s rating config: %w", cfg.Sport, err)
	}
	if cfg.ScaleMax == 0 {
		cfg.ScaleMax = 200
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// windowValues holds one metric resolved across all four windows.
type windowValues struct {
	season, last15, last5, last1 float64
}

// resolveWindows applies the fallback chain last_1 -> last_5 -> last_15 ->
// season to a single metric accessor. Using one resolver for every metric
// guarantees the fallback order is identical across net, off, def and pace.
func resolveWindows(p *models.TeamProfile, metric func(*models.TeamWindowMetrics) float64) windowValues {
	v := windowValues{season: metric(p.Season)}
	v.last15 = v.season
	if p.Last15 != nil {
		v.last15 = metric(p.Last15)
	}
	v.last5 = v.last15
	if p.Last5 != nil {
		v.last5 = metric(p.Last5)
	}
	v.last1 = v.last5
	if p.Last1 != nil {
		v.last1 = metric(p.Last1)
	}
	return v
}

func (e *Engine) weighted(v windowValues) float64 {
	w := e.cfg.Weights
	return w.Season*v.season + w.Last15*v.last15 + w.Last5*v.last5 + w.LastGame*v.last1
}

// ComputeRatings derives a power rating for every ratable team. Teams with
// no season window cannot be rated and are excluded.
func (e *Engine) ComputeRatings(profiles map[string]models.TeamProfile) map[string]models.PowerRating {
	out := make(map[string]models.PowerRating, len(profiles))

	for key, prof := range profiles {
		if prof.Season == nil {
			e.logger.WithFields(logrus.Fields{
				"team":  key,
				"sport": e.cfg.Sport,
			}).Debug("Skipping team with no season data")
			continue
		}

		net := resolveWindows(&prof, func(m *models.TeamWindowMetrics) float64 { return m.NetRating })
		off := resolveWindows(&prof, func(m *models.TeamWindowMetrics) float64 { return m.OffRating })
		def := resolveWindows(&prof, func(m *models.TeamWindowMetrics) float64 { return m.DefRating })
		pace := resolveWindows(&prof, func(m *models.TeamWindowMetrics) float64 { return m.Pace })

		rating := models.PowerRating{
			TeamName:     prof.TeamName,
			TeamAbbr:     prof.TeamAbbr,
			Sport:        e.cfg.Sport,
			SeasonNet:    round2(net.season),
			Last15Net:    round2(net.last15),
			Last5Net:     round2(net.last5),
			Last1Net:     round2(net.last1),
			WeightedNet:  round2(e.weighted(net)),
			WeightedOff:  round2(e.weighted(off)),
			WeightedDef:  round2(e.weighted(def)),
			WeightedPace: round2(e.weighted(pace)),
			TrendingUp:   net.last15 > net.season,
			HotStreak:    net.last5 > net.last15 && net.last15 > net.season,
			CoolingOff:   net.last5 < net.last15 && net.last15 < net.season,
			RegimeShift:  round2(net.last15 - net.season),
			SeasonRecord: prof.Season.Record(),
		}
		if prof.Last15 != nil {
			rating.RecentRecord = prof.Last15.Record()
		}
		out[key] = rating
	}

	return out
}

// ModelSpread projects the spread for a matchup from the rating difference
// plus home court, injury and rest adjustments. Positive favors team A.
func (e *Engine) ModelSpread(a, b *models.PowerRating, homeTeam string, injuryAdj, restAdj float64) float64 {
	raw := a.WeightedNet - b.WeightedNet

	switch strings.ToUpper(homeTeam) {
	case strings.ToUpper(a.TeamAbbr):
		raw += e.cfg.HomeCourt
	case strings.ToUpper(b.TeamAbbr):
		raw -= e.cfg.HomeCourt
	}

	raw += injuryAdj
	raw += restAdj
	return round1(raw)
}

// ModelTotal estimates total points from pace and efficiency. This is a
// coarse approximation (each side scores the midpoint of its offense and
// the opponent's defensive allowance, scaled by expected possessions),
// not a possession simulation.
func (e *Engine) ModelTotal(a, b *models.PowerRating) float64 {
	paceFactor := (a.WeightedPace + b.WeightedPace) / 2 / 100.0
	aScores := (a.WeightedOff + (e.cfg.ScaleMax - b.WeightedDef)) / 2 * paceFactor
	bScores := (b.WeightedOff + (e.cfg.ScaleMax - a.WeightedDef)) / 2 * paceFactor
	return round1(aScores + bScores)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
