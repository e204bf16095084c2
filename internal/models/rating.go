package models

import "fmt"

// Regime shift thresholds used purely for the human-readable label.
const (
	regimeShiftMinor = 1.5
	regimeShiftMajor = 3.0
)

// PowerRating is the derived time-weighted rating for one team. Ratings are
// recomputed wholesale on every refresh and superseded, never merged.
type PowerRating struct {
	TeamName string `json:"team_name"`
	TeamAbbr string `json:"team_abbr"`
	Sport    string `json:"sport"`

	// Per-window net ratings after fallback resolution.
	SeasonNet float64 `json:"season_net"`
	Last15Net float64 `json:"last_15_net"`
	Last5Net  float64 `json:"last_5_net"`
	Last1Net  float64 `json:"last_1_net"`

	// Weighted composites.
	WeightedNet  float64 `json:"weighted_net"`
	WeightedOff  float64 `json:"weighted_off"`
	WeightedDef  float64 `json:"weighted_def"`
	WeightedPace float64 `json:"weighted_pace"`

	// Trend indicators. Evaluated independently; HotStreak implies
	// TrendingUp but the fields are not collapsed.
	TrendingUp  bool    `json:"trending_up"`  // last_15 > season
	HotStreak   bool    `json:"hot_streak"`   // last_5 > last_15 > season
	CoolingOff  bool    `json:"cooling_off"`  // last_5 < last_15 < season
	RegimeShift float64 `json:"regime_shift"` // last_15_net - season_net

	SeasonRecord string `json:"season_record,omitempty"`
	RecentRecord string `json:"recent_record,omitempty"`
}

// TrendLabel returns the single headline trend for display.
func (r *PowerRating) TrendLabel() string {
	switch {
	case r.HotStreak:
		return "HOT"
	case r.TrendingUp:
		return "TRENDING UP"
	case r.CoolingOff:
		return "COOLING"
	default:
		return "STABLE"
	}
}

// RegimeShiftLabel classifies the season vs last-15 shift. Presentational
// only; no downstream numeric effect.
func (r *PowerRating) RegimeShiftLabel() string {
	switch {
	case r.RegimeShift >= -regimeShiftMinor && r.RegimeShift <= regimeShiftMinor:
		return "Stable"
	case r.RegimeShift > regimeShiftMajor:
		return fmt.Sprintf("MAJOR SHIFT UP (+%.1f)", r.RegimeShift)
	case r.RegimeShift > regimeShiftMinor:
		return fmt.Sprintf("Shift up (+%.1f)", r.RegimeShift)
	case r.RegimeShift < -regimeShiftMajor:
		return fmt.Sprintf("MAJOR SHIFT DOWN (%.1f)", r.RegimeShift)
	default:
		return fmt.Sprintf("Shift down (%.1f)", r.RegimeShift)
	}
}
