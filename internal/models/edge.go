package models

import "fmt"

// PlaySide identifies which side of the market an edge points at.
type PlaySide string

const (
	PlaySideHome  PlaySide = "HOME"
	PlaySideAway  PlaySide = "AWAY"
	PlaySideOver  PlaySide = "OVER"
	PlaySideUnder PlaySide = "UNDER"
	PlaySideNone  PlaySide = "NO PLAY"
)

// ConfidenceTier grades edge strength. Ordering is explicit via Rank, not
// string comparison.
type ConfidenceTier string

const (
	TierHigh     ConfidenceTier = "HIGH"
	TierStrong   ConfidenceTier = "STRONG"
	TierModerate ConfidenceTier = "MODERATE"
	TierLow      ConfidenceTier = "LOW"
)

// Rank returns the tier's ordering, higher is stronger.
func (t ConfidenceTier) Rank() int {
	switch t {
	case TierHigh:
		return 3
	case TierStrong:
		return 2
	case TierModerate:
		return 1
	default:
		return 0
	}
}

// EdgeResult is the full model-vs-market comparison for one game.
// Constructed fresh per evaluation, never mutated.
type EdgeResult struct {
	AwayTeam string `json:"away_team"`
	HomeTeam string `json:"home_team"`
	Sport    string `json:"sport"`

	AwayRating float64 `json:"away_rating"`
	HomeRating float64 `json:"home_rating"`
	AwayTrend  string  `json:"away_trend"`
	HomeTrend  string  `json:"home_trend"`

	// Spreads are home-perspective betting lines: negative = home favored.
	ModelSpreadHome  float64 `json:"model_spread_home"`
	ModelTotal       float64 `json:"model_total"`
	MarketSpreadHome float64 `json:"market_spread_home"`
	MarketTotal      float64 `json:"market_total"`
	HomeImpliedProb  float64 `json:"home_implied_prob"`

	// SpreadEdge = model - market. Negative = home undervalued by the
	// market, positive = away undervalued.
	SpreadEdge       float64 `json:"spread_edge"`
	TotalEdge        float64 `json:"total_edge"`
	ModelWinProbHome float64 `json:"model_win_prob_home"`
	EVPct            float64 `json:"ev_pct"`

	InjuryImpact      float64 `json:"injury_impact"`
	InjurySummaryAway string  `json:"injury_summary_away"`
	InjurySummaryHome string  `json:"injury_summary_home"`

	Confidence ConfidenceTier `json:"confidence"`
	PlaySide   PlaySide       `json:"play_side"`
	IsPlayable bool           `json:"is_playable"`

	AwayRegimeShift float64 `json:"away_regime_shift"`
	HomeRegimeShift float64 `json:"home_regime_shift"`
}

// EdgeAbs is the magnitude of the spread edge.
func (e *EdgeResult) EdgeAbs() float64 {
	if e.SpreadEdge < 0 {
		return -e.SpreadEdge
	}
	return e.SpreadEdge
}

// PlayTeam returns the team on the flagged side, empty for NO PLAY.
func (e *EdgeResult) PlayTeam() string {
	switch e.PlaySide {
	case PlaySideHome:
		return e.HomeTeam
	case PlaySideAway:
		return e.AwayTeam
	}
	return ""
}

// Headline is a one-line summary for scanning ranked output.
func (e *EdgeResult) Headline() string {
	if !e.IsPlayable {
		return fmt.Sprintf("%s @ %s - NO EDGE", e.AwayTeam, e.HomeTeam)
	}
	return fmt.Sprintf("%s %s | Edge: %.1f pts | EV: %+.1f%%",
		e.Confidence, e.PlayTeam(), e.EdgeAbs(), e.EVPct)
}
