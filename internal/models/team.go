package models

import "fmt"

// Window identifies the time slice a set of team metrics was computed over.
type Window string

const (
	WindowSeason Window = "season"
	WindowLast15 Window = "last_15"
	WindowLast5  Window = "last_5"
	WindowLast1  Window = "last_1"
)

// Windows lists all windows from broadest to narrowest.
func Windows() []Window {
	return []Window{WindowSeason, WindowLast15, WindowLast5, WindowLast1}
}

// TeamWindowMetrics holds per-100-possession efficiency numbers for a single
// team over a single time window. Snapshots are immutable; a refresh cycle
// produces a fresh set rather than mutating the old one.
type TeamWindowMetrics struct {
	TeamID      int     `json:"team_id"`
	TeamName    string  `json:"team_name"`
	TeamAbbr    string  `json:"team_abbr"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	OffRating   float64 `json:"off_rating"`
	DefRating   float64 `json:"def_rating"`
	NetRating   float64 `json:"net_rating"`
	Pace        float64 `json:"pace"`
	TSPct       float64 `json:"ts_pct"`
	EFGPct      float64 `json:"efg_pct"`
	Window      Window  `json:"window"`
}

// Record formats the win-loss record for the window.
func (m *TeamWindowMetrics) Record() string {
	return fmt.Sprintf("%d-%d", m.Wins, m.Losses)
}

// TeamProfile collects all time-window snapshots for one team. Windows that
// the stats provider could not supply are nil, not zero-valued.
type TeamProfile struct {
	TeamID   int                `json:"team_id"`
	TeamName string             `json:"team_name"`
	TeamAbbr string             `json:"team_abbr"`
	Season   *TeamWindowMetrics `json:"season"`
	Last15   *TeamWindowMetrics `json:"last_15"`
	Last5    *TeamWindowMetrics `json:"last_5"`
	Last1    *TeamWindowMetrics `json:"last_1"`
}

// Metrics returns the snapshot for the given window, nil when absent.
func (p *TeamProfile) Metrics(w Window) *TeamWindowMetrics {
	switch w {
	case WindowSeason:
		return p.Season
	case WindowLast15:
		return p.Last15
	case WindowLast5:
		return p.Last5
	case WindowLast1:
		return p.Last1
	}
	return nil
}

// SetMetrics stores the snapshot for the given window.
func (p *TeamProfile) SetMetrics(w Window, m *TeamWindowMetrics) {
	switch w {
	case WindowSeason:
		p.Season = m
	case WindowLast15:
		p.Last15 = m
	case WindowLast5:
		p.Last5 = m
	case WindowLast1:
		p.Last1 = m
	}
}
