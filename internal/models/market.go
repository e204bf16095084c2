package models

import (
	"time"

	"github.com/wheelz27/sharp-sniper/internal/oddsmath"
)

// BookLine is a single bookmaker's quote for one game. A zero spread or
// total means the book has not posted that market.
type BookLine struct {
	Bookmaker        string    `json:"bookmaker"`
	SpreadHome       float64   `json:"spread_home"`
	SpreadAway       float64   `json:"spread_away"`
	SpreadHomePrice  int       `json:"spread_home_price"` // American odds
	SpreadAwayPrice  int       `json:"spread_away_price"`
	Total            float64   `json:"total"`
	TotalOverPrice   int       `json:"total_over_price"`
	TotalUnderPrice  int       `json:"total_under_price"`
	MoneylineHome    int       `json:"ml_home"`
	MoneylineAway    int       `json:"ml_away"`
	Updated          time.Time `json:"updated"`
}

// GameOdds is a read-only snapshot of every book's lines for one game.
type GameOdds struct {
	GameID       string     `json:"game_id"`
	Sport        string     `json:"sport"`
	CommenceTime time.Time  `json:"commence_time"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	Books        []BookLine `json:"books"`
}

// ConsensusSpreadHome averages the home spread across books that have
// posted one. Zero means no spread is on the board.
func (g *GameOdds) ConsensusSpreadHome() float64 {
	var sum float64
	var n int
	for _, b := range g.Books {
		if b.SpreadHome != 0 {
			sum += b.SpreadHome
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ConsensusTotal averages the posted totals across books.
func (g *GameOdds) ConsensusTotal() float64 {
	var sum float64
	var n int
	for _, b := range g.Books {
		if b.Total != 0 {
			sum += b.Total
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SharpestSpreadHome prefers the sharpest available book in order,
// falling back to the consensus when none of them quote the game.
func (g *GameOdds) SharpestSpreadHome(preference []string) float64 {
	for _, preferred := range preference {
		for _, b := range g.Books {
			if b.Bookmaker == preferred && b.SpreadHome != 0 {
				return b.SpreadHome
			}
		}
	}
	return g.ConsensusSpreadHome()
}

// HomeImpliedProb derives the home win probability from the average
// moneyline across books. Defaults to 0.5 when no moneyline is posted.
func (g *GameOdds) HomeImpliedProb() float64 {
	var sum float64
	var n int
	for _, b := range g.Books {
		if b.MoneylineHome != 0 {
			sum += float64(b.MoneylineHome)
			n++
		}
	}
	if n == 0 {
		return 0.5
	}
	prob, err := oddsmath.AmericanToImpliedProbability(int(sum / float64(n)))
	if err != nil {
		return 0.5
	}
	return prob
}

// HasLines reports whether any market is posted for the game.
func (g *GameOdds) HasLines() bool {
	return g.ConsensusSpreadHome() != 0 || g.ConsensusTotal() != 0
}
