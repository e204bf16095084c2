package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func board(books ...BookLine) GameOdds {
	return GameOdds{
		GameID:   "g1",
		Sport:    "nba",
		HomeTeam: "San Antonio Spurs",
		AwayTeam: "Los Angeles Lakers",
		Books:    books,
	}
}

func TestConsensusSkipsUnpostedMarkets(t *testing.T) {
	g := board(
		BookLine{Bookmaker: "fanduel", SpreadHome: -4.0, Total: 224.0},
		BookLine{Bookmaker: "draftkings", SpreadHome: -5.0, Total: 225.0},
		BookLine{Bookmaker: "betmgm"}, // nothing posted yet
	)

	assert.InDelta(t, -4.5, g.ConsensusSpreadHome(), 0.001)
	assert.InDelta(t, 224.5, g.ConsensusTotal(), 0.001)

	empty := board()
	assert.Zero(t, empty.ConsensusSpreadHome())
	assert.Zero(t, empty.ConsensusTotal())
	assert.False(t, empty.HasLines())
	assert.True(t, g.HasLines())
}

func TestSharpestSpreadPreference(t *testing.T) {
	preference := []string{"pinnacle", "fanduel", "draftkings"}

	g := board(
		BookLine{Bookmaker: "draftkings", SpreadHome: -5.0},
		BookLine{Bookmaker: "fanduel", SpreadHome: -4.0},
		BookLine{Bookmaker: "pinnacle", SpreadHome: -4.5},
	)
	assert.InDelta(t, -4.5, g.SharpestSpreadHome(preference), 0.001)

	// Without the sharpest book the next preference wins.
	g2 := board(
		BookLine{Bookmaker: "draftkings", SpreadHome: -5.0},
		BookLine{Bookmaker: "fanduel", SpreadHome: -4.0},
	)
	assert.InDelta(t, -4.0, g2.SharpestSpreadHome(preference), 0.001)

	// No preferred book at all: consensus fallback.
	g3 := board(
		BookLine{Bookmaker: "betmgm", SpreadHome: -3.0},
		BookLine{Bookmaker: "caesars", SpreadHome: -4.0},
	)
	assert.InDelta(t, -3.5, g3.SharpestSpreadHome(preference), 0.001)
}

func TestHomeImpliedProb(t *testing.T) {
	g := board(
		BookLine{Bookmaker: "fanduel", MoneylineHome: -180},
		BookLine{Bookmaker: "draftkings", MoneylineHome: -180},
	)
	// -180 implies 180/280.
	assert.InDelta(t, 0.6429, g.HomeImpliedProb(), 0.001)

	// No moneyline posted: neutral default.
	empty := board()
	assert.InDelta(t, 0.5, empty.HomeImpliedProb(), 0.0001)
}

func TestEdgeResultHeadline(t *testing.T) {
	playable := EdgeResult{
		AwayTeam:   "LAL",
		HomeTeam:   "SAS",
		SpreadEdge: -2.5,
		EVPct:      6.2,
		Confidence: TierStrong,
		PlaySide:   PlaySideHome,
		IsPlayable: true,
	}
	assert.Equal(t, "STRONG SAS | Edge: 2.5 pts | EV: +6.2%", playable.Headline())

	noPlay := EdgeResult{AwayTeam: "LAL", HomeTeam: "SAS"}
	assert.Equal(t, "LAL @ SAS - NO EDGE", noPlay.Headline())
}

func TestConfidenceTierRank(t *testing.T) {
	assert.Greater(t, TierHigh.Rank(), TierStrong.Rank())
	assert.Greater(t, TierStrong.Rank(), TierModerate.Rank())
	assert.Greater(t, TierModerate.Rank(), TierLow.Rank())
	assert.Equal(t, 0, ConfidenceTier("garbage").Rank())
}
