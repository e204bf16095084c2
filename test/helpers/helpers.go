// Package helpers provides shared fixtures for the integration and
// end-to-end suites: stub upstream APIs and canned pick records.
package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

// TeamFixture describes one team row served by the stats stub. The
// same numbers are returned for every rating window.
type TeamFixture struct {
	ID   int
	Name string
	Abbr string
	Off  float64
	Def  float64
	Pace float64
}

// NewStatsServer returns an httptest server that mimics the
// stats.nba.com leaguedashteamstats endpoint: a resultSets envelope
// with positional row tuples keyed by column headers.
func NewStatsServer(t *testing.T, teams []TeamFixture) *httptest.Server {
	t.Helper()

	headers := []string{
		"TEAM_ID", "TEAM_NAME", "TEAM_ABBREVIATION",
		"GP", "W", "L",
		"OFF_RATING", "DEF_RATING", "NET_RATING",
		"PACE", "TS_PCT", "EFG_PCT",
	}

	rows := make([][]interface{}, 0, len(teams))
	for _, tm := range teams {
		rows = append(rows, []interface{}{
			tm.ID, tm.Name, tm.Abbr,
			40, 25, 15,
			tm.Off, tm.Def, tm.Off - tm.Def,
			tm.Pace, 0.58, 0.55,
		})
	}

	payload := map[string]interface{}{
		"resultSets": []map[string]interface{}{
			{
				"name":    "LeagueDashTeamStats",
				"headers": headers,
				"rowSet":  rows,
			},
		},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/leaguedashteamstats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
}

// GameFixture describes one event on the odds stub's board. Spread is
// the home line at the sharp book; prices default to -110 juice.
type GameFixture struct {
	ID         string
	HomeTeam   string
	AwayTeam   string
	Bookmaker  string
	SpreadHome float64
	Total      float64
	MLHome     int
	MLAway     int
}

// NewOddsServer returns an httptest server that mimics The Odds API
// event payload for any /sports/{key}/odds request.
func NewOddsServer(t *testing.T, games []GameFixture) *httptest.Server {
	t.Helper()

	events := make([]map[string]interface{}, 0, len(games))
	for _, g := range games {
		events = append(events, map[string]interface{}{
			"id":            g.ID,
			"commence_time": time.Now().Add(6 * time.Hour).UTC().Format(time.RFC3339),
			"home_team":     g.HomeTeam,
			"away_team":     g.AwayTeam,
			"bookmakers": []map[string]interface{}{
				{
					"key":         g.Bookmaker,
					"last_update": time.Now().UTC().Format(time.RFC3339),
					"markets": []map[string]interface{}{
						{
							"key": "spreads",
							"outcomes": []map[string]interface{}{
								{"name": g.HomeTeam, "point": g.SpreadHome, "price": -110},
								{"name": g.AwayTeam, "point": -g.SpreadHome, "price": -110},
							},
						},
						{
							"key": "totals",
							"outcomes": []map[string]interface{}{
								{"name": "Over", "point": g.Total, "price": -110},
								{"name": "Under", "point": g.Total, "price": -110},
							},
						},
						{
							"key": "h2h",
							"outcomes": []map[string]interface{}{
								{"name": g.HomeTeam, "price": g.MLHome},
								{"name": g.AwayTeam, "price": g.MLAway},
							},
						},
					},
				},
			},
		})
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("x-requests-remaining", "480")
		require.NoError(t, json.NewEncoder(w).Encode(events))
	}))
}

// NewPickFixture builds an ungraded spread pick under a throwaway
// sport key so concurrent suite runs never see each other's rows.
func NewPickFixture(sport string, seq int) *models.PickRecord {
	return &models.PickRecord{
		Sport:        sport,
		AwayTeam:     "LAL",
		HomeTeam:     "SAS",
		PlaySide:     models.PlaySideHome,
		BetType:      models.BetTypeSpread,
		LineTaken:    -4.0,
		OddsTaken:    -110,
		ModelSpread:  -8.5,
		MarketSpread: -4.0,
		EdgePoints:   -4.5,
		Confidence:   models.TierStrong,
		Units:        decimal.NewFromFloat(1.0),
		Notes:        fmt.Sprintf("fixture pick %d", seq),
	}
}
