package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/config"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

// sportKeys maps internal sport names to The Odds API sport keys.
var sportKeys = map[string]string{
	"nba":   "basketball_nba",
	"ncaab": "basketball_ncaab",
	"nfl":   "americanfootball_nfl",
	"ncaaf": "americanfootball_ncaaf",
	"mlb":   "baseball_mlb",
	"nhl":   "icehockey_nhl",
}

// OddsAPIClient pulls spreads, totals and moneylines from The Odds API.
// Responses are cached because the free tier allows 500 requests a
// month; each scan should cost at most one request per sport.
type OddsAPIClient struct {
	cfg    *config.OddsAPIConfig
	http   *RateLimitedHTTPClient
	cache  *cache.Cache
	logger *logrus.Logger

	remainingRequests string
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(cfg *config.OddsAPIConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *OddsAPIClient {
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	return &OddsAPIClient{
		cfg:    cfg,
		http:   httpClient,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Name returns the name of the provider
func (c *OddsAPIClient) Name() string {
	return "the-odds-api"
}

// oddsEvent mirrors The Odds API event payload.
type oddsEvent struct {
	ID           string    `json:"id"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	Bookmakers   []struct {
		Key        string    `json:"key"`
		LastUpdate time.Time `json:"last_update"`
		Markets    []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string  `json:"name"`
				Point float64 `json:"point"`
				Price int     `json:"price"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// FetchOdds retrieves the current board for a sport. Provider failures
// return an empty board with the error; cached boards short-circuit the
// request entirely.
func (c *OddsAPIClient) FetchOdds(ctx context.Context, sport string) ([]models.GameOdds, error) {
	if cached, found := c.cache.Get(sport); found {
		return cached.([]models.GameOdds), nil
	}

	sportKey, ok := sportKeys[sport]
	if !ok {
		sportKey = sport
	}

	params := url.Values{}
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("regions", c.cfg.Regions)
	params.Set("markets", c.cfg.Markets)
	params.Set("bookmakers", strings.Join(c.cfg.Bookmakers, ","))
	params.Set("oddsFormat", "american")

	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.cfg.BaseURL, sportKey, params.Encode())

	start := time.Now()
	resp, err := c.http.Get(ctx, endpoint)
	metrics.ProviderRequestDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeAuthenticationFailed, "invalid API key", nil)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	// The free-tier quota headers are the only place usage shows up.
	c.remainingRequests = resp.Header.Get("x-requests-remaining")
	if c.remainingRequests != "" {
		c.logger.WithField("remaining", c.remainingRequests).Debug("Odds API quota")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to read response", err)
	}

	var events []oddsEvent
	if err := json.Unmarshal(body, &events); err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	games := c.parseEvents(events, sport)
	c.cache.Set(sport, games, cache.DefaultExpiration)

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"games": len(games),
	}).Info("Fetched odds board")

	return games, nil
}

// parseEvents flattens the nested bookmaker/market/outcome payload into
// per-book lines.
func (c *OddsAPIClient) parseEvents(events []oddsEvent, sport string) []models.GameOdds {
	games := make([]models.GameOdds, 0, len(events))

	for _, ev := range events {
		game := models.GameOdds{
			GameID:       ev.ID,
			Sport:        sport,
			CommenceTime: ev.CommenceTime,
			HomeTeam:     ev.HomeTeam,
			AwayTeam:     ev.AwayTeam,
		}

		for _, bm := range ev.Bookmakers {
			line := models.BookLine{
				Bookmaker: bm.Key,
				Updated:   bm.LastUpdate,
			}

			for _, market := range bm.Markets {
				switch market.Key {
				case "spreads":
					for _, o := range market.Outcomes {
						if o.Name == ev.HomeTeam {
							line.SpreadHome = o.Point
							line.SpreadHomePrice = o.Price
						} else {
							line.SpreadAway = o.Point
							line.SpreadAwayPrice = o.Price
						}
					}
				case "totals":
					for _, o := range market.Outcomes {
						if o.Name == "Over" {
							line.Total = o.Point
							line.TotalOverPrice = o.Price
						} else {
							line.TotalUnderPrice = o.Price
						}
					}
				case "h2h":
					for _, o := range market.Outcomes {
						if o.Name == ev.HomeTeam {
							line.MoneylineHome = o.Price
						} else {
							line.MoneylineAway = o.Price
						}
					}
				}
			}

			game.Books = append(game.Books, line)
		}

		games = append(games, game)
	}

	return games
}

// RequestsRemaining reports the free-tier quota from the last response.
func (c *OddsAPIClient) RequestsRemaining() string {
	return c.remainingRequests
}
