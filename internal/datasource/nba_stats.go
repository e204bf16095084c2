package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/config"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

// nbaHeaders are required by stats.nba.com; requests without a browser
// profile get silently dropped.
var nbaHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Referer":            "https://www.nba.com/",
	"Origin":             "https://www.nba.com",
	"Accept":             "application/json",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

// statsWindows maps each rating window to the LastNGames parameter.
var statsWindows = []struct {
	window models.Window
	lastN  int
}{
	{models.WindowSeason, 0},
	{models.WindowLast15, 15},
	{models.WindowLast5, 5},
	{models.WindowLast1, 1},
}

// NBAStatsClient pulls team advanced stats from stats.nba.com across the
// four rating windows.
type NBAStatsClient struct {
	cfg    *config.StatsAPIConfig
	http   *RateLimitedHTTPClient
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewNBAStatsClient creates a new stats.nba.com client
func NewNBAStatsClient(cfg *config.StatsAPIConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NBAStatsClient {
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	return &NBAStatsClient{
		cfg:    cfg,
		http:   httpClient,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Name returns the name of the provider
func (c *NBAStatsClient) Name() string {
	return "nba-stats"
}

// statsResponse mirrors the resultSets envelope every stats.nba.com
// endpoint uses: column headers plus row tuples.
type statsResponse struct {
	ResultSets []struct {
		Name    string          `json:"name"`
		Headers []string        `json:"headers"`
		RowSet  [][]interface{} `json:"rowSet"`
	} `json:"resultSets"`
}

// FetchTeamProfiles pulls the advanced team table for every window and
// assembles per-team profiles keyed by abbreviation. Windows that fail
// to fetch are left nil so the rating fallback chain absorbs them; only
// a missing season window fails the whole fetch.
func (c *NBAStatsClient) FetchTeamProfiles(ctx context.Context) (map[string]models.TeamProfile, error) {
	const cacheKey = "team_profiles"
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(map[string]models.TeamProfile), nil
	}

	profiles := make(map[string]models.TeamProfile)

	for _, w := range statsWindows {
		rows, err := c.fetchWindow(ctx, w.lastN)
		if err != nil {
			if w.window == models.WindowSeason {
				return nil, fmt.Errorf("failed to fetch season stats: %w", err)
			}
			c.logger.WithError(err).WithField("window", w.window).
				Warn("Window fetch failed, rating fallback will cover it")
			continue
		}

		for _, m := range rows {
			m.Window = w.window
			prof, ok := profiles[m.TeamAbbr]
			if !ok {
				prof = models.TeamProfile{
					TeamID:   m.TeamID,
					TeamName: m.TeamName,
					TeamAbbr: m.TeamAbbr,
				}
			}
			snapshot := m
			prof.SetMetrics(w.window, &snapshot)
			profiles[m.TeamAbbr] = prof
		}
	}

	c.cache.Set(cacheKey, profiles, cache.DefaultExpiration)
	c.logger.WithField("teams", len(profiles)).Info("Fetched team profiles")

	return profiles, nil
}

// fetchWindow pulls one leaguedashteamstats table. lastN of zero means
// full season.
func (c *NBAStatsClient) fetchWindow(ctx context.Context, lastN int) ([]models.TeamWindowMetrics, error) {
	params := url.Values{}
	params.Set("LastNGames", strconv.Itoa(lastN))
	params.Set("LeagueID", "00")
	params.Set("MeasureType", "Advanced")
	params.Set("Month", "0")
	params.Set("OpponentTeamID", "0")
	params.Set("PaceAdjust", "N")
	params.Set("PerMode", "PerGame")
	params.Set("Period", "0")
	params.Set("PlusMinus", "N")
	params.Set("Rank", "N")
	params.Set("Season", c.cfg.Season)
	params.Set("SeasonType", "Regular Season")
	params.Set("TeamID", "0")

	endpoint := fmt.Sprintf("%s/leaguedashteamstats?%s", c.cfg.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range nbaHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	metrics.ProviderRequestDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to read response", err)
	}

	var payload statsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse resultSets", err)
	}
	if len(payload.ResultSets) == 0 {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "empty resultSets", nil)
	}

	return parseTeamRows(payload.ResultSets[0].Headers, payload.ResultSets[0].RowSet), nil
}

// parseTeamRows joins the positional rowSet tuples back to their column
// names and extracts the metrics the rating engine consumes.
func parseTeamRows(headers []string, rows [][]interface{}) []models.TeamWindowMetrics {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}

	out := make([]models.TeamWindowMetrics, 0, len(rows))
	for _, row := range rows {
		get := func(col string) interface{} {
			i, ok := idx[col]
			if !ok || i >= len(row) {
				return nil
			}
			return row[i]
		}

		out = append(out, models.TeamWindowMetrics{
			TeamID:      asInt(get("TEAM_ID")),
			TeamName:    asString(get("TEAM_NAME")),
			TeamAbbr:    asString(get("TEAM_ABBREVIATION")),
			GamesPlayed: asInt(get("GP")),
			Wins:        asInt(get("W")),
			Losses:      asInt(get("L")),
			OffRating:   asFloat(get("OFF_RATING")),
			DefRating:   asFloat(get("DEF_RATING")),
			NetRating:   asFloat(get("NET_RATING")),
			Pace:        asFloat(get("PACE")),
			TSPct:       asFloat(get("TS_PCT")),
			EFGPct:      asFloat(get("EFG_PCT")),
		})
	}
	return out
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

func asInt(v interface{}) int {
	return int(asFloat(v))
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}
