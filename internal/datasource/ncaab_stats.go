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

// barttorvikWindows maps rating windows to a trailing date range. Barttorvik
// filters by game date rather than game count, so the recency windows are
// approximated in calendar days. There is no last-game table; the rating
// fallback chain absorbs the missing window.
var barttorvikWindows = []struct {
	window models.Window
	days   int
}{
	{models.WindowSeason, 0},
	{models.WindowLast15, 30},
	{models.WindowLast5, 12},
}

// NCAABStatsClient pulls college team efficiency tables from barttorvik.com.
// Profiles are keyed by full team name; college feeds have no stable
// abbreviation scheme.
type NCAABStatsClient struct {
	cfg    *config.StatsAPIConfig
	http   *RateLimitedHTTPClient
	cache  *cache.Cache
	logger *logrus.Logger
	now    func() time.Time
}

// NewNCAABStatsClient creates a new barttorvik.com client
func NewNCAABStatsClient(cfg *config.StatsAPIConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NCAABStatsClient {
	ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
	return &NCAABStatsClient{
		cfg:    cfg,
		http:   httpClient,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the name of the provider
func (c *NCAABStatsClient) Name() string {
	return "ncaab-stats"
}

// FetchTeamProfiles pulls the efficiency table for each window and assembles
// per-team profiles keyed by full team name. Recency windows that fail are
// left nil for the rating fallback chain; only a missing season table fails
// the whole fetch.
func (c *NCAABStatsClient) FetchTeamProfiles(ctx context.Context) (map[string]models.TeamProfile, error) {
	const cacheKey = "team_profiles"
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(map[string]models.TeamProfile), nil
	}

	profiles := make(map[string]models.TeamProfile)

	for _, w := range barttorvikWindows {
		rows, err := c.fetchWindow(ctx, w.days)
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
			prof, ok := profiles[m.TeamName]
			if !ok {
				prof = models.TeamProfile{
					TeamName: m.TeamName,
					TeamAbbr: m.TeamAbbr,
				}
			}
			snapshot := m
			prof.SetMetrics(w.window, &snapshot)
			profiles[m.TeamName] = prof
		}
	}

	c.cache.Set(cacheKey, profiles, cache.DefaultExpiration)
	c.logger.WithField("teams", len(profiles)).Info("Fetched team profiles")

	return profiles, nil
}

// fetchWindow pulls one team-tables-json table. days of zero means full
// season; otherwise the window covers the trailing N calendar days.
func (c *NCAABStatsClient) fetchWindow(ctx context.Context, days int) ([]models.TeamWindowMetrics, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(c.cfg.NCAABSeason))
	params.Set("conyes", "All")
	params.Set("type", "pointed")
	if days > 0 {
		end := c.now()
		start := end.AddDate(0, 0, -days)
		params.Set("start", start.Format("20060102"))
		params.Set("end", end.Format("20060102"))
	}

	endpoint := fmt.Sprintf("%s/team-tables-json?%s", c.cfg.NCAABBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

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

	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		metrics.RecordProviderError(c.Name())
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse team table", err)
	}

	return parseBarttorvikRows(rows), nil
}

// parseBarttorvikRows extracts metrics from the positional row arrays the
// team-tables-json endpoint returns. Column positions are fixed: 0 team
// name, 3 games, 5 adjusted offense, 7 adjusted defense, 9 tempo, 11 eFG%.
func parseBarttorvikRows(rows [][]interface{}) []models.TeamWindowMetrics {
	at := func(row []interface{}, i int) interface{} {
		if i >= len(row) {
			return nil
		}
		return row[i]
	}

	out := make([]models.TeamWindowMetrics, 0, len(rows))
	for _, row := range rows {
		name := asString(at(row, 0))
		if name == "" {
			continue
		}
		off := asFloat(at(row, 5))
		def := asFloat(at(row, 7))

		out = append(out, models.TeamWindowMetrics{
			TeamName:    name,
			TeamAbbr:    name,
			GamesPlayed: asInt(at(row, 3)),
			OffRating:   off,
			DefRating:   def,
			NetRating:   off - def,
			Pace:        asFloat(at(row, 9)),
			EFGPct:      asFloat(at(row, 11)),
		})
	}
	return out
}
