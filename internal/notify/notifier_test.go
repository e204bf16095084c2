package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	logger.SetOutput(io.Discard)
	return logger
}

func samplePlays() []models.EdgeResult {
	return []models.EdgeResult{
		{
			AwayTeam:         "LAL",
			HomeTeam:         "SAS",
			Sport:            "nba",
			MarketSpreadHome: -4.0,
			SpreadEdge:       -2.5,
			EVPct:            6.2,
			Confidence:       models.TierStrong,
			PlaySide:         models.PlaySideHome,
			IsPlayable:       true,
		},
		{
			AwayTeam:         "BOS",
			HomeTeam:         "MIA",
			Sport:            "nba",
			MarketSpreadHome: 3.5,
			SpreadEdge:       1.8,
			EVPct:            3.4,
			Confidence:       models.TierModerate,
			PlaySide:         models.PlaySideAway,
			IsPlayable:       true,
		},
	}
}

func TestDiscordNotifierPostsEmbed(t *testing.T) {
	var captured discordPayload
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, testLogger())
	err := n.AlertPlays(context.Background(), "nba", samplePlays())
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, "SHARP SNIPER", captured.Username)
	require.Len(t, captured.Embeds, 1)

	embed := captured.Embeds[0]
	assert.Equal(t, "2 new nba plays identified", embed.Title)
	assert.Equal(t, "Combined edge: 4.3 pts", embed.Description)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "1. STRONG SAS (-4.0)", embed.Fields[0].Name)
	assert.Equal(t, "LAL @ SAS | Edge: 2.5 pts | EV: +6.2%", embed.Fields[0].Value)
	assert.Equal(t, "2. MODERATE BOS (+3.5)", embed.Fields[1].Name)
}

func TestDiscordNotifierSkipsEmptyScan(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, testLogger())
	require.NoError(t, n.AlertPlays(context.Background(), "nba", nil))
	assert.Equal(t, 0, requests)
}

func TestDiscordNotifierSurfacesWebhookErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, testLogger())
	err := n.AlertPlays(context.Background(), "nba", samplePlays())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(testLogger())
	assert.NoError(t, n.AlertPlays(context.Background(), "nba", samplePlays()))
	assert.NoError(t, n.AlertPlays(context.Background(), "nba", nil))
}
