package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)

	// Registration is idempotent.
	assert.Same(t, registry, InitRegistry())
}

func TestScanCountersIncrement(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(GamesScannedTotal.WithLabelValues("nba"))
	RecordGameScanned("nba")
	RecordGameScanned("nba")
	after := testutil.ToFloat64(GamesScannedTotal.WithLabelValues("nba"))
	assert.InDelta(t, 2.0, after-before, 1e-9)

	beforeSkip := testutil.ToFloat64(GamesSkippedTotal.WithLabelValues("nba", "missing_rating"))
	RecordGameSkipped("nba", "missing_rating")
	afterSkip := testutil.ToFloat64(GamesSkippedTotal.WithLabelValues("nba", "missing_rating"))
	assert.InDelta(t, 1.0, afterSkip-beforeSkip, 1e-9)
}

func TestLedgerMetrics(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(PicksGradedTotal.WithLabelValues("win"))
	RecordPickGraded("win")
	after := testutil.ToFloat64(PicksGradedTotal.WithLabelValues("win"))
	assert.InDelta(t, 1.0, after-before, 1e-9)

	UpdatePendingPicks(7)
	assert.InDelta(t, 7.0, testutil.ToFloat64(PendingPicks), 1e-9)

	UpdateLedgerPerformance(12.5, 0.8)
	assert.InDelta(t, 12.5, testutil.ToFloat64(LedgerROIPct), 1e-9)
	assert.InDelta(t, 0.8, testutil.ToFloat64(LedgerAvgCLV), 1e-9)
}

func TestGaugeAndEdgeHelpersDoNotPanic(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordEdgeFound("nba", "STRONG")
		RecordQuarantine("nba")
		RecordPickLogged()
		RecordProviderError("the-odds-api")
		RecordCircuitBreakerTrip()
		RecordScanDuration("nba", 1.25)
		UpdateTeamsRated("nba", 30)
	})
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordGameScanned("nba")

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	Handler().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "sharp_sniper_games_scanned_total")
}
