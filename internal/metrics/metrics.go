// Package metrics provides the centralized Prometheus metrics registry for
// the edge pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesScannedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "games_scanned_total",
		Help:      "Total number of games evaluated by the pipeline",
	}, []string{"sport"})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped for missing ratings or lines",
	}, []string{"sport", "reason"})
	EdgesFoundTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "edges_found_total",
		Help:      "Total number of playable edges flagged",
	}, []string{"sport", "tier"})
	QuarantinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "quarantines_total",
		Help:      "Total number of games quarantined by data guardrails",
	}, []string{"sport"})
	PicksLoggedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "picks_logged_total",
		Help:      "Total number of picks written to the ledger",
	})
	PicksGradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "picks_graded_total",
		Help:      "Total number of picks graded",
	}, []string{"result"})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "provider_errors_total",
		Help:      "Total number of upstream provider failures",
	}, []string{"provider"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_sniper",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of HTTP circuit breaker trips",
	})
)

// Gauge metrics
var (
	TeamsRated = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_sniper",
		Name:      "teams_rated",
		Help:      "Number of teams with a computed power rating",
	}, []string{"sport"})
	PendingPicks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_sniper",
		Name:      "pending_picks",
		Help:      "Number of picks awaiting grading",
	})
	LedgerROIPct = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_sniper",
		Name:      "ledger_roi_pct",
		Help:      "All-time return on investment percentage",
	})
	LedgerAvgCLV = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_sniper",
		Name:      "ledger_avg_clv",
		Help:      "Average closing line value in points across graded picks",
	})
)

// Histogram metrics
var (
	ScanDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharp_sniper",
		Name:      "scan_duration_seconds",
		Help:      "Duration of a full pipeline scan in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"sport"})
	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharp_sniper",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of upstream provider requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(GamesScannedTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(EdgesFoundTotal)
		registry.MustRegister(QuarantinesTotal)
		registry.MustRegister(PicksLoggedTotal)
		registry.MustRegister(PicksGradedTotal)
		registry.MustRegister(ProviderErrorsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		// Register gauge metrics
		registry.MustRegister(TeamsRated)
		registry.MustRegister(PendingPicks)
		registry.MustRegister(LedgerROIPct)
		registry.MustRegister(LedgerAvgCLV)

		// Register histogram metrics
		registry.MustRegister(ScanDuration)
		registry.MustRegister(ProviderRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordGameScanned records one evaluated game.
func RecordGameScanned(sport string) {
	GamesScannedTotal.WithLabelValues(sport).Inc()
}

// RecordGameSkipped records a skipped game with its reason.
func RecordGameSkipped(sport, reason string) {
	GamesSkippedTotal.WithLabelValues(sport, reason).Inc()
}

// RecordEdgeFound records a playable edge by confidence tier.
func RecordEdgeFound(sport, tier string) {
	EdgesFoundTotal.WithLabelValues(sport, tier).Inc()
}

// RecordQuarantine records a guardrail quarantine.
func RecordQuarantine(sport string) {
	QuarantinesTotal.WithLabelValues(sport).Inc()
}

// RecordPickLogged records a pick written to the ledger.
func RecordPickLogged() {
	PicksLoggedTotal.Inc()
}

// RecordPickGraded records a graded pick by result.
func RecordPickGraded(result string) {
	PicksGradedTotal.WithLabelValues(result).Inc()
}

// RecordProviderError records an upstream provider failure.
func RecordProviderError(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// RecordScanDuration records a full scan duration.
func RecordScanDuration(sport string, seconds float64) {
	ScanDuration.WithLabelValues(sport).Observe(seconds)
}

// UpdateTeamsRated updates the rated-teams gauge.
func UpdateTeamsRated(sport string, count float64) {
	TeamsRated.WithLabelValues(sport).Set(count)
}

// UpdatePendingPicks updates the pending picks gauge.
func UpdatePendingPicks(count float64) {
	PendingPicks.Set(count)
}

// UpdateLedgerPerformance updates the ROI and CLV gauges.
func UpdateLedgerPerformance(roiPct, avgCLV float64) {
	LedgerROIPct.Set(roiPct)
	LedgerAvgCLV.Set(avgCLV)
}
