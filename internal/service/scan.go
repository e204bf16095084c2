// Package service wires providers, the rating engine, the matchup pipeline,
// and the pick ledger into runnable workflows.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/config"
	"github.com/wheelz27/sharp-sniper/internal/datasource"
	"github.com/wheelz27/sharp-sniper/internal/edge"
	"github.com/wheelz27/sharp-sniper/internal/injury"
	"github.com/wheelz27/sharp-sniper/internal/ledger"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/notify"
	"github.com/wheelz27/sharp-sniper/internal/pipeline"
	"github.com/wheelz27/sharp-sniper/internal/ratings"
)

// spreadJuice is the standard price assumed when auto-logging spread picks.
const spreadJuice = -110

// SportScan is the outcome of scanning one sport's board.
type SportScan struct {
	Sport       string               `json:"sport"`
	Plays       []models.EdgeResult  `json:"plays"`
	Diagnostics pipeline.Diagnostics `json:"diagnostics"`
	Outcomes    []edge.Outcome       `json:"-"`
}

// ScanSummary is the result of one full scan across configured sports.
type ScanSummary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Sports    []SportScan   `json:"sports"`
}

// TotalPlays counts playable edges across all sports.
func (s *ScanSummary) TotalPlays() int {
	n := 0
	for i := range s.Sports {
		n += len(s.Sports[i].Plays)
	}
	return n
}

// ScanService runs the daily edge scan and the grading sweep.
type ScanService struct {
	cfg            *config.Config
	statsProviders map[string]datasource.TeamStatsProvider
	oddsProvider   datasource.MarketOddsProvider
	injuries       *injury.Ledger
	tracker        *ledger.Tracker
	notifier       notify.Notifier
	pipelines      map[string]*pipeline.Pipeline
	logger         *logrus.Logger
}

// NewScanService builds per-sport engines and pipelines from configuration.
// The tracker may be nil for database-less runs; auto-logging and the
// grading sweep then become no-ops.
func NewScanService(
	cfg *config.Config,
	statsProviders map[string]datasource.TeamStatsProvider,
	oddsProvider datasource.MarketOddsProvider,
	injuries *injury.Ledger,
	tracker *ledger.Tracker,
	notifier notify.Notifier,
	logger *logrus.Logger,
) (*ScanService, error) {
	pipelines := make(map[string]*pipeline.Pipeline, len(cfg.Pipeline.Sports))
	for _, sport := range cfg.Pipeline.Sports {
		sportCfg, err := cfg.Sport(sport)
		if err != nil {
			return nil, err
		}

		engine, err := ratings.NewEngine(ratings.Config{
			Sport:     sport,
			Weights:   sportCfg.Weights,
			HomeCourt: sportCfg.HomeCourt,
			ScaleMax:  sportCfg.ScaleMax,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s rating engine: %w", sport, err)
		}

		calc := edge.NewCalculator(edge.Config{
			Sport:        sport,
			Thresholds:   sportCfg.Thresholds,
			Guardrails:   cfg.Guardrails,
			CalibrationK: sportCfg.CalibrationK,
		}, logger)

		pipelines[sport] = pipeline.NewPipeline(sport, engine, calc, injuries, cfg.OddsAPI.SharpBooks, logger)
	}

	return &ScanService{
		cfg:            cfg,
		statsProviders: statsProviders,
		oddsProvider:   oddsProvider,
		injuries:       injuries,
		tracker:        tracker,
		notifier:       notifier,
		pipelines:      pipelines,
		logger:         logger,
	}, nil
}

// Scan evaluates every configured sport's board and returns the ranked
// plays. A sport without a stats provider or with a failed odds fetch is
// skipped so one bad feed never blanks the whole scan.
func (s *ScanService) Scan(ctx context.Context) (*ScanSummary, error) {
	summary := &ScanSummary{StartedAt: time.Now().UTC()}

	for _, sport := range s.cfg.Pipeline.Sports {
		sportStart := time.Now()

		scan, err := s.scanSport(ctx, sport)
		if err != nil {
			s.logger.WithError(err).WithField("sport", sport).Error("Sport scan failed")
			continue
		}

		metrics.RecordScanDuration(sport, time.Since(sportStart).Seconds())
		summary.Sports = append(summary.Sports, *scan)
	}

	summary.Duration = time.Since(summary.StartedAt)

	if len(summary.Sports) == 0 {
		return summary, fmt.Errorf("no sport produced a board")
	}

	s.logger.WithFields(logrus.Fields{
		"sports":   len(summary.Sports),
		"plays":    summary.TotalPlays(),
		"duration": summary.Duration.String(),
	}).Info("Scan complete")

	return summary, nil
}

func (s *ScanService) scanSport(ctx context.Context, sport string) (*SportScan, error) {
	stats, ok := s.statsProviders[sport]
	if !ok {
		return nil, fmt.Errorf("no team stats provider configured for %s", sport)
	}

	profiles, err := stats.FetchTeamProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team profiles: %w", err)
	}

	pipe := s.pipelines[sport]
	ratingMap := pipe.Engine().ComputeRatings(profiles)
	metrics.UpdateTeamsRated(sport, float64(len(ratingMap)))

	games, err := s.oddsProvider.FetchOdds(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds board: %w", err)
	}

	outcomes, diag := pipe.EvaluateAll(ctx, games, ratingMap)
	plays := pipeline.Rank(outcomes, s.cfg.Pipeline.MaxPlays)

	scan := &SportScan{
		Sport:       sport,
		Plays:       plays,
		Diagnostics: diag,
		Outcomes:    outcomes,
	}

	if s.cfg.Pipeline.AutoLogPicks && s.tracker != nil {
		s.autoLogPicks(ctx, scan)
	}

	if len(plays) >= s.cfg.Notify.MinAlertPlays && s.notifier != nil {
		if err := s.notifier.AlertPlays(ctx, sport, plays); err != nil {
			s.logger.WithError(err).Warn("Alert delivery failed")
		}
	}

	return scan, nil
}

// autoLogPicks records every ranked play in the ledger. Duplicates are
// possible if the same board is scanned twice in a day; the report surfaces
// them, the scan does not dedupe.
func (s *ScanService) autoLogPicks(ctx context.Context, scan *SportScan) {
	for i := range scan.Plays {
		pick := pickFromResult(&scan.Plays[i])

		id, err := s.tracker.LogPick(ctx, pick)
		if err != nil {
			s.logger.WithError(err).WithField("matchup", pick.AwayTeam+" @ "+pick.HomeTeam).
				Error("Failed to auto-log pick")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"pick_id": id,
			"play":    string(pick.PlaySide) + " " + pick.PlayTeam(),
			"line":    pick.LineTaken,
		}).Info("Pick logged")
	}
}

// pickFromResult converts a playable edge into a ledger record. The line
// taken is from the perspective of the side played so CLV reads the same
// way for home and away picks.
func pickFromResult(r *models.EdgeResult) *models.PickRecord {
	line := r.MarketSpreadHome
	if r.PlaySide == models.PlaySideAway {
		line = -r.MarketSpreadHome
	}

	return &models.PickRecord{
		Sport:        r.Sport,
		AwayTeam:     r.AwayTeam,
		HomeTeam:     r.HomeTeam,
		PlaySide:     r.PlaySide,
		BetType:      models.BetTypeSpread,
		LineTaken:    line,
		OddsTaken:    spreadJuice,
		ModelSpread:  r.ModelSpreadHome,
		MarketSpread: r.MarketSpreadHome,
		EdgePoints:   r.SpreadEdge,
		Confidence:   r.Confidence,
	}
}

// AnalyzeMatchup rates the league and evaluates one matchup against a
// caller-supplied market quote, outside any board scan.
func (s *ScanService) AnalyzeMatchup(ctx context.Context, sport, homeKey, awayKey string, marketSpreadHome, marketTotal float64, moneylineHome int) (edge.Outcome, error) {
	pipe, ok := s.pipelines[sport]
	if !ok {
		return edge.Outcome{}, fmt.Errorf("sport %s is not configured", sport)
	}

	stats, ok := s.statsProviders[sport]
	if !ok {
		return edge.Outcome{}, fmt.Errorf("no team stats provider configured for %s", sport)
	}

	profiles, err := stats.FetchTeamProfiles(ctx)
	if err != nil {
		return edge.Outcome{}, fmt.Errorf("failed to fetch team profiles: %w", err)
	}

	ratingMap := pipe.Engine().ComputeRatings(profiles)
	outcome, ok := pipe.AnalyzeMatchup(homeKey, awayKey, ratingMap, marketSpreadHome, marketTotal, moneylineHome)
	if !ok {
		return edge.Outcome{}, fmt.Errorf("no rating for one of %s / %s", homeKey, awayKey)
	}
	return outcome, nil
}

// RunScan is the scheduler entry point.
func (s *ScanService) RunScan(ctx context.Context) error {
	_, err := s.Scan(ctx)
	return err
}

// RunGradingSweep refreshes ledger gauges and surfaces picks still waiting
// on a manual grade. Results come from box scores, which no configured
// provider carries, so grading itself stays a human step via the CLI.
func (s *ScanService) RunGradingSweep(ctx context.Context) error {
	if s.tracker == nil {
		return fmt.Errorf("grading sweep requires a database-backed tracker")
	}

	pending, err := s.tracker.PendingPicks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending picks: %w", err)
	}
	metrics.UpdatePendingPicks(float64(len(pending)))

	for _, p := range pending {
		age := time.Since(p.CreatedAt)
		if age < 12*time.Hour {
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"pick_id": p.ID,
			"matchup": p.AwayTeam + " @ " + p.HomeTeam,
			"age":     age.Round(time.Hour).String(),
		}).Warn("Pick awaiting grade")
	}

	report, err := s.tracker.PerformanceReport(ctx, ledger.ReportFilter{})
	if err != nil {
		return fmt.Errorf("failed to build performance report: %w", err)
	}
	metrics.UpdateLedgerPerformance(report.ROIPct, report.AvgCLV)

	s.logger.WithFields(logrus.Fields{
		"pending": len(pending),
		"record":  report.Record(),
		"roi_pct": report.ROIPct,
	}).Info("Grading sweep complete")

	return nil
}
