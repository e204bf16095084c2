// Package main provides the sharp-sniper command line interface.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wheelz27/sharp-sniper/internal/config"
	"github.com/wheelz27/sharp-sniper/internal/database"
	"github.com/wheelz27/sharp-sniper/internal/datasource"
	"github.com/wheelz27/sharp-sniper/internal/injury"
	"github.com/wheelz27/sharp-sniper/internal/ledger"
	"github.com/wheelz27/sharp-sniper/internal/logger"
	"github.com/wheelz27/sharp-sniper/internal/metrics"
	"github.com/wheelz27/sharp-sniper/internal/notify"
	"github.com/wheelz27/sharp-sniper/internal/repository"
	"github.com/wheelz27/sharp-sniper/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(injuriesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sniper",
	Short: "Model-vs-market edge detection for basketball spreads",
	Long: `Sharp Sniper rates every team from recent efficiency numbers, projects
a spread for each game on the board, and flags the games where the model
and the market disagree by enough points to matter. Every flagged play
can be logged to a ledger and graded against the closing line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sniper %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return nil
}

// newProviders wires the HTTP-backed data sources.
func newProviders() (map[string]datasource.TeamStatsProvider, *datasource.OddsAPIClient) {
	httpLog := stdlog.New(os.Stderr, "http: ", stdlog.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLog)

	statsProviders := map[string]datasource.TeamStatsProvider{
		"nba":   datasource.NewNBAStatsClient(&cfg.StatsAPI, httpClient, appLog),
		"ncaab": datasource.NewNCAABStatsClient(&cfg.StatsAPI, httpClient, appLog),
	}
	oddsClient := datasource.NewOddsAPIClient(&cfg.OddsAPI, httpClient, appLog)

	return statsProviders, oddsClient
}

// newInjuryLedger loads the configured injury file, if any.
func newInjuryLedger(path string) (*injury.Ledger, error) {
	injuries := injury.NewLedger(injury.DefaultTables())
	if path == "" {
		path = cfg.Pipeline.InjuryFile
	}
	if path != "" {
		if err := injuries.LoadFile(path); err != nil {
			return nil, err
		}
		appLog.WithField("file", path).Info("Injury report loaded")
	}
	return injuries, nil
}

// connectLedger opens the database and returns a tracker over it. The
// caller owns the returned DB handle.
func connectLedger(ctx context.Context) (*database.DB, *ledger.Tracker, error) {
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := repository.NewPostgresPickRepository(db)
	return db, ledger.NewTracker(repo, appLog), nil
}

// newNotifier picks Discord when a webhook is configured, log output
// otherwise.
func newNotifier() notify.Notifier {
	if cfg.Notify.DiscordWebhookURL != "" {
		return notify.NewDiscordNotifier(cfg.Notify.DiscordWebhookURL, appLog)
	}
	return notify.NewLogNotifier(appLog)
}

// buildScanService assembles the full scan stack. withLedger controls
// whether a database connection is opened.
func buildScanService(ctx context.Context, injuryFile string, withLedger bool) (*service.ScanService, *database.DB, error) {
	statsProviders, oddsClient := newProviders()

	injuries, err := newInjuryLedger(injuryFile)
	if err != nil {
		return nil, nil, err
	}

	var db *database.DB
	var tracker *ledger.Tracker
	if withLedger {
		db, tracker, err = connectLedger(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	svc, err := service.NewScanService(cfg, statsProviders, oddsClient, injuries, tracker, newNotifier(), appLog)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}

	return svc, db, nil
}
