// Package config provides configuration management for the Sharp Sniper engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, tolerating a missing config file.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SHARP_SNIPER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sharp-sniper")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.markets", "spreads,totals,h2h")
	v.SetDefault("odds_api.bookmakers", []string{"fanduel", "draftkings", "betmgm", "caesars"})
	v.SetDefault("odds_api.sharp_books", []string{"pinnacle", "fanduel", "draftkings"})
	v.SetDefault("odds_api.cache_ttl_seconds", 300)

	v.SetDefault("stats_api.base_url", "https://stats.nba.com/stats")
	v.SetDefault("stats_api.season", "2025-26")
	v.SetDefault("stats_api.ncaab_base_url", "https://barttorvik.com")
	v.SetDefault("stats_api.ncaab_season", 2026)
	v.SetDefault("stats_api.cache_ttl_seconds", 900)

	// Time-weighted rating model. Weights must sum to 1.0; tune after
	// grading enough picks, start conservative.
	v.SetDefault("sports.nba.weights.season", 0.55)
	v.SetDefault("sports.nba.weights.last_15", 0.25)
	v.SetDefault("sports.nba.weights.last_5", 0.15)
	v.SetDefault("sports.nba.weights.last_game", 0.05)
	v.SetDefault("sports.nba.home_court", 2.5)
	v.SetDefault("sports.nba.calibration_k", 8.0)
	v.SetDefault("sports.nba.scale_max", 200.0)
	v.SetDefault("sports.nba.thresholds.min_edge_points", 1.5)
	v.SetDefault("sports.nba.thresholds.strong_edge_points", 3.0)
	v.SetDefault("sports.nba.thresholds.min_ev_pct", 3.0)
	v.SetDefault("sports.nba.thresholds.max_plays_per_day", 5)

	// College markets are softer, so the bar is higher and the spread to
	// probability mapping wider.
	v.SetDefault("sports.ncaab.weights.season", 0.60)
	v.SetDefault("sports.ncaab.weights.last_15", 0.22)
	v.SetDefault("sports.ncaab.weights.last_5", 0.13)
	v.SetDefault("sports.ncaab.weights.last_game", 0.05)
	v.SetDefault("sports.ncaab.home_court", 3.3)
	v.SetDefault("sports.ncaab.calibration_k", 9.5)
	v.SetDefault("sports.ncaab.scale_max", 200.0)
	v.SetDefault("sports.ncaab.thresholds.min_edge_points", 2.0)
	v.SetDefault("sports.ncaab.thresholds.strong_edge_points", 4.0)
	v.SetDefault("sports.ncaab.thresholds.min_ev_pct", 3.0)
	v.SetDefault("sports.ncaab.thresholds.max_plays_per_day", 5)

	v.SetDefault("guardrails.max_edge_points", 10.0)
	v.SetDefault("guardrails.max_spread_abs", 30.0)
	v.SetDefault("guardrails.min_total", 150.0)
	v.SetDefault("guardrails.max_total", 300.0)
	v.SetDefault("guardrails.max_injury_impact", 12.0)
	v.SetDefault("guardrails.max_net_rating", 25.0)
	v.SetDefault("guardrails.min_implied_prob", 0.01)
	v.SetDefault("guardrails.max_implied_prob", 0.99)

	v.SetDefault("pipeline.sports", []string{"nba"})
	v.SetDefault("pipeline.max_plays", 5)

	v.SetDefault("scheduler.scan_cron", "0 14 * * *")
	v.SetDefault("scheduler.grading_cron", "0 8 * * *")

	v.SetDefault("notify.min_alert_plays", 1)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
