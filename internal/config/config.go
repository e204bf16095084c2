// Package config provides configuration management for the Sharp Sniper engine.
package config

import (
	"fmt"
	"strings"

	"github.com/wheelz27/sharp-sniper/internal/edge"
	"github.com/wheelz27/sharp-sniper/internal/ratings"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig       `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI    OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	StatsAPI   StatsAPIConfig  `mapstructure:"stats_api" validate:"required"`
	Sports     SportsConfig    `mapstructure:"sports" validate:"required"`
	Guardrails edge.Guardrails `mapstructure:"guardrails"`
	Pipeline   PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Scheduler  SchedulerConfig `mapstructure:"scheduler"`
	Notify     NotifyConfig    `mapstructure:"notify"`
	Metrics    MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API client configuration
type OddsAPIConfig struct {
	BaseURL      string   `mapstructure:"base_url" validate:"required,url"`
	APIKey       string   `mapstructure:"api_key" validate:"required"`
	Regions      string   `mapstructure:"regions" validate:"required"`
	Markets      string   `mapstructure:"markets" validate:"required"`
	Bookmakers   []string `mapstructure:"bookmakers" validate:"required,min=1"`
	SharpBooks   []string `mapstructure:"sharp_books" validate:"required,min=1"`
	CacheTTLSecs int      `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// StatsAPIConfig represents the team stats provider configuration
type StatsAPIConfig struct {
	BaseURL      string `mapstructure:"base_url" validate:"required,url"`
	Season       string `mapstructure:"season" validate:"required"`
	NCAABBaseURL string `mapstructure:"ncaab_base_url" validate:"required,url"`
	NCAABSeason  int    `mapstructure:"ncaab_season" validate:"required,gt=0"`
	CacheTTLSecs int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// SportConfig holds rating and edge constants for a single sport
type SportConfig struct {
	Weights      ratings.Weights `mapstructure:"weights" validate:"required"`
	HomeCourt    float64         `mapstructure:"home_court" validate:"required,gt=0"`
	CalibrationK float64         `mapstructure:"calibration_k" validate:"required,gt=0"`
	ScaleMax     float64         `mapstructure:"scale_max" validate:"required,gt=0"`
	Thresholds   edge.Thresholds `mapstructure:"thresholds" validate:"required"`
}

// SportsConfig holds per-sport configuration sections
type SportsConfig struct {
	NBA   SportConfig `mapstructure:"nba" validate:"required"`
	NCAAB SportConfig `mapstructure:"ncaab" validate:"required"`
}

// PipelineConfig represents daily scan configuration
type PipelineConfig struct {
	Sports       []string `mapstructure:"sports" validate:"required,min=1,dive,sport"`
	MaxPlays     int      `mapstructure:"max_plays" validate:"required,gt=0"`
	InjuryFile   string   `mapstructure:"injury_file"`
	AutoLogPicks bool     `mapstructure:"auto_log_picks"`
}

// SchedulerConfig represents the optional daemon-mode schedule
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ScanCron    string `mapstructure:"scan_cron"`
	GradingCron string `mapstructure:"grading_cron"`
}

// NotifyConfig represents alert delivery configuration. A blank webhook URL
// disables Discord alerts and falls back to log-only notifications.
type NotifyConfig struct {
	DiscordWebhookURL string `mapstructure:"discord_webhook_url"`
	MinAlertPlays     int    `mapstructure:"min_alert_plays" validate:"min=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// Sport returns the configuration section for a sport key
func (c *Config) Sport(name string) (*SportConfig, error) {
	switch strings.ToLower(name) {
	case "nba":
		return &c.Sports.NBA, nil
	case "ncaab":
		return &c.Sports.NCAAB, nil
	}
	return nil, fmt.Errorf("unknown sport %q", name)
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN renders the PostgreSQL connection string for the pool.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}
