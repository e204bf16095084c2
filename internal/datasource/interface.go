package datasource

import (
	"context"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

// TeamStatsProvider fetches per-window team efficiency metrics from an
// external stats feed.
type TeamStatsProvider interface {
	// FetchTeamProfiles retrieves all teams with metrics across the
	// season/last15/last5/last1 windows, keyed the way the rating map
	// expects (abbreviation for NBA, full name for college).
	FetchTeamProfiles(ctx context.Context) (map[string]models.TeamProfile, error)

	// Name returns the name of the provider
	Name() string
}

// MarketOddsProvider fetches the current betting board for a sport.
type MarketOddsProvider interface {
	// FetchOdds retrieves current spreads, totals and moneylines for
	// every game on the board. A provider outage returns an empty board
	// and an error; callers treat the empty board as "nothing to scan",
	// never as fatal.
	FetchOdds(ctx context.Context, sport string) ([]models.GameOdds, error)

	// Name returns the name of the provider
	Name() string
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g., "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
