package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wheelz27/sharp-sniper/internal/models"
)

var tierOrder = []models.ConfidenceTier{
	models.TierHigh, models.TierStrong, models.TierModerate, models.TierLow,
}

// FormatReport renders a performance summary for terminal output.
func FormatReport(s *PerformanceSummary, filter ReportFilter) string {
	if s.TotalPicks == 0 {
		return "No graded picks yet."
	}

	period := "All Time"
	if filter.Days > 0 {
		period = fmt.Sprintf("Last %d days", filter.Days)
	}
	sportLabel := "ALL SPORTS"
	if filter.Sport != "" {
		sportLabel = strings.ToUpper(filter.Sport)
	}

	var b strings.Builder
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  PERFORMANCE REPORT  %s (%s)\n", sportLabel, period)
	fmt.Fprintf(&b, "%s\n\n", rule)
	fmt.Fprintf(&b, "  Record:    %s (%.1f%%)\n", s.Record(), s.WinRatePct)
	fmt.Fprintf(&b, "  Units:     %su on %su wagered\n",
		signedFixed(s.UnitsProfit, 2), s.UnitsWagered.StringFixed(1))
	fmt.Fprintf(&b, "  ROI:       %+.2f%%\n", s.ROIPct)
	fmt.Fprintf(&b, "  Avg CLV:   %+.2f pts (%.0f%% positive)\n", s.AvgCLV, s.CLVPositivePct)
	fmt.Fprintf(&b, "  Streak:    %s\n", s.Streak)

	if len(s.ByConfidence) > 0 {
		fmt.Fprintf(&b, "\n  By Confidence:\n")
		for _, tier := range tierOrder {
			stats, ok := s.ByConfidence[tier]
			if !ok {
				continue
			}
			winRate := 0.0
			if stats.Picks > 0 {
				winRate = float64(stats.Wins) / float64(stats.Picks) * 100
			}
			fmt.Fprintf(&b, "    %-9s %d picks, %.0f%% win, %su\n",
				string(tier)+":", stats.Picks, winRate, signedFixed(stats.Profit, 1))
		}
	}

	return b.String()
}

func signedFixed(d decimal.Decimal, places int32) string {
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(places)
	}
	return d.StringFixed(places)
}
