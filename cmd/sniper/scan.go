package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wheelz27/sharp-sniper/internal/edge"
	"github.com/wheelz27/sharp-sniper/internal/models"
	"github.com/wheelz27/sharp-sniper/internal/service"
)

var (
	scanInjuryFile string
	scanLogPicks   bool

	analyzeSport  string
	analyzeHome   string
	analyzeAway   string
	analyzeSpread float64
	analyzeTotal  float64
	analyzeML     int
)

func init() {
	scanCmd.Flags().StringVar(&scanInjuryFile, "injuries", "", "Path to a JSON injury report (overrides config)")
	scanCmd.Flags().BoolVar(&scanLogPicks, "log-picks", false, "Log every ranked play to the pick ledger")

	analyzeCmd.Flags().StringVar(&analyzeSport, "sport", "nba", "Sport to analyze")
	analyzeCmd.Flags().StringVar(&analyzeHome, "home", "", "Home team abbreviation")
	analyzeCmd.Flags().StringVar(&analyzeAway, "away", "", "Away team abbreviation")
	analyzeCmd.Flags().Float64Var(&analyzeSpread, "spread", 0, "Market spread, home perspective (negative = home favored)")
	analyzeCmd.Flags().Float64Var(&analyzeTotal, "total", 0, "Market total")
	analyzeCmd.Flags().IntVar(&analyzeML, "ml", 0, "Home moneyline in American odds")
	analyzeCmd.MarkFlagRequired("home")
	analyzeCmd.MarkFlagRequired("away")
	analyzeCmd.MarkFlagRequired("spread")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the current board for model-vs-market edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if scanLogPicks {
			cfg.Pipeline.AutoLogPicks = true
		}

		svc, db, err := buildScanService(ctx, scanInjuryFile, cfg.Pipeline.AutoLogPicks)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		summary, err := svc.Scan(ctx)
		if err != nil {
			return err
		}

		printSummary(summary)
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a single matchup against a market quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		svc, _, err := buildScanService(ctx, scanInjuryFile, false)
		if err != nil {
			return err
		}

		outcome, err := svc.AnalyzeMatchup(ctx, analyzeSport,
			strings.ToUpper(analyzeHome), strings.ToUpper(analyzeAway),
			analyzeSpread, analyzeTotal, analyzeML)
		if err != nil {
			return err
		}

		printOutcome(&outcome)
		return nil
	},
}

func printSummary(summary *service.ScanSummary) {
	for i := range summary.Sports {
		scan := &summary.Sports[i]
		fmt.Printf("\n=== %s BOARD ===\n", strings.ToUpper(scan.Sport))
		fmt.Printf("Games: %d seen, %d evaluated, %d quarantined\n",
			scan.Diagnostics.GamesSeen, scan.Diagnostics.GamesWithData, scan.Diagnostics.Quarantined)

		if len(scan.Plays) == 0 {
			fmt.Println("No playable edges today.")
			continue
		}

		for rank := range scan.Plays {
			p := &scan.Plays[rank]
			fmt.Printf("\n%d. %s\n", rank+1, p.Headline())
			printDetail(p)
		}

		for j := range scan.Outcomes {
			o := &scan.Outcomes[j]
			if o.Quarantined {
				fmt.Printf("\nQUARANTINED %s @ %s: %s\n", o.Result.AwayTeam, o.Result.HomeTeam, o.Reason)
			}
		}
	}

	fmt.Printf("\nScan finished in %s, %d plays total.\n", summary.Duration.Round(time.Millisecond), summary.TotalPlays())
}

func printOutcome(o *edge.Outcome) {
	if o.Quarantined {
		fmt.Printf("QUARANTINED %s @ %s: %s\n", o.Result.AwayTeam, o.Result.HomeTeam, o.Reason)
		return
	}
	fmt.Println(o.Result.Headline())
	printDetail(&o.Result)
}

func printDetail(p *models.EdgeResult) {
	fmt.Printf("   %s @ %s\n", p.AwayTeam, p.HomeTeam)
	fmt.Printf("   Ratings: %s %.1f (%s) vs %s %.1f (%s)\n",
		p.AwayTeam, p.AwayRating, p.AwayTrend, p.HomeTeam, p.HomeRating, p.HomeTrend)
	fmt.Printf("   Spread: model %+.1f vs market %+.1f (edge %+.1f)\n",
		p.ModelSpreadHome, p.MarketSpreadHome, p.SpreadEdge)
	if p.MarketTotal != 0 {
		fmt.Printf("   Total: model %.1f vs market %.1f (edge %+.1f)\n",
			p.ModelTotal, p.MarketTotal, p.TotalEdge)
	}
	fmt.Printf("   Win prob (home): model %.1f%% vs implied %.1f%%\n",
		p.ModelWinProbHome*100, p.HomeImpliedProb*100)
	if p.InjuryImpact != 0 {
		fmt.Printf("   Injury adjustment: %+.1f pts\n", p.InjuryImpact)
	}
	if p.InjurySummaryAway != "No significant injuries" {
		fmt.Printf("   %s injuries: %s\n", p.AwayTeam, p.InjurySummaryAway)
	}
	if p.InjurySummaryHome != "No significant injuries" {
		fmt.Printf("   %s injuries: %s\n", p.HomeTeam, p.InjurySummaryHome)
	}
}
