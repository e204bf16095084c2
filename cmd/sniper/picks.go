package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wheelz27/sharp-sniper/internal/ledger"
	"github.com/wheelz27/sharp-sniper/internal/models"
)

var (
	reportSport string
	reportDays  int
)

func init() {
	reportCmd.Flags().StringVar(&reportSport, "sport", "", "Restrict the report to one sport")
	reportCmd.Flags().IntVar(&reportDays, "days", 0, "Restrict the report to the last N days (0 = all time)")
}

var gradeCmd = &cobra.Command{
	Use:   "grade <pick-id> <closing-line> <win|loss|push>",
	Short: "Grade a pending pick against the closing line",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid pick id %q: %w", args[0], err)
		}

		closingLine, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid closing line %q: %w", args[1], err)
		}

		result := models.PickResult(args[2])

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, tracker, err := connectLedger(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := tracker.GradePick(ctx, id, closingLine, result); err != nil {
			return err
		}

		fmt.Printf("Graded %s as %s (closed %+.1f)\n", id, result, closingLine)
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List picks awaiting a grade",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, tracker, err := connectLedger(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		picks, err := tracker.PendingPicks(ctx)
		if err != nil {
			return err
		}

		if len(picks) == 0 {
			fmt.Println("No pending picks.")
			return nil
		}

		for _, p := range picks {
			fmt.Printf("%s  %s  %s @ %s  %s %s %+.1f (%d)  %s\n",
				p.ID, p.CreatedAt.Format("2006-01-02"),
				p.AwayTeam, p.HomeTeam,
				p.PlaySide, p.PlayTeam(), p.LineTaken, p.OddsTaken,
				p.Confidence)
		}
		fmt.Printf("\n%d pending picks. Grade with: sniper grade <pick-id> <closing-line> <win|loss|push>\n", len(picks))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the ledger performance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, tracker, err := connectLedger(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		filter := ledger.ReportFilter{Sport: reportSport, Days: reportDays}
		summary, err := tracker.PerformanceReport(ctx, filter)
		if err != nil {
			return err
		}

		fmt.Println(ledger.FormatReport(summary, filter))
		return nil
	},
}
