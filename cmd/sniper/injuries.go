package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wheelz27/sharp-sniper/internal/injury"
)

var (
	injuryFile   string
	injuryTeam   string
	injuryPlayer string
	injuryStatus string
	injuryRole   string
	injuryReason string
)

func init() {
	injuriesCmd.PersistentFlags().StringVar(&injuryFile, "file", "", "Path to the JSON injury file (defaults to pipeline.injury_file)")

	injuriesAddCmd.Flags().StringVar(&injuryTeam, "team", "", "Team abbreviation")
	injuriesAddCmd.Flags().StringVar(&injuryPlayer, "player", "", "Player name")
	injuriesAddCmd.Flags().StringVar(&injuryStatus, "status", "out", "Status: out, doubtful, questionable, probable")
	injuriesAddCmd.Flags().StringVar(&injuryRole, "role", "rotation", "Role: star, starter, rotation, bench")
	injuriesAddCmd.Flags().StringVar(&injuryReason, "reason", "", "Short reason, e.g. knee")
	injuriesAddCmd.MarkFlagRequired("team")
	injuriesAddCmd.MarkFlagRequired("player")

	injuriesRemoveCmd.Flags().StringVar(&injuryTeam, "team", "", "Team abbreviation")
	injuriesRemoveCmd.Flags().StringVar(&injuryPlayer, "player", "", "Player name")
	injuriesRemoveCmd.MarkFlagRequired("team")
	injuriesRemoveCmd.MarkFlagRequired("player")

	injuriesCmd.AddCommand(injuriesListCmd)
	injuriesCmd.AddCommand(injuriesAddCmd)
	injuriesCmd.AddCommand(injuriesRemoveCmd)
}

var injuriesCmd = &cobra.Command{
	Use:   "injuries",
	Short: "Manage the manual injury report",
}

func resolveInjuryFile() (string, error) {
	path := injuryFile
	if path == "" {
		path = cfg.Pipeline.InjuryFile
	}
	if path == "" {
		return "", fmt.Errorf("no injury file configured; pass --file or set pipeline.injury_file")
	}
	return path, nil
}

var injuriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the expected spread impact per team",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveInjuryFile()
		if err != nil {
			return err
		}

		data, err := injury.ReadFile(path)
		if err != nil {
			return err
		}

		if len(data) == 0 {
			fmt.Println("Injury report is empty.")
			return nil
		}

		injuries := injury.NewLedger(injury.DefaultTables())
		injuries.LoadFromMap(data)

		teams := make([]string, 0, len(data))
		for team := range data {
			teams = append(teams, team)
		}
		sort.Strings(teams)

		for _, team := range teams {
			fmt.Printf("%s: %s\n", strings.ToUpper(team), injuries.Summary(team))
		}
		return nil
	},
}

var injuriesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a player on the injury report",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveInjuryFile()
		if err != nil {
			return err
		}

		data, err := injury.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			data = make(map[string][]injury.Report)
		}

		team := strings.ToUpper(injuryTeam)
		report := injury.Report{
			Player: injuryPlayer,
			Status: injuryStatus,
			Role:   injuryRole,
			Reason: injuryReason,
		}

		replaced := false
		for i, r := range data[team] {
			if strings.EqualFold(r.Player, injuryPlayer) {
				data[team][i] = report
				replaced = true
				break
			}
		}
		if !replaced {
			data[team] = append(data[team], report)
		}

		if err := injury.WriteFile(path, data); err != nil {
			return err
		}

		injuries := injury.NewLedger(injury.DefaultTables())
		injuries.LoadFromMap(data)
		fmt.Printf("%s now projects %+.1f pts: %s\n", team, injuries.TeamImpact(team), injuries.Summary(team))
		return nil
	},
}

var injuriesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a player from the injury report",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveInjuryFile()
		if err != nil {
			return err
		}

		data, err := injury.ReadFile(path)
		if err != nil {
			return err
		}

		team := strings.ToUpper(injuryTeam)
		reports := data[team]
		kept := reports[:0]
		for _, r := range reports {
			if !strings.EqualFold(r.Player, injuryPlayer) {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(reports) {
			return fmt.Errorf("%s is not on the %s injury report", injuryPlayer, team)
		}

		if len(kept) == 0 {
			delete(data, team)
		} else {
			data[team] = kept
		}

		if err := injury.WriteFile(path, data); err != nil {
			return err
		}

		fmt.Printf("Removed %s from %s\n", injuryPlayer, team)
		return nil
	},
}
