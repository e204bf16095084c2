package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wheelz27/sharp-sniper/internal/health"
	"github.com/wheelz27/sharp-sniper/internal/scheduler"
)

var serveScanOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&serveScanOnStart, "scan-on-start", false, "Run one scan immediately before entering the schedule")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a daemon with scheduled scans and grading sweeps",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		svc, db, err := buildScanService(ctx, "", true)
		if err != nil {
			return err
		}
		defer db.Close()

		sched := scheduler.NewScheduler(svc, appLog)
		if err := sched.ScheduleScan(cfg.Scheduler.ScanCron); err != nil {
			return err
		}
		if err := sched.ScheduleGradingSweep(cfg.Scheduler.GradingCron); err != nil {
			return err
		}

		healthServer := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Metrics.Port),
			Sports:      cfg.Pipeline.Sports,
			Logger:      appLog,
			DB:          db,
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}

		if serveScanOnStart {
			if err := svc.RunScan(ctx); err != nil {
				appLog.WithError(err).Error("Startup scan failed")
			}
		}

		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)

		appLog.WithFields(logrus.Fields{
			"next_run": sched.GetNextRun(),
			"port":     cfg.Metrics.Port,
		}).Info("Sharp Sniper daemon running")

		<-ctx.Done()

		healthServer.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Scheduler stop failed")
		}
		return nil
	},
}
