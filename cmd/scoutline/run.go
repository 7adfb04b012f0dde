package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/log"
)

// runCmd executes the batch passes directly, for deployments that cron the
// binary instead of calling the batch endpoints.
func runCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:       "run [checkins|protection|payments|all]",
		Short:     "Run a batch pass once and exit",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"checkins", "protection", "payments", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), envFile, args[0])
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runBatch(ctx context.Context, envFile, pass string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.New(log.Format(cfg.LogFormat()), cfg.LogLevel())
	client, err := scoutline.New(ctx, scoutline.WithConfig(cfg), scoutline.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	if pass == "checkins" || pass == "all" {
		report, err := client.CheckIns.Run(ctx)
		if err != nil {
			return fmt.Errorf("check-in pass: %w", err)
		}
		logger.Info("check-in pass complete",
			"materialized", report.Materialized, "sent", report.Sent,
			"skipped", report.Skipped, "failed", report.Failed)
	}
	if pass == "protection" || pass == "all" {
		report, err := client.Protection.Run(ctx)
		if err != nil {
			return fmt.Errorf("protection pass: %w", err)
		}
		logger.Info("protection pass complete",
			"warned", report.Warned, "expired", report.Expired)
	}
	if pass == "payments" || pass == "all" {
		sent, err := client.Payments.SendReminders(ctx)
		if err != nil {
			return fmt.Errorf("payment pass: %w", err)
		}
		logger.Info("payment pass complete", "reminders_sent", sent)
	}
	return nil
}
