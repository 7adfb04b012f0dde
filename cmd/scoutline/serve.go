package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline"
	"github.com/scoutline/scoutline/infrastructure/api"
	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DB_URL                       Database URL (default: sqlite:///scoutline.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  PUBLIC_URL                   Base URL for response links in email
  API_KEYS                     Comma-separated list of valid admin API keys
  BATCH_SECRET                 Shared secret for the batch endpoints
  ADMIN_EMAIL                  Recipient for expiry digests and escalations

  CLASSIFIER_ENDPOINT_*        Reply classification service configuration
    BASE_URL                   Base URL (empty uses the provider default)
    MODEL                      Chat model (default: gpt-4o-mini)
    API_KEY                    API key for authentication
    TIMEOUT                    Request timeout in seconds (default: 60)
    MAX_RETRIES                Retry attempts (default: 3)

  NOTIFY_*                     Notification gateway configuration
    BASE_URL                   Gateway URL (empty logs mail instead)
    API_KEY                    Gateway API key
    FROM                       Sender address
    TIMEOUT                    Request timeout in seconds (default: 15)

  DIRECTORY_*                  Profile directory configuration
    BASE_URL                   Directory URL (empty stubs contacts)
    API_KEY                    Directory API key
    TIMEOUT                    Request timeout in seconds (default: 10)

  PROTECTION_MONTHS            Protection window length (default: 12)
  INTRO_TOKEN_DAYS             Introduction token lifetime (default: 7)
  CHECKIN_TOKEN_DAYS           Check-in token lifetime (default: 14)
  FEE_PERCENT                  Default placement fee percentage (default: 20)
  REMAINING_DUE_DAYS           Days until the remaining fee is due (default: 30)
  REMINDER_COOLDOWN_DAYS       Minimum gap between payment reminders (default: 7)
  DISPATCH_PARALLELISM         Concurrent check-in sends (default: 4)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithAddr(host, port)

	logger := log.New(log.Format(cfg.LogFormat()), cfg.LogLevel())
	logger.SetDefault()

	ctx := context.Background()
	client, err := scoutline.New(ctx, scoutline.WithConfig(cfg), scoutline.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	server := api.NewAPIServer(client, cfg.APIKeys(), cfg.BatchSecret())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
