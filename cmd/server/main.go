package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hourbank/internal/app/server"
	"hourbank/internal/platform/config"
	"hourbank/internal/platform/logging"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "hourbank",
	Short:         "Overtime and hour balance service",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background recompute worker",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file merged into the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, recomputeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the process logger. The logger is also
// installed as zap's global.
func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load(envFile)
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "hourbank")
	if err != nil {
		return cfg, nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
