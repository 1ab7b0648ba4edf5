package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hourbank/internal/app/server"
	"hourbank/internal/platform/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}

		pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer pool.Close()

		applied, err := db.Migrate(cmd.Context(), pool, cfg.MigrationsDir, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
		return nil
	},
}

var recomputeEmployee string

// recomputeCmd rebuilds open balances offline, for one employee or all of them.
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild open period balances from recorded time entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		cfg.RunSeed = false

		ctx := cmd.Context()
		app, err := server.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		ids := []string{recomputeEmployee}
		if recomputeEmployee == "" {
			employees, err := app.Services.Employees.List(ctx, "")
			if err != nil {
				return err
			}
			ids = ids[:0]
			for _, emp := range employees {
				ids = append(ids, emp.ID)
			}
		}

		var failed int
		for _, id := range ids {
			rows, err := app.RecomputeNow(ctx, id)
			if err != nil {
				failed++
				logger.Error("recompute failed", zap.String("employeeId", id), zap.Error(err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d open period(s)\n", id, len(rows))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d recompute(s) failed", failed, len(ids))
		}
		return nil
	},
}

func init() {
	recomputeCmd.Flags().StringVar(&recomputeEmployee, "employee", "", "employee id; all employees when empty")
}
