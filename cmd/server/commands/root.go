package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"randevu-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "randevu-api",
	Short: "Appointment booking API with push-notification reminder sweeps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI. Called by main.main().
func Execute() error {
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, sweepCmd)
}

func newLogger() *log.Logger {
	return log.New(os.Stdout, "[randevu] ", log.LstdFlags)
}

func openPool(ctx context.Context, cfg *config.Config, logger *log.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	logger.Println("connected to postgres")
	return pool, nil
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) {
	migration, err := os.ReadFile("db/migrations/001_init.sql")
	if err != nil {
		logger.Printf("migration file not found, skipping: %v", err)
		return
	}
	if _, err := pool.Exec(ctx, string(migration)); err != nil {
		logger.Printf("migration warning: %v", err)
		return
	}
	logger.Println("migration applied")
}
