package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"randevu-api/internal/config"
	"randevu-api/internal/push"
	"randevu-api/internal/reminder"
	"randevu-api/internal/store"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one reminder sweep and exit",
	Long: `Runs a single reminder sweep against the configured database and
push gateway, then exits. Intended for an external scheduler host that
enforces its own single-instance cap and retry policy; a failed run exits
non-zero so the host can retry it.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(cmd.Context(), reminder.RunTimeout)
	defer cancel()

	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	sender, err := push.NewFCM(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}

	dispatcher := reminder.New(store.New(pool), sender, logger)
	processed, err := dispatcher.Run(ctx)
	if err != nil {
		return err
	}
	logger.Printf("sweep complete: %d appointments processed", processed)
	return nil
}
