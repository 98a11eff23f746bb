package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"randevu-api/internal/config"
	"randevu-api/internal/handler"
	"randevu-api/internal/push"
	"randevu-api/internal/reminder"
	"randevu-api/internal/scheduling"
	"randevu-api/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the embedded reminder sweeper",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	ctx := cmd.Context()
	pool, err := openPool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	applyMigrations(ctx, pool, logger)

	st := store.New(pool)
	sch := scheduling.New(st)
	h := handler.New(st, sch, cfg.JWTSecret)

	var sweeper *reminder.Sweeper
	if cfg.SweepDisabled {
		logger.Println("reminder sweep disabled")
	} else {
		sender, err := push.NewFCM(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			return fmt.Errorf("push gateway: %w", err)
		}
		sweeper, err = reminder.NewSweeper(reminder.New(st, sender, logger), cfg.SweepSchedule, cfg.SweepTimezone, logger)
		if err != nil {
			return err
		}
		sweeper.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Router(h),
	}
	go func() {
		logger.Printf("http on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Println("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	return nil
}
