package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper is the in-process scheduler host for the dispatcher: a cron
// entry in a fixed timezone, capped to one live run at a time, each run
// bounded by RunTimeout.
type Sweeper struct {
	cron   *cron.Cron
	logger *log.Logger
}

func NewSweeper(d *Dispatcher, schedule string, loc *time.Location, logger *log.Logger) (*Sweeper, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), RunTimeout)
		defer cancel()
		if _, err := d.Run(ctx); err != nil {
			logger.Printf("sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register sweep schedule %q: %w", schedule, err)
	}
	return &Sweeper{cron: c, logger: logger}, nil
}

func (s *Sweeper) Start() {
	s.logger.Println("reminder sweeper started")
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Println("reminder sweeper stopped")
}
