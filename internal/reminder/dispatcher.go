// Package reminder implements the periodic sweep that notifies users of
// appointments starting within the lookahead window, at most once per
// appointment.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"randevu-api/internal/metrics"
	"randevu-api/internal/model"
	"randevu-api/internal/push"
	"randevu-api/internal/store"
)

const (
	// Lookahead is how far ahead of the run's "now" snapshot appointments
	// are considered due. Both ends of [now, now+Lookahead] are inclusive.
	Lookahead = time.Hour

	// RunTimeout bounds one sweep; the host treats an overrun as a failed
	// run and applies its retry policy.
	RunTimeout = 5 * time.Minute

	// staged updates are committed in chunks of this size
	maxBatchSize = 500

	sendConcurrency = 16

	notificationTitle = "Randevunuz Yaklaşıyor"
)

func notificationBody(title string) string {
	if strings.TrimSpace(title) == "" {
		title = "Randevu"
	}
	return fmt.Sprintf("%s başlıklı randevunuza yaklaşık 1 saat kaldı.", title)
}

// Store is the slice of the persistence layer the dispatcher needs.
// *store.Store satisfies it.
type Store interface {
	DueForReminder(ctx context.Context, from, to time.Time) ([]model.Appointment, error)
	ApplyReminderUpdates(ctx context.Context, updates []store.ReminderUpdate) error
}

type Dispatcher struct {
	store  Store
	sender push.Sender
	logger *log.Logger
	now    func() time.Time
}

func New(st Store, sender push.Sender, logger *log.Logger) *Dispatcher {
	return &Dispatcher{store: st, sender: sender, logger: logger, now: time.Now}
}

// Run executes one sweep: select due appointments against a single now
// snapshot, send notifications concurrently, then commit all staged record
// updates. Per-record failures are isolated; only a failing selection
// query aborts the run. The returned count is the number of deduplicated
// records that had a send attempted.
func (d *Dispatcher) Run(ctx context.Context) (int, error) {
	started := time.Now()
	now := d.now()

	due, err := d.store.DueForReminder(ctx, now, now.Add(Lookahead))
	if err != nil {
		metrics.SweepFailures.Inc()
		return 0, fmt.Errorf("select due appointments: %w", err)
	}
	if len(due) == 0 {
		d.logger.Println("sweep: no upcoming appointments")
		return 0, nil
	}

	var (
		mu     sync.Mutex
		staged []store.ReminderUpdate
	)
	seen := make(map[string]bool, len(due))
	processed := 0

	g := new(errgroup.Group)
	g.SetLimit(sendConcurrency)

	for _, a := range due {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		if a.FCMToken == "" {
			d.logger.Printf("sweep: appointment %s has no device token, skipping", a.ID)
			continue
		}
		if a.AppointmentDate.IsZero() {
			d.logger.Printf("sweep: appointment %s has no date, skipping", a.ID)
			continue
		}

		processed++
		a := a
		g.Go(func() error {
			n := push.Notification{Title: notificationTitle, Body: notificationBody(a.Title)}
			err := d.sender.Send(ctx, a.FCMToken, n)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				staged = append(staged, store.ReminderUpdate{ID: a.ID, MarkSent: true, SentAt: now})
				metrics.RemindersSent.Inc()
			case errors.Is(err, push.ErrTokenNotRegistered):
				// clear the stale token but leave reminder_sent false so
				// the record is retried once a fresh token shows up
				staged = append(staged, store.ReminderUpdate{ID: a.ID, ClearToken: true, TokenError: err.Error()})
				metrics.TokensCleared.Inc()
				d.logger.Printf("sweep: appointment %s: %v", a.ID, err)
			default:
				metrics.ReminderSendFailures.Inc()
				d.logger.Printf("sweep: appointment %s: send failed, retrying next cycle: %v", a.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for len(staged) > 0 {
		chunk := staged
		if len(chunk) > maxBatchSize {
			chunk = chunk[:maxBatchSize]
		}
		staged = staged[len(chunk):]
		if err := d.store.ApplyReminderUpdates(ctx, chunk); err != nil {
			// notifications already went out; worst case those records are
			// re-sent by a host-level retry, never rolled back
			metrics.SweepFailures.Inc()
			return processed, fmt.Errorf("commit reminder updates: %w", err)
		}
	}

	metrics.SweepDuration.Observe(time.Since(started).Seconds())
	d.logger.Printf("sweep: processed %d appointments in %s", processed, time.Since(started).Round(time.Millisecond))
	return processed, nil
}
