package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_notifications_sent_total",
		Help: "Reminder notifications confirmed delivered by the push gateway.",
	})

	ReminderSendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_send_failures_total",
		Help: "Transient delivery failures; the record is retried next sweep.",
	})

	TokensCleared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_tokens_cleared_total",
		Help: "Device tokens cleared after the gateway reported them unregistered.",
	})

	SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminder_sweep_failures_total",
		Help: "Sweep runs that aborted or failed to commit their batch.",
	})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reminder_sweep_duration_seconds",
		Help:    "Wall-clock duration of a full reminder sweep.",
		Buckets: prometheus.DefBuckets,
	})
)
