package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"randevu-api/internal/model"
	"randevu-api/internal/store"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)
	return store.New(pool)
}

func newUser(t *testing.T, st *store.Store) string {
	t.Helper()
	id := uuid.New().String()
	err := st.CreateUser(context.Background(), &model.User{
		ID:           id,
		Email:        fmt.Sprintf("store-%s@test.com", id[:8]),
		PasswordHash: "x",
		Name:         "Store Test",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

// distant fixed slots so reruns against a shared database never collide
func slot(hours int) time.Time {
	return time.Now().Add(time.Duration(hours) * time.Hour).Truncate(time.Minute)
}

func insert(t *testing.T, st *store.Store, userID string, at time.Time) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           "Kontrol",
		AppointmentDate: at,
	}
	if err := st.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func TestCreateSnapshotsDeviceToken(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	uid := newUser(t, st)

	if err := st.SetDeviceToken(ctx, uid, "tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	a := insert(t, st, uid, slot(1000))
	if a.FCMToken != "tok-1" {
		t.Errorf("expected snapshotted token, got %q", a.FCMToken)
	}

	// rotating the device token leaves existing appointments untouched
	if err := st.SetDeviceToken(ctx, uid, "tok-2"); err != nil {
		t.Fatalf("rotate token: %v", err)
	}
	got, err := st.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FCMToken != "tok-1" {
		t.Errorf("existing appointment re-stamped: %q", got.FCMToken)
	}
}

func TestExclusionConstraint(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	uid := newUser(t, st)
	base := slot(1100)

	insert(t, st, uid, base)

	// a direct insert inside the window must be stopped by the constraint
	// even though no application-level check ran
	err := st.CreateAppointment(ctx, &model.Appointment{
		ID:              uuid.New().String(),
		UserID:          uid,
		Title:           "Clash",
		AppointmentDate: base.Add(15 * time.Minute),
	})
	if err == nil {
		t.Fatal("expected exclusion violation")
	}
	if !store.IsExclusionViolation(err) {
		t.Errorf("expected exclusion violation, got %v", err)
	}

	// exactly one window apart is allowed
	err = st.CreateAppointment(ctx, &model.Appointment{
		ID:              uuid.New().String(),
		UserID:          uid,
		Title:           "Clear",
		AppointmentDate: base.Add(30 * time.Minute),
	})
	if err != nil {
		t.Errorf("30 minutes apart should not violate: %v", err)
	}
}

func TestHasConflictBounds(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	uid := newUser(t, st)
	base := slot(1200)
	insert(t, st, uid, base)

	window := 30 * time.Minute
	probe := base.Add(window) // exactly one window later
	got, err := st.HasConflict(ctx, uid, probe.Add(-window), probe.Add(window), "")
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}
	if got {
		t.Error("exclusive bound treated an exact-window gap as a conflict")
	}

	probe = base.Add(window - time.Minute)
	got, err = st.HasConflict(ctx, uid, probe.Add(-window), probe.Add(window), "")
	if err != nil {
		t.Fatalf("has conflict: %v", err)
	}
	if !got {
		t.Error("expected conflict inside the window")
	}
}

func TestDueForReminderBounds(t *testing.T) {
	st := setup(t)
	ctx := context.Background()

	// separate users per record so the overlap constraint stays out of the way
	from := slot(1300)
	to := from.Add(time.Hour)
	onFrom := insert(t, st, newUser(t, st), from)
	onTo := insert(t, st, newUser(t, st), to)
	past := insert(t, st, newUser(t, st), from.Add(-time.Hour))
	beyond := insert(t, st, newUser(t, st), to.Add(time.Hour))

	due, err := st.DueForReminder(ctx, from, to)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	ids := map[string]bool{}
	for _, a := range due {
		ids[a.ID] = true
	}
	if !ids[onFrom.ID] || !ids[onTo.ID] {
		t.Error("inclusive bounds: records on both edges should be due")
	}
	if ids[past.ID] || ids[beyond.ID] {
		t.Error("records outside the window should not be due")
	}
}

func TestApplyReminderUpdates(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	sent := insert(t, st, newUser(t, st), slot(1400))
	stale := insert(t, st, newUser(t, st), slot(1401))

	now := time.Now().Truncate(time.Second)
	err := st.ApplyReminderUpdates(ctx, []store.ReminderUpdate{
		{ID: sent.ID, MarkSent: true, SentAt: now},
		{ID: stale.ID, ClearToken: true, TokenError: "messaging/registration-token-not-registered"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	got, _ := st.GetAppointment(ctx, sent.ID)
	if !got.ReminderSent {
		t.Error("reminder_sent not set")
	}
	if got.LastNotificationSent == nil || !got.LastNotificationSent.Equal(now) {
		t.Errorf("last_notification_sent mismatch: %v", got.LastNotificationSent)
	}

	// a second mark is a no-op: the original send time is preserved
	err = st.ApplyReminderUpdates(ctx, []store.ReminderUpdate{
		{ID: sent.ID, MarkSent: true, SentAt: now.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("re-apply: %v", err)
	}
	got, _ = st.GetAppointment(ctx, sent.ID)
	if !got.LastNotificationSent.Equal(now) {
		t.Errorf("send time overwritten: %v", got.LastNotificationSent)
	}

	got, _ = st.GetAppointment(ctx, stale.ID)
	if got.FCMToken != "" || got.TokenError == "" {
		t.Errorf("token not cleared: %q / %q", got.FCMToken, got.TokenError)
	}
	if got.ReminderSent {
		t.Error("clearing a token must not mark the reminder sent")
	}
}

func TestDeleteAppointmentOwnership(t *testing.T) {
	st := setup(t)
	ctx := context.Background()
	owner := newUser(t, st)
	other := newUser(t, st)
	a := insert(t, st, owner, slot(1500))

	if err := st.DeleteAppointment(ctx, a.ID, other); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := st.DeleteAppointment(ctx, a.ID, owner); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if _, err := st.GetAppointment(ctx, a.ID); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
