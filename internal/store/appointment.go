package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"randevu-api/internal/model"
)

const appointmentCols = `id, user_id, title, notes, appointment_date, reminder_sent,
	 last_notification_sent, fcm_token, token_error, created_at, updated_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(
		&a.ID, &a.UserID, &a.Title, &a.Notes, &a.AppointmentDate, &a.ReminderSent,
		&a.LastNotificationSent, &a.FCMToken, &a.TokenError, &a.CreatedAt, &a.UpdatedAt,
	)
}

// CreateAppointment inserts a new record with reminder_sent=false and the
// owner's current device token snapshotted onto it. Server-assigned
// timestamps and the snapshotted token are read back into a.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, user_id, title, notes, appointment_date, fcm_token)
		 VALUES ($1, $2, $3, $4, $5,
		         COALESCE((SELECT fcm_token FROM users WHERE id = $2), ''))
		 RETURNING fcm_token, created_at, updated_at`,
		a.ID, a.UserID, a.Title, a.Notes, a.AppointmentDate,
	).Scan(&a.FCMToken, &a.CreatedAt, &a.UpdatedAt)
}

// HasConflict reports whether the user already holds an appointment whose
// date lies strictly inside (after, before). Bounds are exclusive: a start
// exactly one conflict window away does not collide.
func (s *Store) HasConflict(ctx context.Context, userID string, after, before time.Time, excludeID string) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE user_id = $1
		  AND appointment_date > $2
		  AND appointment_date < $3`
	args := []any{userID, after, before}

	if excludeID != "" {
		q += ` AND id != $4`
		args = append(args, excludeID)
	}
	q += `)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, args...).Scan(&exists)
	return exists, err
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) ListAppointments(ctx context.Context, userID string, from, to time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 WHERE user_id = $1
		   AND appointment_date >= $2 AND appointment_date <= $3
		 ORDER BY appointment_date`, userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAppointment rewrites the user-editable fields and re-stamps the
// owner's current device token. reminder_sent is never touched here.
func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title = $1, notes = $2, appointment_date = $3,
		     fcm_token = COALESCE((SELECT fcm_token FROM users WHERE id = $5), ''),
		     updated_at = NOW()
		 WHERE id = $4 AND user_id = $5
		 RETURNING fcm_token, updated_at`,
		a.Title, a.Notes, a.AppointmentDate, a.ID, a.UserID,
	).Scan(&a.FCMToken, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Store) DeleteAppointment(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DueForReminder selects, across all users, the unreminded appointments
// starting inside [from, to]. Both bounds are inclusive.
func (s *Store) DueForReminder(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+appointmentCols+`
		 FROM appointments
		 WHERE reminder_sent = FALSE
		   AND appointment_date >= $1 AND appointment_date <= $2
		 ORDER BY appointment_date`, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReminderUpdate is one staged mutation produced by a reminder sweep:
// either a successful send to record, or a stale token to clear.
type ReminderUpdate struct {
	ID         string
	MarkSent   bool
	SentAt     time.Time
	ClearToken bool
	TokenError string
}

// ApplyReminderUpdates commits a sweep's staged mutations as one pipelined
// batch. Marking is guarded on reminder_sent = FALSE so the flag stays
// monotonic even if two sweeps ever raced.
func (s *Store) ApplyReminderUpdates(ctx context.Context, updates []ReminderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, u := range updates {
		switch {
		case u.MarkSent:
			b.Queue(
				`UPDATE appointments
				 SET reminder_sent = TRUE, last_notification_sent = $2, updated_at = NOW()
				 WHERE id = $1 AND reminder_sent = FALSE`,
				u.ID, u.SentAt,
			)
		case u.ClearToken:
			b.Queue(
				`UPDATE appointments
				 SET fcm_token = '', token_error = $2, updated_at = NOW()
				 WHERE id = $1`,
				u.ID, u.TokenError,
			)
		}
	}

	br := s.pool.SendBatch(ctx, b)
	defer br.Close()
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("reminder update %d/%d: %w", i+1, b.Len(), err)
		}
	}
	return nil
}
