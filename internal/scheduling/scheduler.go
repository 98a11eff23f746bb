// Package scheduling is the appointment create/edit path. Every write goes
// through the conflict guard: a proposed start time is truncated to whole
// minutes and rejected when the same user already holds an appointment
// starting less than one conflict window away in either direction.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"randevu-api/internal/model"
	"randevu-api/internal/store"
)

const (
	// ConflictWindow is the minimum gap between two appointment starts of
	// the same user. A gap of exactly one window is allowed.
	ConflictWindow = 30 * time.Minute

	// truncation moves a client-picked "now" up to 59s backwards; one
	// minute of slack keeps that (plus request latency) bookable
	pastGrace = time.Minute
)

var (
	ErrInvalidParams = errors.New("user id required")
	ErrMissingData   = errors.New("title and appointment date required")
	ErrPastDate      = errors.New("appointment date is in the past")
	ErrConflict      = errors.New("time conflicts with an existing appointment")
	ErrNotFound      = errors.New("appointment not found")
)

// Store is the slice of the persistence layer the scheduler needs.
// *store.Store satisfies it.
type Store interface {
	// HasConflict reports an existing appointment of the user with a date
	// strictly inside (after, before), optionally ignoring excludeID.
	HasConflict(ctx context.Context, userID string, after, before time.Time, excludeID string) (bool, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	ListAppointments(ctx context.Context, userID string, from, to time.Time) ([]model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id, userID string) error
}

type Scheduler struct {
	store Store
	now   func() time.Time
}

func New(st Store) *Scheduler {
	return &Scheduler{store: st, now: time.Now}
}

// Create validates the request, runs the conflict guard and persists the
// appointment with its date truncated to the minute.
func (s *Scheduler) Create(ctx context.Context, userID, title, notes string, date time.Time) (*model.Appointment, error) {
	if userID == "" {
		return nil, ErrInvalidParams
	}
	title = strings.TrimSpace(title)
	if title == "" || date.IsZero() {
		return nil, ErrMissingData
	}

	start := date.Truncate(time.Minute)
	if start.Before(s.now().Add(-pastGrace)) {
		return nil, ErrPastDate
	}

	if err := s.guard(ctx, userID, start, ""); err != nil {
		return nil, err
	}

	a := &model.Appointment{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           title,
		Notes:           strings.TrimSpace(notes),
		AppointmentDate: start,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		if store.IsExclusionViolation(err) {
			// a concurrent create won the slot between check and insert
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return a, nil
}

// Get returns the appointment only to its owner; foreign records read as
// not found so existence is not leaked.
func (s *Scheduler) Get(ctx context.Context, userID, id string) (*model.Appointment, error) {
	if userID == "" {
		return nil, ErrInvalidParams
	}
	a, err := s.store.GetAppointment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Scheduler) List(ctx context.Context, userID string, from, to time.Time) ([]model.Appointment, error) {
	if userID == "" {
		return nil, ErrInvalidParams
	}
	return s.store.ListAppointments(ctx, userID, from, to)
}

// Update edits title/notes/date of an owned appointment. The new date goes
// through the same truncation and conflict guard, excluding the record
// itself so it can move inside its own window.
func (s *Scheduler) Update(ctx context.Context, userID, id, title, notes string, date time.Time) (*model.Appointment, error) {
	if userID == "" {
		return nil, ErrInvalidParams
	}
	title = strings.TrimSpace(title)
	if id == "" || title == "" || date.IsZero() {
		return nil, ErrMissingData
	}

	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	start := date.Truncate(time.Minute)
	if err := s.guard(ctx, userID, start, id); err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Notes = strings.TrimSpace(notes)
	existing.AppointmentDate = start
	if err := s.store.UpdateAppointment(ctx, existing); err != nil {
		if store.IsExclusionViolation(err) {
			return nil, ErrConflict
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return existing, nil
}

func (s *Scheduler) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrInvalidParams
	}
	err := s.store.DeleteAppointment(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Scheduler) guard(ctx context.Context, userID string, start time.Time, excludeID string) error {
	dup, err := s.store.HasConflict(ctx, userID, start.Add(-ConflictWindow), start.Add(ConflictWindow), excludeID)
	if err != nil {
		return fmt.Errorf("conflict check: %w", err)
	}
	if dup {
		return ErrConflict
	}
	return nil
}
