package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	FCMToken     string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Appointment is owned by a single user. FCMToken is a point-in-time
// snapshot of the owner's device token, stamped on create and update;
// the reminder sweep clears it when the push gateway reports the token
// as unregistered.
type Appointment struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"userId"`
	Title                string     `json:"title"`
	Notes                string     `json:"notes"`
	AppointmentDate      time.Time  `json:"appointmentDate"`
	ReminderSent         bool       `json:"reminderSent"`
	LastNotificationSent *time.Time `json:"lastNotificationSent,omitempty"`
	FCMToken             string     `json:"-"`
	TokenError           string     `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
