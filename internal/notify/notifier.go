// Package notify schedules and cancels medication alerts. The Dispatcher
// drives an abstract platform Notifier; the in-process implementation pairs a
// timer queue with Telegram delivery.
package notify

import (
	"context"
	"errors"
	"time"
)

// Tag discriminates alert kinds so the tap handler can route responses.
type Tag string

const (
	TagReminder Tag = "medicine-reminder"
	TagSnooze   Tag = "medicine-reminder-snooze"
)

var (
	// ErrPermissionDenied means the platform refused notification
	// permission. Scheduling fails soft: no handles, reminder stays usable.
	ErrPermissionDenied = errors.New("notify: notification permission denied")

	// ErrStaleHandle means a cancel targeted a handle that already fired
	// or was never scheduled.
	ErrStaleHandle = errors.New("notify: stale notification handle")
)

// Payload is the alert content handed to the platform subsystem.
type Payload struct {
	ReminderID   string `json:"reminder_id"`
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
	ScheduledTime string `json:"scheduled_time"` // RFC 3339
	Tag          Tag    `json:"tag"`
}

// Notifier is the platform notification subsystem: it delivers one alert per
// ScheduleAt call and returns an opaque handle for later cancellation.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	ScheduleAt(ctx context.Context, at time.Time, payload Payload) (string, error)
	Cancel(ctx context.Context, handle string) error
}
