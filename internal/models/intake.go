package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type IntakeStatus string

const (
	StatusTaken   IntakeStatus = "taken"
	StatusSkipped IntakeStatus = "skipped"
	StatusMissed  IntakeStatus = "missed"

	// StatusPending is derived, never written to the log. The resolver
	// returns it for occurrences whose time has not passed yet.
	StatusPending IntakeStatus = "pending"
)

var ErrInvalidIntakeStatus = errors.New("models: invalid intake status")

// Persistable reports whether the status may be stored in an intake log.
func (s IntakeStatus) Persistable() bool {
	switch s {
	case StatusTaken, StatusSkipped, StatusMissed:
		return true
	default:
		return false
	}
}

// IntakeLog records what happened at one scheduled occurrence. It references
// the reminder by id only and survives reminder edits and deletion, so
// historical adherence reporting keeps working.
type IntakeLog struct {
	ID           string       `json:"id"`
	ReminderID   string       `json:"reminder_id"`
	ScheduledFor time.Time    `json:"scheduled_time"`
	LoggedAt     time.Time    `json:"logged_at"`
	Status       IntakeStatus `json:"status"`
	Note         string       `json:"note,omitempty"`
}

func (l IntakeLog) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("models: intake log id is required")
	}
	if strings.TrimSpace(l.ReminderID) == "" {
		return errors.New("models: intake log reminder_id is required")
	}
	if l.ScheduledFor.IsZero() {
		return errors.New("models: intake log scheduled_time is required")
	}
	if !l.Status.Persistable() {
		return fmt.Errorf("%w: %q", ErrInvalidIntakeStatus, l.Status)
	}
	return nil
}
