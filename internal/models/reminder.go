package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyAlternate Frequency = "alternate"
	FrequencyCustom    Frequency = "custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyAlternate, FrequencyCustom:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidFrequency = errors.New("models: invalid frequency")
	ErrInvalidInterval  = errors.New("models: custom interval must be at least 1 day")
	ErrInvalidWindow    = errors.New("models: end date is before start date")
)

// Medicine is the prescription descriptor carried on a reminder. The engine
// passes it through to notifications untouched.
type Medicine struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Instructions string `json:"instructions"`
}

// Reminder is a recurring medication schedule: take Medicine at Time every
// Interval() days between StartDate and EndDate inclusive.
type Reminder struct {
	ID              string    `json:"id"`
	Medicine        Medicine  `json:"medicine"`
	Doctor          string    `json:"doctor"`
	Time            TimeOfDay `json:"time"`
	Frequency       Frequency `json:"frequency"`
	CustomInterval  int       `json:"custom_interval,omitempty"`
	StartDate       Date      `json:"start_date"`
	EndDate         Date      `json:"end_date"`
	Active          bool      `json:"is_active"`
	NotificationIDs []string  `json:"notification_ids"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("models: reminder id is required")
	}
	if strings.TrimSpace(r.Medicine.Name) == "" {
		return errors.New("models: medicine name is required")
	}
	if !r.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	if r.Frequency == FrequencyCustom && r.CustomInterval < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.CustomInterval)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return errors.New("models: start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidWindow, r.StartDate, r.EndDate)
	}
	return nil
}

// Interval returns the repetition interval in days.
func (r Reminder) Interval() int {
	switch r.Frequency {
	case FrequencyAlternate:
		return 2
	case FrequencyCustom:
		if r.CustomInterval >= 1 {
			return r.CustomInterval
		}
		return 1
	default:
		return 1
	}
}

// ActiveOn reports whether the reminder is active and the date falls inside
// its validity window.
func (r Reminder) ActiveOn(d Date) bool {
	return r.Active && !d.Before(r.StartDate) && !d.After(r.EndDate)
}
