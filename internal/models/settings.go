package models

import (
	"errors"
	"time"
)

// NotificationSettings is process-wide alerting configuration. It is loaded
// once at startup and threaded explicitly into dispatcher calls rather than
// read from ambient state.
type NotificationSettings struct {
	PushEnabled    bool      `json:"push_notifications"`
	SoundEnabled   bool      `json:"sound_alerts"`
	SnoozeMinutes  int       `json:"snooze_duration"`
	AdvanceMinutes int       `json:"reminder_advance"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		PushEnabled:    true,
		SoundEnabled:   false,
		SnoozeMinutes:  5,
		AdvanceMinutes: 0,
	}
}

func (s NotificationSettings) Validate() error {
	if s.SnoozeMinutes <= 0 {
		return errors.New("models: snooze duration must be positive")
	}
	if s.AdvanceMinutes < 0 {
		return errors.New("models: reminder advance cannot be negative")
	}
	return nil
}
