package notify

import (
	"context"
	"log"
	"time"

	"github.com/dhruvj27/rxscan/internal/models"
	"github.com/dhruvj27/rxscan/internal/schedule"
)

// Dispatcher turns reminder definitions into scheduled platform alerts. It is
// stateless between calls; the returned handles belong to the caller, who
// persists them on the reminder record.
type Dispatcher struct {
	notifier Notifier
}

func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Schedule replaces the reminder's outstanding alert set with one alert per
// future occurrence and returns the new handles in occurrence order.
//
// Any previously outstanding handles are cancelled first, so calling this
// after an edit never duplicates alerts. Permission refusal fails soft with
// ErrPermissionDenied and no handles. Per-occurrence registration failures
// are logged and skipped; the caller can compare the handle count with the
// expected occurrence count to detect a shortfall.
func (d *Dispatcher) Schedule(ctx context.Context, rem models.Reminder, st models.NotificationSettings, now time.Time) ([]string, error) {
	granted, err := d.notifier.RequestPermission(ctx)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrPermissionDenied
	}

	if len(rem.NotificationIDs) > 0 {
		d.Cancel(ctx, rem.NotificationIDs)
	}
	if !rem.Active || !st.PushEnabled {
		return nil, nil
	}

	advance := time.Duration(st.AdvanceMinutes) * time.Minute
	var handles []string
	for _, occ := range schedule.Occurrences(rem, now) {
		payload := Payload{
			ReminderID:    rem.ID,
			MedicineName:  rem.Medicine.Name,
			Dosage:        rem.Medicine.Dosage,
			Instructions:  rem.Medicine.Instructions,
			ScheduledTime: occ.Format(time.RFC3339),
			Tag:           TagReminder,
		}
		handle, err := d.notifier.ScheduleAt(ctx, occ.Add(-advance), payload)
		if err != nil {
			log.Printf("Failed to schedule alert for reminder %s at %s: %v", rem.ID, occ, err)
			continue
		}
		handles = append(handles, handle)
	}
	return handles, nil
}

// Cancel drops the given handles best-effort. A stale or failing handle does
// not stop cancellation of the rest.
func (d *Dispatcher) Cancel(ctx context.Context, handles []string) {
	for _, handle := range handles {
		if err := d.notifier.Cancel(ctx, handle); err != nil {
			log.Printf("Failed to cancel notification %s: %v", handle, err)
		}
	}
}

// Snooze schedules a single one-off alert snoozeMinutes from now, carrying
// the original reminder id so a tap still resolves to the right record.
func (d *Dispatcher) Snooze(ctx context.Context, rem models.Reminder, snoozeMinutes int, now time.Time) (string, error) {
	at := now.Add(time.Duration(snoozeMinutes) * time.Minute)
	payload := Payload{
		ReminderID:    rem.ID,
		MedicineName:  rem.Medicine.Name,
		Dosage:        rem.Medicine.Dosage,
		Instructions:  rem.Medicine.Instructions,
		ScheduledTime: at.Format(time.RFC3339),
		Tag:           TagSnooze,
	}
	return d.notifier.ScheduleAt(ctx, at, payload)
}
