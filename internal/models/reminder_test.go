package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validReminder() Reminder {
	start, _ := ParseDate("2025-01-01")
	end, _ := ParseDate("2025-01-10")
	return Reminder{
		ID:        "rem-1",
		Medicine:  Medicine{Name: "Augmentin", Dosage: "625mg"},
		Time:      TimeOfDay{Hour: 9},
		Frequency: FrequencyDaily,
		StartDate: start,
		EndDate:   end,
		Active:    true,
	}
}

func TestReminderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Reminder)
		wantOK  bool
		wantErr error
	}{
		{name: "valid", mutate: func(r *Reminder) {}, wantOK: true},
		{
			name:   "missing id",
			mutate: func(r *Reminder) { r.ID = "  " },
		},
		{
			name:   "missing medicine name",
			mutate: func(r *Reminder) { r.Medicine.Name = "" },
		},
		{
			name:    "unknown frequency",
			mutate:  func(r *Reminder) { r.Frequency = "weekly" },
			wantErr: ErrInvalidFrequency,
		},
		{
			name: "custom interval zero",
			mutate: func(r *Reminder) {
				r.Frequency = FrequencyCustom
				r.CustomInterval = 0
			},
			wantErr: ErrInvalidInterval,
		},
		{
			name: "inverted window",
			mutate: func(r *Reminder) {
				r.StartDate, r.EndDate = r.EndDate, r.StartDate
			},
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReminder()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantOK {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestReminderInterval(t *testing.T) {
	r := validReminder()
	require.Equal(t, 1, r.Interval())

	r.Frequency = FrequencyAlternate
	require.Equal(t, 2, r.Interval())

	r.Frequency = FrequencyCustom
	r.CustomInterval = 3
	require.Equal(t, 3, r.Interval())
}

func TestReminderActiveOn(t *testing.T) {
	r := validReminder()

	inside, _ := ParseDate("2025-01-05")
	before, _ := ParseDate("2024-12-31")
	after, _ := ParseDate("2025-01-11")

	require.True(t, r.ActiveOn(inside))
	require.True(t, r.ActiveOn(r.StartDate))
	require.True(t, r.ActiveOn(r.EndDate))
	require.False(t, r.ActiveOn(before))
	require.False(t, r.ActiveOn(after))

	r.Active = false
	require.False(t, r.ActiveOn(inside))
}

func TestIntakeLogValidate(t *testing.T) {
	log := IntakeLog{
		ID:           "log-1",
		ReminderID:   "rem-1",
		ScheduledFor: validReminder().StartDate.At(TimeOfDay{Hour: 9}, time.UTC),
		Status:       StatusTaken,
	}
	require.NoError(t, log.Validate())

	log.Status = StatusPending
	require.ErrorIs(t, log.Validate(), ErrInvalidIntakeStatus)
}
