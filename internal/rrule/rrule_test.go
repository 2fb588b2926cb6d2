package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhruvj27/rxscan/internal/models"
	"github.com/dhruvj27/rxscan/internal/schedule"
)

func mkReminder(t *testing.T, freq string, interval int, start, end string) models.Reminder {
	t.Helper()
	startDate, err := models.ParseDate(start)
	require.NoError(t, err)
	endDate, err := models.ParseDate(end)
	require.NoError(t, err)
	return models.Reminder{
		ID:             "rem-1",
		Medicine:       models.Medicine{Name: "Enzoflam"},
		Time:           models.TimeOfDay{Hour: 9},
		Frequency:      models.Frequency(freq),
		CustomInterval: interval,
		StartDate:      startDate,
		EndDate:        endDate,
		Active:         true,
	}
}

// The exported rule and the occurrence generator agree whenever the interval
// phase is anchored at the start date, i.e. when nothing has been skipped
// yet.
func TestRuleMatchesOccurrenceGenerator(t *testing.T) {
	rem := mkReminder(t, "custom", 3, "2025-01-01", "2025-01-10")

	rule, err := RuleFor(rem, time.UTC)
	require.NoError(t, err)

	now := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	want := schedule.Occurrences(rem, now)
	got := rule.All()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, want[i].Equal(got[i]), "occurrence %d: want %s got %s", i, want[i], got[i])
	}
}

func TestRuleForInvertedWindow(t *testing.T) {
	rem := mkReminder(t, "daily", 0, "2025-01-10", "2025-01-01")
	_, err := RuleFor(rem, time.UTC)
	require.Error(t, err)
}

func TestExportString(t *testing.T) {
	rem := mkReminder(t, "alternate", 0, "2025-01-01", "2025-01-10")
	out, err := ExportString(rem, time.UTC)
	require.NoError(t, err)
	require.Contains(t, out, "FREQ=DAILY")
	require.Contains(t, out, "INTERVAL=2")
	require.Contains(t, out, "DTSTART")
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "every day at 09:00 until 2025-01-10",
		Describe(mkReminder(t, "daily", 0, "2025-01-01", "2025-01-10")))
	require.Equal(t, "every 2 days at 09:00 until 2025-01-10",
		Describe(mkReminder(t, "alternate", 0, "2025-01-01", "2025-01-10")))
	require.Equal(t, "every 5 days at 09:00 until 2025-01-10",
		Describe(mkReminder(t, "custom", 5, "2025-01-01", "2025-01-10")))
}
