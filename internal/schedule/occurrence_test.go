package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhruvj27/rxscan/internal/models"
)

func mkReminder(t *testing.T, timeOfDay, freq string, interval int, start, end string) models.Reminder {
	t.Helper()
	tod, err := models.ParseTimeOfDay(timeOfDay)
	require.NoError(t, err)
	startDate, err := models.ParseDate(start)
	require.NoError(t, err)
	endDate, err := models.ParseDate(end)
	require.NoError(t, err)
	return models.Reminder{
		ID:             "rem-1",
		Medicine:       models.Medicine{Name: "Augmentin", Dosage: "625mg"},
		Time:           tod,
		Frequency:      models.Frequency(freq),
		CustomInterval: interval,
		StartDate:      startDate,
		EndDate:        endDate,
		Active:         true,
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02T15:04", value, time.UTC)
	require.NoError(t, err)
	return parsed
}

func TestOccurrencesDailyBeforeTodaysSlot(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-01", "2025-01-05")
	got := Occurrences(rem, at(t, "2025-01-01T08:00"))

	require.Len(t, got, 5)
	require.Equal(t, at(t, "2025-01-01T09:00"), got[0])
	require.Equal(t, at(t, "2025-01-05T09:00"), got[4])
}

func TestOccurrencesDailyAfterTodaysSlot(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-01", "2025-01-05")
	got := Occurrences(rem, at(t, "2025-01-01T10:00"))

	require.Len(t, got, 4)
	require.Equal(t, at(t, "2025-01-02T09:00"), got[0])
	require.Equal(t, at(t, "2025-01-05T09:00"), got[3])
}

func TestOccurrencesExactlyAtSlotSkipsToday(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-01", "2025-01-05")
	got := Occurrences(rem, at(t, "2025-01-01T09:00"))

	require.Len(t, got, 4)
	require.Equal(t, at(t, "2025-01-02T09:00"), got[0])
}

func TestOccurrencesCustomInterval(t *testing.T) {
	rem := mkReminder(t, "09:00", "custom", 3, "2025-01-01", "2025-01-10")
	got := Occurrences(rem, at(t, "2025-01-01T00:00"))

	want := []time.Time{
		at(t, "2025-01-01T09:00"),
		at(t, "2025-01-04T09:00"),
		at(t, "2025-01-07T09:00"),
		at(t, "2025-01-10T09:00"),
	}
	require.Equal(t, want, got)
}

func TestOccurrencesIntervalLaw(t *testing.T) {
	tests := []struct {
		freq     string
		interval int
		wantDays int
	}{
		{freq: "daily", wantDays: 1},
		{freq: "alternate", wantDays: 2},
		{freq: "custom", interval: 5, wantDays: 5},
	}

	for _, tt := range tests {
		t.Run(tt.freq, func(t *testing.T) {
			rem := mkReminder(t, "08:30", tt.freq, tt.interval, "2025-02-01", "2025-03-01")
			got := Occurrences(rem, at(t, "2025-02-01T00:00"))
			require.NotEmpty(t, got)
			for i := 1; i < len(got); i++ {
				require.Equal(t, tt.wantDays, models.DateOf(got[i]).DaysSince(models.DateOf(got[i-1])))
			}
		})
	}
}

func TestOccurrencesBoundedAndAscending(t *testing.T) {
	rem := mkReminder(t, "21:15", "alternate", 0, "2025-01-01", "2025-02-15")
	got := Occurrences(rem, at(t, "2025-01-07T23:00"))

	require.NotEmpty(t, got)
	for i, occ := range got {
		require.False(t, models.DateOf(occ).After(rem.EndDate))
		if i > 0 {
			require.True(t, got[i-1].Before(occ))
		}
	}
}

func TestOccurrencesDeterministic(t *testing.T) {
	rem := mkReminder(t, "09:00", "custom", 4, "2025-01-01", "2025-04-01")
	now := at(t, "2025-01-15T12:00")

	first := Occurrences(rem, now)
	second := Occurrences(rem, now)
	require.Equal(t, first, second)
}

func TestOccurrencesEmptyWhenExpired(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-01", "2025-01-05")
	require.Empty(t, Occurrences(rem, at(t, "2025-01-06T00:00")))
}

func TestOccurrencesEmptyWhenWindowInverted(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-10", "2025-01-01")
	require.Empty(t, Occurrences(rem, at(t, "2025-01-01T00:00")))
}

func TestOccurrencesStartInFuture(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-03-01", "2025-03-03")
	got := Occurrences(rem, at(t, "2025-01-01T00:00"))

	require.Len(t, got, 3)
	require.Equal(t, at(t, "2025-03-01T09:00"), got[0])
}

func TestNext(t *testing.T) {
	rem := mkReminder(t, "09:00", "daily", 0, "2025-01-01", "2025-01-05")

	next, ok := Next(rem, at(t, "2025-01-03T10:00"))
	require.True(t, ok)
	require.Equal(t, at(t, "2025-01-04T09:00"), next)

	_, ok = Next(rem, at(t, "2025-02-01T00:00"))
	require.False(t, ok)
}

func TestOccursOn(t *testing.T) {
	rem := mkReminder(t, "09:00", "custom", 3, "2025-01-01", "2025-01-10")

	cases := map[string]bool{
		"2024-12-31": false,
		"2025-01-01": true,
		"2025-01-02": false,
		"2025-01-04": true,
		"2025-01-07": true,
		"2025-01-10": true,
		"2025-01-11": false,
	}
	for day, want := range cases {
		d, err := models.ParseDate(day)
		require.NoError(t, err)
		require.Equal(t, want, OccursOn(rem, d), day)
	}
}
