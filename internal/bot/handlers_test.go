package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhruvj27/rxscan/internal/models"
)

func TestParseAddArgs(t *testing.T) {
	rem, err := parseAddArgs("Aspirin | 100mg | 09:00 | daily | 2025-01-01 | 2025-01-31 | with food")
	require.NoError(t, err)
	require.Equal(t, "Aspirin", rem.Medicine.Name)
	require.Equal(t, "100mg", rem.Medicine.Dosage)
	require.Equal(t, "with food", rem.Medicine.Instructions)
	require.Equal(t, models.TimeOfDay{Hour: 9}, rem.Time)
	require.Equal(t, models.FrequencyDaily, rem.Frequency)
	require.Equal(t, models.Date{Year: 2025, Month: 1, Day: 1}, rem.StartDate)
	require.Equal(t, models.Date{Year: 2025, Month: 1, Day: 31}, rem.EndDate)
	require.True(t, rem.Active)
	require.NotEmpty(t, rem.ID)
}

func TestParseAddArgsCustomInterval(t *testing.T) {
	rem, err := parseAddArgs("Ibuprofen | 200mg | 21:30 | 3 | 2025-02-01 | 2025-02-28")
	require.NoError(t, err)
	require.Equal(t, models.FrequencyCustom, rem.Frequency)
	require.Equal(t, 3, rem.CustomInterval)
	require.Equal(t, 3, rem.Interval())
	require.Empty(t, rem.Medicine.Instructions)
}

func TestParseAddArgsAlternate(t *testing.T) {
	rem, err := parseAddArgs("B12 | 1 tab | 08:00 | alternate | 2025-03-01 | 2025-03-31")
	require.NoError(t, err)
	require.Equal(t, models.FrequencyAlternate, rem.Frequency)
	require.Equal(t, 2, rem.Interval())
}

func TestParseAddArgsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"too few fields", "Aspirin | 100mg | 09:00"},
		{"bad time", "Aspirin | 100mg | 9am | daily | 2025-01-01 | 2025-01-31"},
		{"bad frequency", "Aspirin | 100mg | 09:00 | weekly | 2025-01-01 | 2025-01-31"},
		{"zero interval", "Aspirin | 100mg | 09:00 | 0 | 2025-01-01 | 2025-01-31"},
		{"bad start date", "Aspirin | 100mg | 09:00 | daily | 01/01/2025 | 2025-01-31"},
		{"inverted window", "Aspirin | 100mg | 09:00 | daily | 2025-01-31 | 2025-01-01"},
		{"empty name", " | 100mg | 09:00 | daily | 2025-01-01 | 2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAddArgs(tt.args)
			require.Error(t, err)
		})
	}
}

func TestShortID(t *testing.T) {
	require.Equal(t, "0199c2a1", shortID("0199c2a1-7e12-4c55-9a31-8d2f1c0b44aa"))
	require.Equal(t, "abc", shortID("abc"))
}

func TestParseOnOff(t *testing.T) {
	v, err := parseOnOff("on")
	require.NoError(t, err)
	require.True(t, v)

	v, err = parseOnOff("off")
	require.NoError(t, err)
	require.False(t, v)

	_, err = parseOnOff("yes")
	require.Error(t, err)
}
