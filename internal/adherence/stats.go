package adherence

import (
	"math"
	"time"

	"github.com/dhruvj27/rxscan/internal/models"
)

// Stats is an adherence summary over a time window.
type Stats struct {
	Taken         int `json:"taken"`
	Total         int `json:"total"`
	AdherenceRate int `json:"adherence_rate"` // percent, 0-100
}

// ComputeStats estimates adherence over [windowStart, windowEnd].
//
// The expected occurrence count per active reminder is ceil(days/interval)
// over the intersection of the window with the reminder's validity window.
// That is a model of the schedule, not a replay of it: the estimate ignores
// how occurrences actually align inside the intersection, which keeps the
// computation cheap over long histories. Callers needing exact counts should
// expand occurrences through the schedule package instead.
func ComputeStats(rems []models.Reminder, entries []models.IntakeLog, windowStart, windowEnd time.Time) Stats {
	loc := windowEnd.Location()

	total := 0
	for _, rem := range rems {
		if !rem.Active {
			continue
		}
		start := rem.StartDate.At(models.TimeOfDay{}, loc)
		end := rem.EndDate.At(models.TimeOfDay{}, loc)
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		if !start.Before(end) {
			continue
		}
		days := int(math.Ceil(end.Sub(start).Hours() / 24))
		interval := rem.Interval()
		total += (days + interval - 1) / interval
	}

	taken := 0
	for _, e := range entries {
		if e.Status != models.StatusTaken {
			continue
		}
		if e.LoggedAt.Before(windowStart) || e.LoggedAt.After(windowEnd) {
			continue
		}
		taken++
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(100 * float64(taken) / float64(total)))
	}
	return Stats{Taken: taken, Total: total, AdherenceRate: rate}
}
