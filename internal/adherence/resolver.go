// Package adherence derives intake status and adherence statistics from
// reminder definitions and the intake log. Everything here is a pure
// function over its inputs.
package adherence

import (
	"time"

	"github.com/dhruvj27/rxscan/internal/models"
)

// ResolveToday classifies a reminder's occurrence for now's date as taken,
// skipped, missed, or pending.
//
// A log entry written today for this reminder is authoritative and returned
// verbatim; when several exist the most recently logged one wins. Without an
// entry, a scheduled time strictly before now is missed, anything else is
// still pending. Pending is never persisted, it is recomputed on every call
// so it cannot go stale when the clock passes the scheduled time.
func ResolveToday(rem models.Reminder, entries []models.IntakeLog, now time.Time) models.IntakeStatus {
	today := models.DateOf(now)

	var latest *models.IntakeLog
	for i := range entries {
		e := &entries[i]
		if e.ReminderID != rem.ID {
			continue
		}
		if !models.DateOf(e.LoggedAt.In(now.Location())).Equal(today) {
			continue
		}
		if latest == nil || e.LoggedAt.After(latest.LoggedAt) {
			latest = e
		}
	}
	if latest != nil {
		return latest.Status
	}

	scheduled := today.At(rem.Time, now.Location())
	if scheduled.Before(now) {
		return models.StatusMissed
	}
	return models.StatusPending
}

// DayCounts summarises today's reminders by derived status.
type DayCounts struct {
	Total   int `json:"total"`
	Taken   int `json:"taken"`
	Pending int `json:"pending"`
	Missed  int `json:"missed"`
	Skipped int `json:"skipped"`
}

// CountToday tallies the derived status of every reminder active on now's
// date.
func CountToday(rems []models.Reminder, entries []models.IntakeLog, now time.Time) DayCounts {
	today := models.DateOf(now)

	var counts DayCounts
	for _, rem := range rems {
		if !rem.ActiveOn(today) {
			continue
		}
		counts.Total++
		switch ResolveToday(rem, entries, now) {
		case models.StatusTaken:
			counts.Taken++
		case models.StatusSkipped:
			counts.Skipped++
		case models.StatusMissed:
			counts.Missed++
		default:
			counts.Pending++
		}
	}
	return counts
}
