// Package schedule computes the concrete occurrence times of a medication
// reminder. It is pure date arithmetic with no I/O.
package schedule

import (
	"time"

	"github.com/dhruvj27/rxscan/internal/models"
)

// Occurrences expands a reminder into the ordered future occurrence times as
// seen from now, in now's location.
//
// The first candidate sits on the later of the start date and now's date. A
// candidate at or before now moves ahead one calendar day, and the interval
// counter restarts from that adjusted candidate rather than realigning to the
// start date. Stepping continues while the candidate's date stays inside the
// validity window. The result is finite, strictly ascending, and empty when
// the window is inverted or already behind now.
func Occurrences(rem models.Reminder, now time.Time) []time.Time {
	if rem.EndDate.Before(rem.StartDate) {
		return nil
	}

	anchor := rem.StartDate
	if today := models.DateOf(now); anchor.Before(today) {
		anchor = today
	}

	loc := now.Location()
	candidate := anchor.At(rem.Time, loc)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	interval := rem.Interval()
	var out []time.Time
	for !models.DateOf(candidate).After(rem.EndDate) {
		out = append(out, candidate)
		candidate = candidate.AddDate(0, 0, interval)
	}
	return out
}

// Next returns the first future occurrence, or false when none remain.
func Next(rem models.Reminder, now time.Time) (time.Time, bool) {
	occ := Occurrences(rem, now)
	if len(occ) == 0 {
		return time.Time{}, false
	}
	return occ[0], true
}

// OccursOn reports whether d is an occurrence day of the reminder, with the
// interval phase anchored to the start date. Historical classification (for
// example the missed-intake sweep) uses this instead of Occurrences, which
// only looks forward.
func OccursOn(rem models.Reminder, d models.Date) bool {
	if d.Before(rem.StartDate) || d.After(rem.EndDate) {
		return false
	}
	return d.DaysSince(rem.StartDate)%rem.Interval() == 0
}
