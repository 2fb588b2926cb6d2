// Package rrule maps reminder schedules to RFC 5545 recurrence rules for
// calendar export and human-readable descriptions.
package rrule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/dhruvj27/rxscan/internal/models"
)

// RuleFor builds the recurrence rule equivalent to the reminder's schedule:
// a daily rule with the reminder's interval, anchored at the first scheduled
// time and bounded by the end date.
func RuleFor(rem models.Reminder, loc *time.Location) (*rrule.RRule, error) {
	if rem.EndDate.Before(rem.StartDate) {
		return nil, fmt.Errorf("rrule: inverted validity window %s > %s", rem.StartDate, rem.EndDate)
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: rem.Interval(),
		Dtstart:  rem.StartDate.At(rem.Time, loc),
		Until:    rem.EndDate.At(rem.Time, loc),
	})
}

// ExportString renders the reminder as an iCalendar recurrence block
// (DTSTART plus RRULE), suitable for pasting into calendar apps.
func ExportString(rem models.Reminder, loc *time.Location) (string, error) {
	rule, err := RuleFor(rem, loc)
	if err != nil {
		return "", err
	}
	return rule.String(), nil
}

// Describe returns an English description of the schedule for chat messages.
func Describe(rem models.Reminder) string {
	var every string
	switch rem.Interval() {
	case 1:
		every = "every day"
	case 2:
		every = "every 2 days"
	default:
		every = fmt.Sprintf("every %d days", rem.Interval())
	}
	return fmt.Sprintf("%s at %s until %s", every, rem.Time, rem.EndDate)
}
