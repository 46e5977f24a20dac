// Package businessclock implements business-hours arithmetic for deadline
// tracking. A business hour is one hour whose arrival instant falls on a
// Monday–Friday calendar day, irrespective of time-of-day; there is no
// holiday calendar and no working-hour window within a day.
package businessclock

import "time"

// IsBusinessDay reports whether the instant falls on a Monday–Friday in its
// own location's calendar.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AddBusinessHours returns the instant n business hours after start. The
// calculation advances one hour at a time and counts only hours whose arrival
// lands on a business day, so a start on a weekend needs no special casing:
// the counter simply does not move until the first weekday hour arrives.
// n <= 0 returns start unchanged.
func AddBusinessHours(start time.Time, n int) time.Time {
	current := start
	for remaining := n; remaining > 0; {
		current = current.Add(time.Hour)
		if IsBusinessDay(current) {
			remaining--
		}
	}
	return current
}

// Deadline returns the response deadline for a case forwarded at the given
// instant with the given business-hour threshold.
func Deadline(forwardedAt time.Time, thresholdHours int) time.Time {
	return AddBusinessHours(forwardedAt, thresholdHours)
}

// IsOverdue reports whether now is strictly after the deadline computed from
// the reference instant and the business-hour threshold. Landing exactly on
// the deadline is not overdue.
func IsOverdue(reference, now time.Time, thresholdHours int) bool {
	return now.After(Deadline(reference, thresholdHours))
}
