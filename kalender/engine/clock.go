package engine

import "time"

// Clock is the single source of "now" for the engine. Content gating and
// alert timestamps go through it so tests can pin the calendar.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

// CalendarDay maps a timestamp to the calendar day 1..24. The season runs
// Dec 1-24; the rest of December and all of January stay open at 24, then
// the calendar closes (0) until the next December.
func CalendarDay(t time.Time) int {
	switch t.Month() {
	case time.December:
		if day := t.Day(); day <= 24 {
			return day
		}
		return 24
	case time.January:
		return 24
	default:
		return 0
	}
}
