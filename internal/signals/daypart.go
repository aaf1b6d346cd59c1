package signals

import "time"

// Daypart buckets an hour of day into morning/afternoon/evening/night.
// Dayparting is computed in UTC even when a geo timezone signal is available;
// the collected timezone is informational only.
func Daypart(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
