package followup

import "time"

// StartOfDay truncates t to midnight of its calendar day in loc.
// A nil loc means UTC.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// AddDays moves a day-start forward by n calendar days, keeping it at midnight
// across DST changes.
func AddDays(day time.Time, n int, loc *time.Location) time.Time {
	return StartOfDay(StartOfDay(day, loc).AddDate(0, 0, n), loc)
}

// DaysBetween counts whole calendar days from start to end.
func DaysBetween(start, end time.Time, loc *time.Location) int {
	s := StartOfDay(start, loc)
	e := StartOfDay(end, loc)
	days := 0
	for s.Before(e) {
		s = s.AddDate(0, 0, 1)
		days++
	}
	for e.Before(s) {
		e = e.AddDate(0, 0, 1)
		days--
	}
	return days
}
