package report

import "time"

// WeekWindow returns the weekly report window: from the most recent Saturday
// 00:00:00 UTC (inclusive) through now (inclusive). Recomputed fresh at each
// trigger, so it is not a fixed trailing 7 days.
func WeekWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	daysBack := (int(now.Weekday()) - int(time.Saturday) + 7) % 7
	day := now.AddDate(0, 0, -daysBack)
	start = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, now
}

// MonthWindow returns the monthly report window: the first day of the current
// month 00:00:00 UTC through one second before the first day of the next
// month, inclusive both ends.
func MonthWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// LastDayOfMonth reports whether t falls on the last calendar day of its
// month (UTC).
func LastDayOfMonth(t time.Time) bool {
	t = t.UTC()
	return t.AddDate(0, 0, 1).Month() != t.Month()
}
