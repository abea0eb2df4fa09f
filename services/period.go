package services

import "time"

// MonthKey formats the "YYYY-MM" period key for the given moment.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// WindowStart is the first calendar day of t's month, as the portal's
// startDate query value.
func WindowStart(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format("2006-01-02")
}

// WindowEnd is t's day at 23:59:59, as the portal's endDate query value.
func WindowEnd(t time.Time) string {
	return t.Format("2006-01-02") + "T23:59:59"
}
