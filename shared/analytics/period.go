package analytics

import "time"

const monthKeyLayout = "2006-01"

// monthWindow holds the calendar month boundaries relative to a reference instant
type monthWindow struct {
	thisMonthStart time.Time
	lastMonthStart time.Time
}

func newMonthWindow(now time.Time) monthWindow {
	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return monthWindow{
		thisMonthStart: thisMonthStart,
		lastMonthStart: thisMonthStart.AddDate(0, -1, 0),
	}
}

// calendarDay pins a rollup date to midnight in the window's location,
// comparing the stored calendar date rather than the instant.
func (w monthWindow) calendarDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, w.thisMonthStart.Location())
}

// inThisMonth reports whether the date falls on or after the first day of the current month
func (w monthWindow) inThisMonth(date time.Time) bool {
	return !w.calendarDay(date).Before(w.thisMonthStart)
}

// inLastMonth reports whether the date falls inside the previous calendar month
func (w monthWindow) inLastMonth(date time.Time) bool {
	day := w.calendarDay(date)
	return !day.Before(w.lastMonthStart) && day.Before(w.thisMonthStart)
}

func monthKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(monthKeyLayout)
}
