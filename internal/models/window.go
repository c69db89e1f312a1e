package models

import "time"

// ReportWindow is an inclusive range of business dates, always a full,
// already-completed calendar month.
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// PreviousMonth returns the window covering the full calendar month before
// the month of now: first of the current month minus one day lands on the
// last day of the previous month, then that month's first day.
func PreviousMonth(now time.Time) ReportWindow {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastOfPrevious := firstOfCurrent.AddDate(0, 0, -1)
	firstOfPrevious := time.Date(lastOfPrevious.Year(), lastOfPrevious.Month(), 1, 0, 0, 0, 0, time.UTC)

	return ReportWindow{Start: firstOfPrevious, End: lastOfPrevious}
}

// MonthWindow returns the window for an explicit "YYYY-MM" month.
func MonthWindow(month string) (ReportWindow, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return ReportWindow{}, err
	}
	end := start.AddDate(0, 1, -1)
	return ReportWindow{Start: start, End: end}, nil
}

// Month formats the window as "YYYY-MM".
func (w ReportWindow) Month() string {
	return w.Start.Format("2006-01")
}

// MonthName formats the window as e.g. "January 2006".
func (w ReportWindow) MonthName() string {
	return w.Start.Format("January 2006")
}

// Days returns every business date in the window in ascending order.
func (w ReportWindow) Days() []time.Time {
	var days []time.Time
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
