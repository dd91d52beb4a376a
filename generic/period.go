package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive range of calendar days
// =============================================================================

// Period is the closed range [Start, End] of calendar days.
//
// Examples:
//   - A month grid: Mar 1 - Mar 31
//   - A schedule week: Mon Mar 4 - Sun Mar 10
//   - A quarter: Jan 1 - Mar 31
type Period struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// NewPeriod builds a period, rejecting one that ends before it starts.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if d is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period in order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len is the number of days in the period.
func (p Period) Len() int { return DaysBetween(p.Start, p.End) + 1 }

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// NextPeriod returns the period of equal length starting the day after End.
func (p Period) NextPeriod() Period {
	newStart := p.End.AddDays(1)
	return Period{Start: newStart, End: newStart.AddDays(DaysBetween(p.Start, p.End))}
}

// PreviousPeriod returns the period of equal length ending the day before Start.
func (p Period) PreviousPeriod() Period {
	newEnd := p.Start.AddDays(-1)
	return Period{Start: newEnd.AddDays(-DaysBetween(p.Start, p.End)), End: newEnd}
}

// =============================================================================
// CALENDAR PERIODS
// =============================================================================

// WeekOf returns the Monday-to-Sunday week containing d.
func WeekOf(d Date) Period {
	start := StartOfWeek(d)
	return Period{Start: start, End: start.AddDays(6)}
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Period {
	return MonthPeriod(d.Year(), d.Month())
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// QuarterOf returns the calendar quarter containing d.
func QuarterOf(d Date) Period {
	first := time.Month((d.Quarter()-1)*3 + 1)
	return Period{Start: StartOfMonth(d.Year(), first), End: EndOfMonth(d.Year(), first+2)}
}

// Weeks returns n contiguous Monday-start weeks, the first containing from.
func Weeks(from Date, n int) []Period {
	weeks := make([]Period, 0, n)
	week := WeekOf(from)
	for i := 0; i < n; i++ {
		weeks = append(weeks, week)
		week = week.NextPeriod()
	}
	return weeks
}
