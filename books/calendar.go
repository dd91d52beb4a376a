package books

import (
	"fmt"
	"sort"
	"time"

	"github.com/turyasin/collections/generic"
)

// =============================================================================
// CALENDAR BUCKETER
// =============================================================================

// DayCell is one square of a month grid. Blank cells pad the first week so
// day 1 lands in its weekday column; they have no date and no events.
type DayCell struct {
	Date           generic.Date
	Blank          bool
	IsToday        bool
	Invoices       []Invoice // due this day
	ReceivedChecks []Check   // due this day
	IssuedChecks   []Check   // due this day
	Payments       []Payment // made this day
}

func (c DayCell) InvoiceCount() int { return len(c.Invoices) }
func (c DayCell) CheckCount() int   { return len(c.ReceivedChecks) + len(c.IssuedChecks) }
func (c DayCell) PaymentCount() int { return len(c.Payments) }
func (c DayCell) EventCount() int   { return c.InvoiceCount() + c.CheckCount() + c.PaymentCount() }

// MonthGrid is the calendar of one month. Cells holds the leading blanks
// (0=Sunday column numbering) followed by one cell per day. The last week
// is not padded.
type MonthGrid struct {
	Year   int
	Month  time.Month
	Period generic.Period
	Cells  []DayCell
}

// LeadingBlanks is the weekday of the first of the month, Sunday = 0.
func (g MonthGrid) LeadingBlanks() int { return int(g.Period.Start.Weekday()) }

// Day returns the cell for day-of-month n.
func (g MonthGrid) Day(n int) (DayCell, bool) {
	i := g.LeadingBlanks() + n - 1
	if n < 1 || i >= len(g.Cells) {
		return DayCell{}, false
	}
	return g.Cells[i], true
}

// BuildMonthGrid places every entity whose relevant date falls in the target
// month on exactly one day cell: invoices and checks by due date, payments
// by payment date. Matching is exact calendar-date equality. asOf marks the
// IsToday cell; a zero asOf marks none.
func BuildMonthGrid(year int, month time.Month, asOf generic.Date, invoices []Invoice, checks []Check, payments []Payment) (MonthGrid, error) {
	const op = "buildMonthGrid"
	if month < time.January || month > time.December {
		return MonthGrid{}, fmt.Errorf("%w: month %d", generic.ErrInvalidPeriod, month)
	}
	if year < 1 || year > 9999 {
		return MonthGrid{}, fmt.Errorf("%w: year %d", generic.ErrInvalidPeriod, year)
	}
	if err := checkAll(op, invoices, checks, payments); err != nil {
		return MonthGrid{}, err
	}

	period := generic.MonthPeriod(year, month)
	grid := MonthGrid{Year: year, Month: month, Period: period}

	blanks := int(period.Start.Weekday())
	grid.Cells = make([]DayCell, blanks, blanks+period.Len())
	for i := range grid.Cells {
		grid.Cells[i].Blank = true
	}

	// Day-of-month index into Cells. Only dates inside period are looked up.
	cell := func(d generic.Date) *DayCell {
		return &grid.Cells[blanks+d.Day()-1]
	}
	for _, day := range period.Days() {
		grid.Cells = append(grid.Cells, DayCell{Date: day, IsToday: !asOf.IsZero() && day.Equal(asOf)})
	}

	for _, inv := range invoices {
		if period.Contains(inv.DueDate) {
			c := cell(inv.DueDate)
			c.Invoices = append(c.Invoices, inv)
		}
	}
	for _, chk := range checks {
		if !period.Contains(chk.DueDate) {
			continue
		}
		c := cell(chk.DueDate)
		if chk.Type == CheckReceived {
			c.ReceivedChecks = append(c.ReceivedChecks, chk)
		} else {
			c.IssuedChecks = append(c.IssuedChecks, chk)
		}
	}
	for _, p := range payments {
		if period.Contains(p.PaymentDate) {
			c := cell(p.PaymentDate)
			c.Payments = append(c.Payments, p)
		}
	}

	// Cell contents must not depend on input order.
	for i := range grid.Cells {
		c := &grid.Cells[i]
		sortByID(c.Invoices, func(v Invoice) string { return v.ID })
		sortByID(c.ReceivedChecks, func(v Check) string { return v.ID })
		sortByID(c.IssuedChecks, func(v Check) string { return v.ID })
		sortByID(c.Payments, func(v Payment) string { return v.ID })
	}
	return grid, nil
}

func sortByID[T any](items []T, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
