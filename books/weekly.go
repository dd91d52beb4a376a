package books

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// WEEKLY SCHEDULE BUILDER
// =============================================================================

// DefaultWeekCount is the length of the schedule when the caller passes none.
const DefaultWeekCount = 4

// MaxWeekCount is the longest schedule callers may request, one year.
const MaxWeekCount = 52

// CheckWeekCount rejects schedule lengths above MaxWeekCount. Zero and
// negative counts are allowed and mean DefaultWeekCount.
func CheckWeekCount(n int) error {
	if n > MaxWeekCount {
		return fmt.Errorf("weeks must be at most %d, got %d: %w", MaxWeekCount, n, ErrValidation)
	}
	return nil
}

// Week is one Monday-to-Sunday window of the payment schedule.
type Week struct {
	Index     int
	Label     string // "This week", "Next week", "Week 3", ...
	DateRange string // "04.03.2024 - 10.03.2024"
	Period    generic.Period

	ReceivedChecks []Check   // received checks due in the window
	IssuedChecks   []Check   // issued checks due in the window
	InvoicesDue    []Invoice // invoices not paid, due in the window

	// TotalReceivable counts received checks plus the unpaid remainder of
	// each invoice due; collected portions are not counted twice.
	TotalReceivable decimal.Decimal
	TotalPayable    decimal.Decimal
}

// Net is receivable minus payable for the week.
func (w Week) Net() decimal.Decimal { return w.TotalReceivable.Sub(w.TotalPayable) }

// IsEmpty reports whether nothing falls due in the week.
func (w Week) IsEmpty() bool {
	return len(w.ReceivedChecks) == 0 && len(w.IssuedChecks) == 0 && len(w.InvoicesDue) == 0
}

// BuildWeeklySchedule projects weekCount contiguous Monday-start weeks, the
// first containing ref, and buckets checks and unpaid invoices by due date.
// Every week is emitted, empty or not. Check status does not exclude a check.
func BuildWeeklySchedule(ref generic.Date, weekCount int, invoices []Invoice, checks []Check) ([]Week, error) {
	const op = "buildWeeklySchedule"
	if ref.IsZero() {
		return nil, ErrReferenceDateRequired
	}
	if weekCount <= 0 {
		weekCount = DefaultWeekCount
	}
	if err := checkAll(op, invoices, checks, nil); err != nil {
		return nil, err
	}

	periods := generic.Weeks(ref, weekCount)
	weeks := make([]Week, len(periods))
	for i, p := range periods {
		weeks[i] = Week{
			Index:           i,
			Label:           weekLabel(i),
			DateRange:       dateRange(p),
			Period:          p,
			TotalReceivable: decimal.Zero,
			TotalPayable:    decimal.Zero,
		}
	}
	horizon := generic.Period{Start: periods[0].Start, End: periods[len(periods)-1].End}

	// Weeks are contiguous 7-day windows, so the bucket is a division.
	bucket := func(d generic.Date) (*Week, bool) {
		if !horizon.Contains(d) {
			return nil, false
		}
		return &weeks[generic.DaysBetween(horizon.Start, d)/7], true
	}

	for _, c := range checks {
		w, ok := bucket(c.DueDate)
		if !ok {
			continue
		}
		switch c.Type {
		case CheckReceived:
			w.ReceivedChecks = append(w.ReceivedChecks, c)
			w.TotalReceivable = w.TotalReceivable.Add(c.Amount)
		case CheckIssued:
			w.IssuedChecks = append(w.IssuedChecks, c)
			w.TotalPayable = w.TotalPayable.Add(c.Amount)
		}
	}
	for _, inv := range invoices {
		if inv.IsPaid() {
			continue
		}
		w, ok := bucket(inv.DueDate)
		if !ok {
			continue
		}
		w.InvoicesDue = append(w.InvoicesDue, inv)
		w.TotalReceivable = w.TotalReceivable.Add(inv.Remaining())
	}

	for i := range weeks {
		w := &weeks[i]
		sortByDueThenID(w.ReceivedChecks, func(c Check) (generic.Date, string) { return c.DueDate, c.ID })
		sortByDueThenID(w.IssuedChecks, func(c Check) (generic.Date, string) { return c.DueDate, c.ID })
		sortByDueThenID(w.InvoicesDue, func(inv Invoice) (generic.Date, string) { return inv.DueDate, inv.ID })
	}
	return weeks, nil
}

func weekLabel(i int) string {
	switch i {
	case 0:
		return "This week"
	case 1:
		return "Next week"
	default:
		return fmt.Sprintf("Week %d", i+1)
	}
}

func dateRange(p generic.Period) string {
	const layout = "02.01.2006"
	return p.Start.Time.Format(layout) + " - " + p.End.Time.Format(layout)
}

func sortByDueThenID[T any](items []T, key func(T) (generic.Date, string)) {
	sortByID(items, func(v T) string {
		d, id := key(v)
		return d.String() + "\x00" + id
	})
}
