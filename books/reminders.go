package books

import (
	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/generic"
)

// DefaultReminderLeadDays is how many days before the due date a reminder
// goes out.
const DefaultReminderLeadDays = 2

// Reminder is an invoice that needs a heads-up before it falls due.
type Reminder struct {
	Invoice   Invoice
	DueDate   generic.Date
	Remaining decimal.Decimal
}

// DueReminders returns the unpaid and partial invoices due exactly leadDays
// after asOf, ordered by id. leadDays < 0 uses the default.
func DueReminders(asOf generic.Date, leadDays int, invoices []Invoice) ([]Reminder, error) {
	if asOf.IsZero() {
		return nil, ErrReferenceDateRequired
	}
	if leadDays < 0 {
		leadDays = DefaultReminderLeadDays
	}
	if err := checkAll("dueReminders", invoices, nil, nil); err != nil {
		return nil, err
	}

	target := asOf.AddDays(leadDays)
	var out []Reminder
	for _, inv := range invoices {
		if inv.IsPaid() || !inv.DueDate.Equal(target) {
			continue
		}
		out = append(out, Reminder{Invoice: inv, DueDate: inv.DueDate, Remaining: inv.Remaining()})
	}
	sortByID(out, func(r Reminder) string { return r.Invoice.ID })
	return out, nil
}
