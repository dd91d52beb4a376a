package books

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// STATISTICS AGGREGATOR
// =============================================================================

// DefaultRecentLimit is the number of recent payments reported by default.
const DefaultRecentLimit = 5

// StatsOptions carries the explicit inputs of ComputeStats.
type StatsOptions struct {
	AsOf        generic.Date // "today" for the overdue count; required
	RecentLimit int          // <= 0 means DefaultRecentLimit
}

// Stats is the dashboard summary. Amounts are exact decimals; rounding to two
// places is left to presentation.
type Stats struct {
	TotalInvoices int
	PaidCount     int
	PartialCount  int
	UnpaidCount   int
	OverdueCount  int

	TotalAmount       decimal.Decimal // Σ invoice amounts
	OutstandingAmount decimal.Decimal // Σ remaining over invoices not paid
	PaidAmount        decimal.Decimal // Σ payment amounts (collected)

	TotalReceivedChecks   int
	TotalReceivedAmount   decimal.Decimal
	PendingReceivedChecks int

	TotalIssuedChecks   int
	TotalIssuedAmount   decimal.Decimal
	PendingIssuedChecks int

	RecentPayments []Payment
}

// ComputeStats aggregates invoices, checks and payments. It fails without a
// partial result if any entity is internally inconsistent.
func ComputeStats(invoices []Invoice, checks []Check, payments []Payment, opts StatsOptions) (Stats, error) {
	const op = "computeStats"
	if opts.AsOf.IsZero() {
		return Stats{}, ErrReferenceDateRequired
	}

	s := Stats{
		TotalAmount:         decimal.Zero,
		OutstandingAmount:   decimal.Zero,
		PaidAmount:          decimal.Zero,
		TotalReceivedAmount: decimal.Zero,
		TotalIssuedAmount:   decimal.Zero,
	}

	for _, inv := range invoices {
		if err := checkInvoice(op, inv); err != nil {
			return Stats{}, err
		}
		s.TotalInvoices++
		s.TotalAmount = s.TotalAmount.Add(inv.Amount)
		switch inv.Status {
		case InvoicePaid:
			s.PaidCount++
		case InvoicePartial:
			s.PartialCount++
		default:
			s.UnpaidCount++
		}
		if !inv.IsPaid() {
			s.OutstandingAmount = s.OutstandingAmount.Add(inv.Remaining())
		}
		if inv.Overdue(opts.AsOf) {
			s.OverdueCount++
		}
	}

	for _, c := range checks {
		if err := checkCheck(op, c); err != nil {
			return Stats{}, err
		}
		switch c.Type {
		case CheckReceived:
			s.TotalReceivedChecks++
			s.TotalReceivedAmount = s.TotalReceivedAmount.Add(c.Amount)
			if c.IsPending() {
				s.PendingReceivedChecks++
			}
		case CheckIssued:
			s.TotalIssuedChecks++
			s.TotalIssuedAmount = s.TotalIssuedAmount.Add(c.Amount)
			if c.IsPending() {
				s.PendingIssuedChecks++
			}
		}
	}

	for _, p := range payments {
		if err := checkPayment(op, p); err != nil {
			return Stats{}, err
		}
		s.PaidAmount = s.PaidAmount.Add(p.Amount)
	}

	limit := opts.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	s.RecentPayments = RecentPayments(payments, limit)
	return s, nil
}

// RecentPayments returns up to limit payments, newest payment date first,
// ties broken by ascending id. The input is not reordered.
func RecentPayments(payments []Payment, limit int) []Payment {
	sorted := append([]Payment(nil), payments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.PaymentDate.Equal(b.PaymentDate) {
			return a.PaymentDate.After(b.PaymentDate)
		}
		return a.ID < b.ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// =============================================================================
// ENTITY INVARIANTS
// =============================================================================

// These re-check what the normalizer guarantees. A failure means an entity
// was built or mutated outside the normalizer.

func checkInvoice(op string, inv Invoice) error {
	fail := func(reason string) error {
		return &ComputationError{Op: op, Kind: KindInvoice, RecordID: inv.ID, Reason: reason}
	}
	switch {
	case inv.ID == "":
		return fail("missing id")
	case inv.DueDate.IsZero():
		return fail("missing due date")
	case inv.Amount.IsNegative():
		return fail("negative amount")
	case inv.PaidAmount.IsNegative():
		return fail("negative paid amount")
	case inv.PaidAmount.GreaterThan(inv.Amount):
		return fail("paid amount exceeds amount")
	case inv.Status != DeriveStatus(inv.Amount, inv.PaidAmount):
		return fail("status " + string(inv.Status) + " contradicts amounts")
	}
	return nil
}

func checkCheck(op string, c Check) error {
	fail := func(reason string) error {
		return &ComputationError{Op: op, Kind: KindCheck, RecordID: c.ID, Reason: reason}
	}
	switch {
	case c.ID == "":
		return fail("missing id")
	case c.DueDate.IsZero():
		return fail("missing due date")
	case c.Amount.IsNegative():
		return fail("negative amount")
	case !c.Type.Valid():
		return fail("unknown check type " + string(c.Type))
	case !c.Type.Allows(c.Status):
		return fail("status " + string(c.Status) + " not allowed for " + string(c.Type) + " checks")
	}
	return nil
}

func checkPayment(op string, p Payment) error {
	fail := func(reason string) error {
		return &ComputationError{Op: op, Kind: KindPayment, RecordID: p.ID, Reason: reason}
	}
	switch {
	case p.ID == "":
		return fail("missing id")
	case p.PaymentDate.IsZero():
		return fail("missing payment date")
	case p.Amount.IsNegative():
		return fail("negative amount")
	}
	return nil
}

func checkAll(op string, invoices []Invoice, checks []Check, payments []Payment) error {
	for _, inv := range invoices {
		if err := checkInvoice(op, inv); err != nil {
			return err
		}
	}
	for _, c := range checks {
		if err := checkCheck(op, c); err != nil {
			return err
		}
	}
	for _, p := range payments {
		if err := checkPayment(op, p); err != nil {
			return err
		}
	}
	return nil
}
