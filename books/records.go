/*
Package books computes dashboard statistics, month calendars and rolling
payment schedules from invoice, check and payment records.

PURPOSE:
  The engine is a set of pure functions. Callers fetch raw records from a
  Store, normalize them once, then hand the canonical entities to the
  consumers below together with an explicit reference date. Nothing in this
  package reads the wall clock, performs I/O, or mutates its inputs.

KEY CONCEPTS IN THIS FILE (records.go):
  - Raw shapes (RawInvoice, RawCheck, RawPayment) as they cross the boundary
  - Canonical entities (Invoice, Check, Payment, BankAccount)
  - Status enums and the rules that tie them to amounts and check types
  - Numeric: a decimal-safe amount that accepts JSON strings and numbers

PIPELINE:
  raw records --Normalize--> entities --ApplyFilters--> entities
      |-> ComputeStats         dashboard totals
      |-> BuildMonthGrid       per-day calendar cells
      |-> BuildWeeklySchedule  N-week receivable/payable projection
      |-> DueReminders         invoices due in a few days
      |-> SplitArchive         completed records older than N months

SEE ALSO:
  - normalize.go: Record Normalizer
  - stats.go: Statistics Aggregator
  - calendar.go: Calendar Bucketer
  - weekly.go: Weekly Schedule Builder
  - filter.go: Filter Engine
  - errors.go: ValidationError, ComputationError, FilterError
*/
package books

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// STATUS ENUMS
// =============================================================================

// InvoiceStatus is derived from amount and paid amount, never stored freely.
type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "unpaid"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
)

// DeriveStatus returns paid iff paid == amount, partial iff 0 < paid < amount,
// and unpaid otherwise. A zero-amount invoice with nothing paid is paid.
func DeriveStatus(amount, paid decimal.Decimal) InvoiceStatus {
	switch {
	case paid.Equal(amount):
		return InvoicePaid
	case paid.IsPositive() && paid.LessThan(amount):
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}

// CheckType is the direction of a check.
type CheckType string

const (
	CheckReceived CheckType = "received" // from a customer, a receivable
	CheckIssued   CheckType = "issued"   // to a supplier, a payable
)

func (t CheckType) Valid() bool { return t == CheckReceived || t == CheckIssued }

// CheckStatus tracks a check through collection or payment.
type CheckStatus string

const (
	CheckPending   CheckStatus = "pending"
	CheckCollected CheckStatus = "collected"
	CheckPaid      CheckStatus = "paid"
	CheckBounced   CheckStatus = "bounced"
)

// allowedCheckStatuses lists the statuses reachable by each check type.
// Received checks end collected or bounced; issued checks end paid.
var allowedCheckStatuses = map[CheckType][]CheckStatus{
	CheckReceived: {CheckPending, CheckCollected, CheckBounced},
	CheckIssued:   {CheckPending, CheckPaid},
}

// Allows reports whether status s is valid for check type t.
func (t CheckType) Allows(s CheckStatus) bool {
	for _, allowed := range allowedCheckStatuses[t] {
		if allowed == s {
			return true
		}
	}
	return false
}

// Completed reports whether a check of type t has reached its final good state.
func (t CheckType) Completed(s CheckStatus) bool {
	return (t == CheckReceived && s == CheckCollected) || (t == CheckIssued && s == CheckPaid)
}

// PeriodType is the accounting period a payment is booked against.
type PeriodType string

const (
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

func (p PeriodType) Valid() bool {
	return p == PeriodMonthly || p == PeriodQuarterly || p == PeriodYearly
}

// =============================================================================
// NUMERIC - Decimal-safe amount at the boundary
// =============================================================================

// Numeric holds an amount exactly as it was written, whether the JSON carried
// a string ("1000.50") or a number (1000.50). It is parsed into a decimal by
// the normalizer and never passes through float64.
type Numeric string

// NumericOf renders d as a Numeric.
func NumericOf(d decimal.Decimal) Numeric { return Numeric(d.String()) }

func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
	default:
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return fmt.Errorf("amount must be a string or number: %s", b)
		}
		*n = Numeric(num.String())
	}
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

// =============================================================================
// RAW RECORDS - As supplied by the persistence layer
// =============================================================================

// RawInvoice is an invoice as stored or posted. Status and labels are
// optional; the normalizer derives them.
type RawInvoice struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Amount        Numeric `json:"amount"`
	PaidAmount    Numeric `json:"paid_amount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status,omitempty"`
	Month         string  `json:"month,omitempty"`
	Quarter       string  `json:"quarter,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// RawCheck is a check as stored or posted.
type RawCheck struct {
	ID            string  `json:"id"`
	CheckNumber   string  `json:"check_number"`
	Amount        Numeric `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	DueDate       string  `json:"due_date"`
	Type          string  `json:"check_type"`
	Status        string  `json:"status,omitempty"`
	BankName      string  `json:"bank_name,omitempty"`
	BankAccountID string  `json:"bank_account_id,omitempty"`
	PayerPayee    string  `json:"payer_payee,omitempty"`
	Month         string  `json:"month,omitempty"`
	Quarter       string  `json:"quarter,omitempty"`
}

// RawPayment is a payment as stored or posted. PaymentDate may carry a time
// of day; it is truncated to a calendar date.
type RawPayment struct {
	ID            string  `json:"id"`
	InvoiceID     string  `json:"invoice_id,omitempty"`
	Amount        Numeric `json:"amount"`
	Currency      string  `json:"currency,omitempty"`
	PaymentDate   string  `json:"payment_date"`
	BankAccountID string  `json:"bank_account_id,omitempty"`
	CheckNumber   string  `json:"check_number,omitempty"`
	Method        string  `json:"payment_method,omitempty"`
	PeriodType    string  `json:"period_type,omitempty"`
	Month         string  `json:"month,omitempty"`
	Quarter       string  `json:"quarter,omitempty"`
}

// =============================================================================
// ENTITIES - Canonical, validated, derived fields filled in
// =============================================================================

type Invoice struct {
	ID            string
	CustomerID    string
	CustomerName  string
	InvoiceNumber string
	Amount        decimal.Decimal
	PaidAmount    decimal.Decimal
	Currency      generic.Currency
	DueDate       generic.Date
	Status        InvoiceStatus
	Month         string
	Quarter       string
	Notes         string
}

// Remaining is the unpaid part of the invoice.
func (i Invoice) Remaining() decimal.Decimal { return i.Amount.Sub(i.PaidAmount) }

func (i Invoice) IsPaid() bool { return i.Status == InvoicePaid }

// Overdue reports whether the invoice is unpaid past its due date as of asOf.
func (i Invoice) Overdue(asOf generic.Date) bool {
	return !i.IsPaid() && i.DueDate.Before(asOf)
}

// Raw converts the invoice back to its boundary shape.
func (i Invoice) Raw() RawInvoice {
	return RawInvoice{
		ID:            i.ID,
		CustomerID:    i.CustomerID,
		CustomerName:  i.CustomerName,
		InvoiceNumber: i.InvoiceNumber,
		Amount:        NumericOf(i.Amount),
		PaidAmount:    NumericOf(i.PaidAmount),
		Currency:      string(i.Currency),
		DueDate:       i.DueDate.String(),
		Status:        string(i.Status),
		Month:         i.Month,
		Quarter:       i.Quarter,
		Notes:         i.Notes,
	}
}

type Check struct {
	ID            string
	CheckNumber   string
	Amount        decimal.Decimal
	Currency      generic.Currency
	DueDate       generic.Date
	Type          CheckType
	Status        CheckStatus
	BankName      string
	BankAccountID string
	PayerPayee    string
	Month         string
	Quarter       string
}

func (c Check) IsPending() bool { return c.Status == CheckPending }

// WithStatus returns the check moved to status s, rejecting statuses that
// are not valid for the check's type.
func (c Check) WithStatus(s CheckStatus) (Check, error) {
	if !c.Type.Allows(s) {
		return c, &ValidationError{
			Kind:     KindCheck,
			RecordID: c.ID,
			Field:    "status",
			Value:    string(s),
			Reason:   fmt.Sprintf("not allowed for %s checks", c.Type),
		}
	}
	c.Status = s
	return c, nil
}

func (c Check) Raw() RawCheck {
	return RawCheck{
		ID:            c.ID,
		CheckNumber:   c.CheckNumber,
		Amount:        NumericOf(c.Amount),
		Currency:      string(c.Currency),
		DueDate:       c.DueDate.String(),
		Type:          string(c.Type),
		Status:        string(c.Status),
		BankName:      c.BankName,
		BankAccountID: c.BankAccountID,
		PayerPayee:    c.PayerPayee,
		Month:         c.Month,
		Quarter:       c.Quarter,
	}
}

type Payment struct {
	ID            string
	InvoiceID     string
	Amount        decimal.Decimal
	Currency      generic.Currency
	PaymentDate   generic.Date
	BankAccountID string
	CheckNumber   string
	Method        string
	PeriodType    PeriodType
	Month         string
	Quarter       string
}

func (p Payment) Raw() RawPayment {
	return RawPayment{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        NumericOf(p.Amount),
		Currency:      string(p.Currency),
		PaymentDate:   p.PaymentDate.String(),
		BankAccountID: p.BankAccountID,
		CheckNumber:   p.CheckNumber,
		Method:        p.Method,
		PeriodType:    string(p.PeriodType),
		Month:         p.Month,
		Quarter:       p.Quarter,
	}
}

// BankAccount is a company bank account. The engine only uses it as a
// filter dimension.
type BankAccount struct {
	ID            string `json:"id"`
	BankName      string `json:"bank_name"`
	IBAN          string `json:"iban,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

// =============================================================================
// RECORD SETS
// =============================================================================

// Records groups the three entity collections the consumers take.
type Records struct {
	Invoices []Invoice
	Checks   []Check
	Payments []Payment
}

// Filter returns the records that pass f, each collection filtered alone.
func (r Records) Filter(f Filter) Records {
	return Records{
		Invoices: ApplyFilters(r.Invoices, f),
		Checks:   ApplyFilters(r.Checks, f),
		Payments: ApplyFilters(r.Payments, f),
	}
}

// InvoiceByID indexes invoices by id.
func (r Records) InvoiceByID() map[string]Invoice {
	idx := make(map[string]Invoice, len(r.Invoices))
	for _, inv := range r.Invoices {
		idx[inv.ID] = inv
	}
	return idx
}
