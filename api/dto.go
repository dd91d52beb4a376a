/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Engine types carry exact
  decimals and dates; DTOs render them for clients:
  - Money as strings with two decimals ("1250.00"), never floats
  - Dates as YYYY-MM-DD
  - Lists as [] rather than null

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

REQUEST BODIES:
  Create endpoints accept the raw record shapes from the books package
  (books.RawInvoice, books.RawCheck, books.RawPayment, books.BankAccount), so
  the same JSON works for the API, snapshots and the CLI.

SEE ALSO:
  - handlers.go: Uses these types
  - books/records.go: Raw record shapes
*/
package api

import (
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/factory"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// RECORDS
// =============================================================================

// InvoiceDTO represents an invoice in API responses.
type InvoiceDTO struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Amount        string `json:"amount"`
	PaidAmount    string `json:"paid_amount"`
	Remaining     string `json:"remaining"`
	Currency      string `json:"currency"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
	Overdue       bool   `json:"overdue"`
	Month         string `json:"month"`
	Quarter       string `json:"quarter"`
	Notes         string `json:"notes,omitempty"`
}

// InvoiceDetailDTO is an invoice with the payments recorded against it.
type InvoiceDetailDTO struct {
	InvoiceDTO
	Payments []PaymentDTO `json:"payments"`
}

// CheckDTO represents a check in API responses.
type CheckDTO struct {
	ID            string `json:"id"`
	CheckNumber   string `json:"check_number,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	DueDate       string `json:"due_date"`
	Type          string `json:"check_type"`
	Status        string `json:"status"`
	BankName      string `json:"bank_name,omitempty"`
	BankAccountID string `json:"bank_account_id,omitempty"`
	PayerPayee    string `json:"payer_payee,omitempty"`
	Month         string `json:"month"`
	Quarter       string `json:"quarter"`
}

// PaymentDTO represents a payment in API responses.
type PaymentDTO struct {
	ID            string `json:"id"`
	InvoiceID     string `json:"invoice_id,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentDate   string `json:"payment_date"`
	BankAccountID string `json:"bank_account_id,omitempty"`
	CheckNumber   string `json:"check_number,omitempty"`
	Method        string `json:"payment_method,omitempty"`
	PeriodType    string `json:"period_type"`
	Month         string `json:"month"`
	Quarter       string `json:"quarter"`
}

// UpdateCheckStatusRequest is the body of PUT /checks/{id}/status.
type UpdateCheckStatusRequest struct {
	Status string `json:"status"`
}

// RejectionDTO reports a stored record the normalizer refused.
type RejectionDTO struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// =============================================================================
// COMPUTATIONS
// =============================================================================

// StatsDTO is the dashboard summary.
type StatsDTO struct {
	AsOf string `json:"as_of"`

	TotalInvoices int `json:"total_invoices"`
	PaidCount     int `json:"paid_count"`
	PartialCount  int `json:"partial_count"`
	UnpaidCount   int `json:"unpaid_count"`
	OverdueCount  int `json:"overdue_count"`

	TotalAmount       string `json:"total_amount"`
	OutstandingAmount string `json:"outstanding_amount"`
	PaidAmount        string `json:"paid_amount"`

	TotalReceivedChecks   int    `json:"total_received_checks"`
	TotalReceivedAmount   string `json:"total_received_amount"`
	PendingReceivedChecks int    `json:"pending_received_checks"`

	TotalIssuedChecks   int    `json:"total_issued_checks"`
	TotalIssuedAmount   string `json:"total_issued_amount"`
	PendingIssuedChecks int    `json:"pending_issued_checks"`

	RecentPayments []PaymentDTO   `json:"recent_payments"`
	Rejected       []RejectionDTO `json:"rejected"`
	FilterWarnings []string       `json:"filter_warnings,omitempty"`
}

// DayDTO is one calendar cell. Blank cells carry no date.
type DayDTO struct {
	Date           string       `json:"date,omitempty"`
	Blank          bool         `json:"blank,omitempty"`
	IsToday        bool         `json:"is_today,omitempty"`
	Invoices       []InvoiceDTO `json:"invoices"`
	ReceivedChecks []CheckDTO   `json:"received_checks"`
	IssuedChecks   []CheckDTO   `json:"issued_checks"`
	Payments       []PaymentDTO `json:"payments"`
}

// CalendarDTO is a month grid.
type CalendarDTO struct {
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	Label          string         `json:"label"`
	LeadingBlanks  int            `json:"leading_blanks"`
	Days           []DayDTO       `json:"days"`
	Rejected       []RejectionDTO `json:"rejected"`
	FilterWarnings []string       `json:"filter_warnings,omitempty"`
}

// WeekDTO is one bucket of the weekly schedule.
type WeekDTO struct {
	Index           int          `json:"index"`
	Label           string       `json:"label"`
	DateRange       string       `json:"date_range"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	ReceivedChecks  []CheckDTO   `json:"received_checks"`
	IssuedChecks    []CheckDTO   `json:"issued_checks"`
	InvoicesDue     []InvoiceDTO `json:"invoices_due"`
	TotalReceivable string       `json:"total_receivable"`
	TotalPayable    string       `json:"total_payable"`
	Net             string       `json:"net"`
}

// WeeklyScheduleResponse wraps the weekly schedule.
type WeeklyScheduleResponse struct {
	AsOf           string         `json:"as_of"`
	Weeks          []WeekDTO      `json:"weeks"`
	Rejected       []RejectionDTO `json:"rejected"`
	FilterWarnings []string       `json:"filter_warnings,omitempty"`
}

// ReminderDTO is an invoice coming due.
type ReminderDTO struct {
	InvoiceID    string `json:"invoice_id"`
	CustomerName string `json:"customer_name,omitempty"`
	DueDate      string `json:"due_date"`
	Remaining    string `json:"remaining"`
	Currency     string `json:"currency"`
}

// RemindersResponse lists reminders for a reference date.
type RemindersResponse struct {
	AsOf      string        `json:"as_of"`
	Reminders []ReminderDTO `json:"reminders"`
	Sent      *int          `json:"sent,omitempty"`
}

// ArchiveDTO summarizes which records would be archived.
type ArchiveDTO struct {
	AsOf     string      `json:"as_of"`
	Cutoff   string      `json:"cutoff"`
	Active   RecordCount `json:"active"`
	Archived RecordsDTO  `json:"archived"`
}

// RecordCount counts records by kind.
type RecordCount struct {
	Invoices int `json:"invoices"`
	Checks   int `json:"checks"`
	Payments int `json:"payments"`
}

// RecordsDTO lists records by kind.
type RecordsDTO struct {
	Invoices []InvoiceDTO `json:"invoices"`
	Checks   []CheckDTO   `json:"checks"`
	Payments []PaymentDTO `json:"payments"`
}

// SeedResponse reports a snapshot load.
type SeedResponse struct {
	factory.SeedReport
	Rejected []RejectionDTO `json:"rejected"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toInvoiceDTO(inv books.Invoice, asOf generic.Date) InvoiceDTO {
	return InvoiceDTO{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        generic.FormatMoney(inv.Amount),
		PaidAmount:    generic.FormatMoney(inv.PaidAmount),
		Remaining:     generic.FormatMoney(inv.Remaining()),
		Currency:      string(inv.Currency),
		DueDate:       inv.DueDate.String(),
		Status:        string(inv.Status),
		Overdue:       !asOf.IsZero() && inv.Overdue(asOf),
		Month:         inv.Month,
		Quarter:       inv.Quarter,
		Notes:         inv.Notes,
	}
}

func toInvoiceDTOs(invoices []books.Invoice, asOf generic.Date) []InvoiceDTO {
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv, asOf)
	}
	return dtos
}

func toCheckDTO(c books.Check) CheckDTO {
	return CheckDTO{
		ID:            c.ID,
		CheckNumber:   c.CheckNumber,
		Amount:        generic.FormatMoney(c.Amount),
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

func toCheckDTOs(checks []books.Check) []CheckDTO {
	dtos := make([]CheckDTO, len(checks))
	for i, c := range checks {
		dtos[i] = toCheckDTO(c)
	}
	return dtos
}

func toPaymentDTO(p books.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		Amount:        generic.FormatMoney(p.Amount),
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

func toPaymentDTOs(payments []books.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}

func toRecordsDTO(r books.Records, asOf generic.Date) RecordsDTO {
	return RecordsDTO{
		Invoices: toInvoiceDTOs(r.Invoices, asOf),
		Checks:   toCheckDTOs(r.Checks),
		Payments: toPaymentDTOs(r.Payments),
	}
}

func toRejectionDTOs(rejected []books.Rejection) []RejectionDTO {
	dtos := make([]RejectionDTO, len(rejected))
	for i, rej := range rejected {
		dtos[i] = RejectionDTO{Kind: string(rej.Kind), ID: rej.ID, Reason: rej.Reason()}
		if rej.Err != nil {
			dtos[i].Field = rej.Err.Field
		}
	}
	return dtos
}

func toStatsDTO(s books.Stats, asOf generic.Date, rejected []books.Rejection) StatsDTO {
	return StatsDTO{
		AsOf:                  asOf.String(),
		TotalInvoices:         s.TotalInvoices,
		PaidCount:             s.PaidCount,
		PartialCount:          s.PartialCount,
		UnpaidCount:           s.UnpaidCount,
		OverdueCount:          s.OverdueCount,
		TotalAmount:           generic.FormatMoney(s.TotalAmount),
		OutstandingAmount:     generic.FormatMoney(s.OutstandingAmount),
		PaidAmount:            generic.FormatMoney(s.PaidAmount),
		TotalReceivedChecks:   s.TotalReceivedChecks,
		TotalReceivedAmount:   generic.FormatMoney(s.TotalReceivedAmount),
		PendingReceivedChecks: s.PendingReceivedChecks,
		TotalIssuedChecks:     s.TotalIssuedChecks,
		TotalIssuedAmount:     generic.FormatMoney(s.TotalIssuedAmount),
		PendingIssuedChecks:   s.PendingIssuedChecks,
		RecentPayments:        toPaymentDTOs(s.RecentPayments),
		Rejected:              toRejectionDTOs(rejected),
	}
}

func toCalendarDTO(g books.MonthGrid, rejected []books.Rejection) CalendarDTO {
	days := make([]DayDTO, len(g.Cells))
	for i, cell := range g.Cells {
		day := DayDTO{
			Blank:          cell.Blank,
			IsToday:        cell.IsToday,
			Invoices:       toInvoiceDTOs(cell.Invoices, generic.Date{}),
			ReceivedChecks: toCheckDTOs(cell.ReceivedChecks),
			IssuedChecks:   toCheckDTOs(cell.IssuedChecks),
			Payments:       toPaymentDTOs(cell.Payments),
		}
		if !cell.Blank {
			day.Date = cell.Date.String()
		}
		days[i] = day
	}
	return CalendarDTO{
		Year:          g.Year,
		Month:         int(g.Month),
		Label:         g.Period.Start.MonthLabel(),
		LeadingBlanks: g.LeadingBlanks(),
		Days:          days,
		Rejected:      toRejectionDTOs(rejected),
	}
}

func toWeekDTOs(weeks []books.Week) []WeekDTO {
	dtos := make([]WeekDTO, len(weeks))
	for i, w := range weeks {
		dtos[i] = WeekDTO{
			Index:           w.Index,
			Label:           w.Label,
			DateRange:       w.DateRange,
			StartDate:       w.Period.Start.String(),
			EndDate:         w.Period.End.String(),
			ReceivedChecks:  toCheckDTOs(w.ReceivedChecks),
			IssuedChecks:    toCheckDTOs(w.IssuedChecks),
			InvoicesDue:     toInvoiceDTOs(w.InvoicesDue, generic.Date{}),
			TotalReceivable: generic.FormatMoney(w.TotalReceivable),
			TotalPayable:    generic.FormatMoney(w.TotalPayable),
			Net:             generic.FormatMoney(w.Net()),
		}
	}
	return dtos
}

func toReminderDTOs(reminders []books.Reminder) []ReminderDTO {
	dtos := make([]ReminderDTO, len(reminders))
	for i, r := range reminders {
		dtos[i] = ReminderDTO{
			InvoiceID:    r.Invoice.ID,
			CustomerName: r.Invoice.CustomerName,
			DueDate:      r.DueDate.String(),
			Remaining:    generic.FormatMoney(r.Remaining),
			Currency:     string(r.Invoice.Currency),
		}
	}
	return dtos
}
