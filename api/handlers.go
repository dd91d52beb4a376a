/*
handlers.go - HTTP API handlers for invoices, checks, payments and dashboards

PURPOSE:
  Exposes the collections engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the books package.

ENDPOINTS:
  Records:
    GET    /api/invoices                 List invoices (filterable)
    POST   /api/invoices                 Create invoice
    GET    /api/invoices/{id}            Invoice with its payments
    DELETE /api/invoices/{id}            Delete invoice and its payments
    GET    /api/checks                   List checks (filterable)
    POST   /api/checks                   Create check
    PUT    /api/checks/{id}/status       Change check status
    GET    /api/payments                 List payments (filterable)
    POST   /api/payments                 Record payment against an invoice
    DELETE /api/payments/{id}            Delete payment, reversing it
    GET    /api/company-info/banks       List bank accounts
    POST   /api/company-info/banks       Create bank account

  Computations:
    GET    /api/dashboard/stats          Statistics summary
    GET    /api/dashboard/calendar       Month grid (?year=&month=)
    GET    /api/payments/weekly-schedule Weekly schedule (?weeks=)
    GET    /api/reminders                Invoices due after the lead time
    POST   /api/notifications/check-reminders  Send those reminders now
    GET    /api/archive                  Archive split preview (?months=)

  Admin:
    POST   /api/admin/seed               Load a JSON snapshot
    POST   /api/admin/reset              Drop all records

QUERY PARAMETERS:
  as_of   Reference date (YYYY-MM-DD). Defaults to the handler clock.
  Filter keys: month, quarter, bank_account_id (alias bank), status,
  currency, search. "all" or empty disables a key. On the calendar, month
  and year select the grid instead. Unknown keys and malformed values do
  not fail the request: the dimension stays unconstrained and the problem
  is reported in the X-Filter-Warnings header and, on the dashboards, in
  filter_warnings.
  weeks   Weekly schedule length, 1 to 52.

REQUEST FLOW:
  1. Parse the reference date and filters
  2. Load raw records and normalize them (rejections are logged and
     returned alongside the result)
  3. Filter, then call the engine
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, bad dates, out of range parameters
  - 404: Record not found
  - 409: Duplicate id, overpayment
  - 500: Inconsistent data, store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Reminder scheduler
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/config"
	"github.com/turyasin/collections/factory"
	"github.com/turyasin/collections/generic"
	"github.com/turyasin/collections/logger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Defaults are the engine parameters used when a request does not set them.
type Defaults struct {
	WeekCount          int
	RecentLimit        int
	ArchiveAfterMonths int
	ReminderLeadDays   int
}

// DefaultsFromConfig copies the engine defaults out of cfg.
func DefaultsFromConfig(cfg *config.Config) Defaults {
	return Defaults{
		WeekCount:          cfg.WeekCount,
		RecentLimit:        cfg.RecentPayments,
		ArchiveAfterMonths: cfg.ArchiveAfterMonths,
		ReminderLeadDays:   cfg.ReminderLeadDays,
	}
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    books.Store
	Clock    generic.Clock // nil means the wall clock
	Defaults Defaults
	Notifier Notifier
	Log      zerolog.Logger

	// reminders already delivered, keyed by invoice id and due date
	mu   sync.Mutex
	sent map[string]generic.Date
}

// NewHandler creates a new handler with the given store.
func NewHandler(store books.Store, defaults Defaults) *Handler {
	log := logger.WithComponent("api")
	return &Handler{
		Store:    store,
		Defaults: defaults,
		Notifier: LogNotifier{Log: log},
		Log:      log,
		sent:     make(map[string]generic.Date),
	}
}

// load fetches and normalizes every record, logging rejections.
func (h *Handler) load(ctx context.Context) (books.Normalized, error) {
	n, err := books.Load(ctx, h.Store)
	if err != nil {
		return books.Normalized{}, err
	}
	for _, rej := range n.Rejected {
		h.Log.Warn().
			Str("kind", string(rej.Kind)).
			Str("id", rej.ID).
			Str("reason", rej.Reason()).
			Msg("Skipping invalid stored record")
	}
	return n, nil
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns invoices matching the query filters.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	asOf, f, _, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load invoices", err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTOs(books.ApplyFilters(n.Invoices, f), asOf))
}

// GetInvoice returns one invoice with the payments recorded against it.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asOf, err := h.asOf(r)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}

	raw, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get invoice", err)
		return
	}
	inv, err := books.NormalizeInvoice(raw)
	if err != nil {
		h.fail(w, r, "Stored invoice is invalid", &books.ComputationError{
			Op: "getInvoice", Kind: books.KindInvoice, RecordID: id, Reason: err.Error(),
		})
		return
	}

	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load payments", err)
		return
	}
	payments := []books.Payment{}
	for _, p := range n.Payments {
		if p.InvoiceID == id {
			payments = append(payments, p)
		}
	}

	writeJSON(w, http.StatusOK, InvoiceDetailDTO{
		InvoiceDTO: toInvoiceDTO(inv, asOf),
		Payments:   toPaymentDTOs(payments),
	})
}

// CreateInvoice validates and stores a new invoice. Status is always derived
// from the amounts; an id is generated when none is given.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var raw books.RawInvoice
	if !decodeBody(w, r, &raw) {
		return
	}
	if strings.TrimSpace(raw.ID) == "" {
		raw.ID = uuid.NewString()
	}

	inv, err := books.NormalizeInvoice(raw)
	if err != nil {
		h.fail(w, r, "Invalid invoice", err)
		return
	}
	if err := h.Store.CreateInvoice(r.Context(), inv); err != nil {
		h.fail(w, r, "Failed to create invoice", err)
		return
	}

	h.Log.Info().Str("invoice_id", inv.ID).Str("amount", inv.Amount.String()).Msg("Invoice created")
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv, h.Clock.Today()))
}

// DeleteInvoice removes an invoice and every payment against it.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteInvoice(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CHECK HANDLERS
// =============================================================================

// ListChecks returns checks matching the query filters.
func (h *Handler) ListChecks(w http.ResponseWriter, r *http.Request) {
	_, f, _, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load checks", err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckDTOs(books.ApplyFilters(n.Checks, f)))
}

// CreateCheck validates and stores a new check. Status defaults to pending.
func (h *Handler) CreateCheck(w http.ResponseWriter, r *http.Request) {
	var raw books.RawCheck
	if !decodeBody(w, r, &raw) {
		return
	}
	if strings.TrimSpace(raw.ID) == "" {
		raw.ID = uuid.NewString()
	}

	c, err := books.NormalizeCheck(raw)
	if err != nil {
		h.fail(w, r, "Invalid check", err)
		return
	}
	if err := h.Store.CreateCheck(r.Context(), c); err != nil {
		h.fail(w, r, "Failed to create check", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCheckDTO(c))
}

// UpdateCheckStatus moves a check to a status allowed for its type.
func (h *Handler) UpdateCheckStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateCheckStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	status := books.CheckStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	c, err := h.Store.UpdateCheckStatus(r.Context(), id, status)
	if err != nil {
		h.fail(w, r, "Failed to update check status", err)
		return
	}

	h.Log.Info().Str("check_id", id).Str("status", string(status)).Msg("Check status updated")
	writeJSON(w, http.StatusOK, toCheckDTO(c))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns payments matching the query filters.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	_, f, _, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(books.ApplyFilters(n.Payments, f)))
}

// CreatePayment records a payment and applies it to its invoice.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var raw books.RawPayment
	if !decodeBody(w, r, &raw) {
		return
	}
	if strings.TrimSpace(raw.ID) == "" {
		raw.ID = uuid.NewString()
	}

	p, err := books.NormalizePayment(raw)
	if err != nil {
		h.fail(w, r, "Invalid payment", err)
		return
	}
	if err := h.Store.RecordPayment(r.Context(), p); err != nil {
		h.fail(w, r, "Failed to record payment", err)
		return
	}

	h.Log.Info().
		Str("payment_id", p.ID).
		Str("invoice_id", p.InvoiceID).
		Str("amount", p.Amount.String()).
		Msg("Payment recorded")
	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// DeletePayment removes a payment and takes it back off its invoice.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeletePayment(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BANK ACCOUNT HANDLERS
// =============================================================================

// ListBankAccounts returns the company's bank accounts.
func (h *Handler) ListBankAccounts(w http.ResponseWriter, r *http.Request) {
	banks, err := h.Store.ListBankAccounts(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list bank accounts", err)
		return
	}
	if banks == nil {
		banks = []books.BankAccount{}
	}
	writeJSON(w, http.StatusOK, banks)
}

// CreateBankAccount stores a bank account.
func (h *Handler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var b books.BankAccount
	if !decodeBody(w, r, &b) {
		return
	}
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}

	b, err := books.NormalizeBankAccount(b)
	if err != nil {
		h.fail(w, r, "Invalid bank account", err)
		return
	}
	if err := h.Store.CreateBankAccount(r.Context(), b); err != nil {
		h.fail(w, r, "Failed to create bank account", err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetStats returns the statistics summary over the filtered records.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	asOf, f, warnings, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	limit, err := intParam(r, "limit", h.Defaults.RecentLimit)
	if err != nil {
		h.fail(w, r, "Invalid limit", err)
		return
	}

	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load records", err)
		return
	}
	rec := n.Filter(f)

	stats, err := books.ComputeStats(rec.Invoices, rec.Checks, rec.Payments, books.StatsOptions{
		AsOf:        asOf,
		RecentLimit: limit,
	})
	if err != nil {
		h.fail(w, r, "Failed to compute statistics", err)
		return
	}

	resp := toStatsDTO(stats, asOf, n.Rejected)
	resp.FilterWarnings = warnings
	writeJSON(w, http.StatusOK, resp)
}

// GetCalendar returns the month grid for ?year=&month=, defaulting to the
// month of the reference date.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	asOf, f, warnings, ok := h.parseQuery(w, r, "year", "month")
	if !ok {
		return
	}
	year, err := intParam(r, "year", asOf.Year())
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}
	month, err := intParam(r, "month", int(asOf.Month()))
	if err != nil {
		h.fail(w, r, "Invalid month", err)
		return
	}

	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load records", err)
		return
	}
	rec := n.Filter(f)

	grid, err := books.BuildMonthGrid(year, time.Month(month), asOf, rec.Invoices, rec.Checks, rec.Payments)
	if err != nil {
		h.fail(w, r, "Failed to build calendar", err)
		return
	}

	resp := toCalendarDTO(grid, n.Rejected)
	resp.FilterWarnings = warnings
	writeJSON(w, http.StatusOK, resp)
}

// GetWeeklySchedule returns the payment schedule starting the week of the
// reference date.
func (h *Handler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	asOf, f, warnings, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	weeks, err := intParam(r, "weeks", h.Defaults.WeekCount)
	if err == nil {
		err = books.CheckWeekCount(weeks)
	}
	if err != nil {
		h.fail(w, r, "Invalid weeks", err)
		return
	}

	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load records", err)
		return
	}
	rec := n.Filter(f)

	schedule, err := books.BuildWeeklySchedule(asOf, weeks, rec.Invoices, rec.Checks)
	if err != nil {
		h.fail(w, r, "Failed to build weekly schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, WeeklyScheduleResponse{
		AsOf:           asOf.String(),
		Weeks:          toWeekDTOs(schedule),
		Rejected:       toRejectionDTOs(n.Rejected),
		FilterWarnings: warnings,
	})
}

// =============================================================================
// REMINDERS AND ARCHIVE
// =============================================================================

// ListReminders returns invoices due lead_days after the reference date.
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}
	lead, err := intParam(r, "lead_days", h.Defaults.ReminderLeadDays)
	if err != nil {
		h.fail(w, r, "Invalid lead_days", err)
		return
	}

	reminders, err := h.dueReminders(r.Context(), asOf, lead)
	if err != nil {
		h.fail(w, r, "Failed to compute reminders", err)
		return
	}
	writeJSON(w, http.StatusOK, RemindersResponse{AsOf: asOf.String(), Reminders: toReminderDTOs(reminders)})
}

// CheckReminders sends the reminders due for the reference date now.
func (h *Handler) CheckReminders(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}

	reminders, sent, err := h.SendReminders(r.Context(), asOf)
	if err != nil {
		h.fail(w, r, "Failed to send reminders", err)
		return
	}
	writeJSON(w, http.StatusOK, RemindersResponse{
		AsOf:      asOf.String(),
		Reminders: toReminderDTOs(reminders),
		Sent:      &sent,
	})
}

// SendReminders notifies about every reminder due on asOf that has not been
// delivered yet. It returns all due reminders and how many were sent now.
// A failed notification is logged and retried on the next call. Deliveries
// for due dates before asOf can no longer come due and are forgotten.
func (h *Handler) SendReminders(ctx context.Context, asOf generic.Date) ([]books.Reminder, int, error) {
	reminders, err := h.dueReminders(ctx, asOf, h.Defaults.ReminderLeadDays)
	if err != nil {
		return nil, 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for key, due := range h.sent {
		if due.Before(asOf) {
			delete(h.sent, key)
		}
	}

	sent := 0
	for _, rem := range reminders {
		key := rem.Invoice.ID + "@" + rem.DueDate.String()
		if _, done := h.sent[key]; done {
			continue
		}
		if err := h.Notifier.Notify(ctx, rem); err != nil {
			h.Log.Error().Err(err).Str("invoice_id", rem.Invoice.ID).Msg("Reminder delivery failed")
			continue
		}
		h.sent[key] = rem.DueDate
		sent++
	}
	return reminders, sent, nil
}

func (h *Handler) dueReminders(ctx context.Context, asOf generic.Date, lead int) ([]books.Reminder, error) {
	n, err := h.load(ctx)
	if err != nil {
		return nil, err
	}
	return books.DueReminders(asOf, lead, n.Invoices)
}

// GetArchive previews which records are old enough to archive.
func (h *Handler) GetArchive(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return
	}
	months, err := intParam(r, "months", h.Defaults.ArchiveAfterMonths)
	if err != nil {
		h.fail(w, r, "Invalid months", err)
		return
	}

	n, err := h.load(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load records", err)
		return
	}
	split, err := books.SplitArchive(asOf, months, n.Records)
	if err != nil {
		h.fail(w, r, "Failed to split archive", err)
		return
	}

	writeJSON(w, http.StatusOK, ArchiveDTO{
		AsOf:   asOf.String(),
		Cutoff: split.Cutoff.String(),
		Active: RecordCount{
			Invoices: len(split.Active.Invoices),
			Checks:   len(split.Active.Checks),
			Payments: len(split.Active.Payments),
		},
		Archived: toRecordsDTO(split.Archived, asOf),
	})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// SeedSnapshot loads a JSON snapshot into the store.
func (h *Handler) SeedSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := factory.ParseSnapshot(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}

	report, err := factory.Seed(r.Context(), h.Store, snap)
	if err != nil {
		h.fail(w, r, "Failed to seed snapshot", err)
		return
	}

	h.Log.Info().
		Int("invoices", report.Invoices).
		Int("checks", report.Checks).
		Int("payments", report.Payments).
		Int("rejected", len(report.Rejected)).
		Int("skipped", len(report.Skipped)).
		Msg("Snapshot seeded")
	writeJSON(w, http.StatusOK, SeedResponse{SeedReport: report, Rejected: toRejectionDTOs(report.Rejected)})
}

type resetter interface {
	Reset(ctx context.Context) error
}

// ResetDatabase drops every record. Development only.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.Store.(resetter)
	if !ok {
		writeError(w, http.StatusNotImplemented, "Store does not support reset", nil)
		return
	}
	if err := rs.Reset(r.Context()); err != nil {
		h.fail(w, r, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.sent = make(map[string]generic.Date)
	h.mu.Unlock()

	h.Log.Warn().Msg("Database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// HELPERS
// =============================================================================

// reservedParams are query keys that are never filters.
var reservedParams = map[string]bool{
	"as_of": true, "weeks": true, "limit": true, "lead_days": true, "months": true,
}

// parseQuery reads the reference date and the filter. Keys in exclude are
// endpoint parameters rather than filters. Filter problems are returned as
// warnings and set in the X-Filter-Warnings header; the filter leaves those
// dimensions open. A bad reference date writes the error response and
// returns ok=false.
func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request, exclude ...string) (generic.Date, books.Filter, []string, bool) {
	asOf, err := h.asOf(r)
	if err != nil {
		h.fail(w, r, "Invalid as_of", err)
		return generic.Date{}, books.Filter{}, nil, false
	}

	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}
	params := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if reservedParams[key] || skip[key] || len(vals) == 0 {
			continue
		}
		params[key] = vals[0]
	}

	f, errs := books.ParseFilter(params)
	var warnings []string
	for _, e := range errs {
		warnings = append(warnings, e.Error())
		h.Log.Debug().Str("request_id", requestID(r)).Str("filter", e.Key).Msg(e.Error())
	}
	if len(warnings) > 0 {
		w.Header().Set("X-Filter-Warnings", strings.Join(warnings, "; "))
	}
	return asOf, f, warnings, true
}

// asOf is the ?as_of= date, or today on the handler clock.
func (h *Handler) asOf(r *http.Request) (generic.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("as_of"))
	if v == "" {
		return h.Clock.Today(), nil
	}
	return generic.ParseDate(v)
}

func intParam(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, v, books.ErrValidation)
	}
	return n, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// fail maps err to a status code and writes the error response. Server-side
// failures are logged with the request id.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error().
			Err(err).
			Str("request_id", requestID(r)).
			Str("path", r.URL.Path).
			Msg(message)
	}
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details(err)})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, books.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, books.ErrDuplicateID):
		return http.StatusConflict, "duplicate_id"
	case errors.Is(err, books.ErrOverpayment):
		return http.StatusConflict, "overpayment"
	case errors.Is(err, books.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, books.ErrReferenceDateRequired),
		errors.Is(err, generic.ErrInvalidDate),
		errors.Is(err, generic.ErrInvalidPeriod):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, books.ErrComputation):
		return http.StatusInternalServerError, "computation_error"
	default:
		return http.StatusInternalServerError, ""
	}
}

// details exposes the structured fields of a validation error, else the
// message.
func details(err error) any {
	var ve *books.ValidationError
	if errors.As(err, &ve) {
		return map[string]string{
			"kind":   string(ve.Kind),
			"id":     ve.RecordID,
			"field":  ve.Field,
			"value":  ve.Value,
			"reason": ve.Reason,
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
