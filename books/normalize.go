package books

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// RECORD NORMALIZER
// =============================================================================

// Rejection records a raw record the normalizer skipped.
type Rejection struct {
	Kind  RecordKind       `json:"kind"`
	Index int              `json:"index"` // position in the input batch
	ID    string           `json:"id"`
	Err   *ValidationError `json:"-"`
}

// Reason is the human-readable cause, e.g. "paid_amount exceeds amount".
func (r Rejection) Reason() string { return r.Err.Error() }

// Normalized is the outcome of a batch: the accepted entities plus every
// rejected record. Accepted entities keep their input order.
type Normalized struct {
	Records
	Rejected []Rejection
}

// RejectedIDs lists the ids of rejected records in input order.
func (n Normalized) RejectedIDs() []string {
	ids := make([]string, 0, len(n.Rejected))
	for _, r := range n.Rejected {
		ids = append(ids, r.ID)
	}
	return ids
}

// Normalize validates and canonicalizes a batch. Invalid records are skipped
// and reported in Rejected; the batch itself never fails. A record whose id
// repeats an earlier accepted record of the same kind is rejected.
func Normalize(invoices []RawInvoice, checks []RawCheck, payments []RawPayment) Normalized {
	var out Normalized

	seen := make(map[string]bool, len(invoices))
	for i, raw := range invoices {
		inv, err := NormalizeInvoice(raw)
		if err == nil && seen[inv.ID] {
			err = duplicate(KindInvoice, inv.ID)
		}
		if err != nil {
			out.Rejected = append(out.Rejected, reject(KindInvoice, i, raw.ID, err))
			continue
		}
		seen[inv.ID] = true
		out.Invoices = append(out.Invoices, inv)
	}

	seen = make(map[string]bool, len(checks))
	for i, raw := range checks {
		c, err := NormalizeCheck(raw)
		if err == nil && seen[c.ID] {
			err = duplicate(KindCheck, c.ID)
		}
		if err != nil {
			out.Rejected = append(out.Rejected, reject(KindCheck, i, raw.ID, err))
			continue
		}
		seen[c.ID] = true
		out.Checks = append(out.Checks, c)
	}

	seen = make(map[string]bool, len(payments))
	for i, raw := range payments {
		p, err := NormalizePayment(raw)
		if err == nil && seen[p.ID] {
			err = duplicate(KindPayment, p.ID)
		}
		if err != nil {
			out.Rejected = append(out.Rejected, reject(KindPayment, i, raw.ID, err))
			continue
		}
		seen[p.ID] = true
		out.Payments = append(out.Payments, p)
	}

	return out
}

func reject(kind RecordKind, index int, id string, err error) Rejection {
	ve, ok := err.(*ValidationError)
	if !ok {
		ve = &ValidationError{Kind: kind, RecordID: id, Field: "record", Reason: err.Error(), Err: err}
	}
	return Rejection{Kind: kind, Index: index, ID: strings.TrimSpace(id), Err: ve}
}

func duplicate(kind RecordKind, id string) *ValidationError {
	return &ValidationError{Kind: kind, RecordID: id, Field: "id", Reason: "is duplicated in batch", Err: ErrDuplicateID}
}

// =============================================================================
// SINGLE RECORDS
// =============================================================================

// NormalizeInvoice validates raw and derives status, month and quarter.
// Status is always recomputed from the amounts; an upstream status is ignored.
func NormalizeInvoice(raw RawInvoice) (Invoice, error) {
	v := validator{kind: KindInvoice, id: strings.TrimSpace(raw.ID)}
	v.requireID()
	amount := v.amount("amount", raw.Amount, true)
	paid := v.amount("paid_amount", raw.PaidAmount, false)
	if v.err == nil && paid.GreaterThan(amount) {
		v.fail("paid_amount", string(raw.PaidAmount), "exceeds amount", nil)
	}
	due := v.date("due_date", raw.DueDate)
	if v.err != nil {
		return Invoice{}, v.err
	}

	return Invoice{
		ID:            v.id,
		CustomerID:    raw.CustomerID,
		CustomerName:  raw.CustomerName,
		InvoiceNumber: raw.InvoiceNumber,
		Amount:        amount,
		PaidAmount:    paid,
		Currency:      generic.NormalizeCurrency(raw.Currency),
		DueDate:       due,
		Status:        DeriveStatus(amount, paid),
		Month:         monthLabelOr(raw.Month, due),
		Quarter:       quarterLabelOr(raw.Quarter, due),
		Notes:         raw.Notes,
	}, nil
}

// NormalizeCheck validates raw. A missing status defaults to pending; a
// status not reachable by the check's type is rejected.
func NormalizeCheck(raw RawCheck) (Check, error) {
	v := validator{kind: KindCheck, id: strings.TrimSpace(raw.ID)}
	v.requireID()
	amount := v.amount("amount", raw.Amount, true)
	due := v.date("due_date", raw.DueDate)

	checkType := CheckType(strings.ToLower(strings.TrimSpace(raw.Type)))
	if !checkType.Valid() {
		v.fail("check_type", raw.Type, "must be received or issued", nil)
	}

	status := CheckStatus(strings.ToLower(strings.TrimSpace(raw.Status)))
	if status == "" {
		status = CheckPending
	}
	if checkType.Valid() && !checkType.Allows(status) {
		v.fail("status", raw.Status, "not allowed for "+string(checkType)+" checks", nil)
	}
	if v.err != nil {
		return Check{}, v.err
	}

	return Check{
		ID:            v.id,
		CheckNumber:   raw.CheckNumber,
		Amount:        amount,
		Currency:      generic.NormalizeCurrency(raw.Currency),
		DueDate:       due,
		Type:          checkType,
		Status:        status,
		BankName:      raw.BankName,
		BankAccountID: strings.TrimSpace(raw.BankAccountID),
		PayerPayee:    raw.PayerPayee,
		Month:         monthLabelOr(raw.Month, due),
		Quarter:       quarterLabelOr(raw.Quarter, due),
	}, nil
}

// NormalizePayment validates raw, truncates the payment date to a calendar
// day and defaults the period type to monthly.
func NormalizePayment(raw RawPayment) (Payment, error) {
	v := validator{kind: KindPayment, id: strings.TrimSpace(raw.ID)}
	v.requireID()
	amount := v.amount("amount", raw.Amount, true)
	paidOn := v.date("payment_date", raw.PaymentDate)

	period := PeriodType(strings.ToLower(strings.TrimSpace(raw.PeriodType)))
	if period == "" {
		period = PeriodMonthly
	}
	if !period.Valid() {
		v.fail("period_type", raw.PeriodType, "must be monthly, quarterly or yearly", nil)
	}
	if v.err != nil {
		return Payment{}, v.err
	}

	return Payment{
		ID:            v.id,
		InvoiceID:     strings.TrimSpace(raw.InvoiceID),
		Amount:        amount,
		Currency:      generic.NormalizeCurrency(raw.Currency),
		PaymentDate:   paidOn,
		BankAccountID: strings.TrimSpace(raw.BankAccountID),
		CheckNumber:   raw.CheckNumber,
		Method:        raw.Method,
		PeriodType:    period,
		Month:         monthLabelOr(raw.Month, paidOn),
		Quarter:       quarterLabelOr(raw.Quarter, paidOn),
	}, nil
}

// NormalizeBankAccount requires an id and a bank name and defaults currency.
func NormalizeBankAccount(b BankAccount) (BankAccount, error) {
	v := validator{kind: KindBankAccount, id: strings.TrimSpace(b.ID)}
	v.requireID()
	if strings.TrimSpace(b.BankName) == "" {
		v.fail("bank_name", "", "is required", nil)
	}
	if v.err != nil {
		return BankAccount{}, v.err
	}
	b.ID = v.id
	b.Currency = string(generic.NormalizeCurrency(b.Currency))
	return b, nil
}

// =============================================================================
// FIELD VALIDATION
// =============================================================================

// validator keeps the first failure; later checks become no-ops.
type validator struct {
	kind RecordKind
	id   string
	err  *ValidationError
}

func (v *validator) fail(field, value, reason string, cause error) {
	if v.err != nil {
		return
	}
	v.err = &ValidationError{Kind: v.kind, RecordID: v.id, Field: field, Value: value, Reason: reason, Err: cause}
}

func (v *validator) requireID() {
	if v.id == "" {
		v.fail("id", "", "is required", nil)
	}
}

// amount parses a non-negative decimal. An absent optional amount is zero.
func (v *validator) amount(field string, raw Numeric, required bool) decimal.Decimal {
	if strings.TrimSpace(string(raw)) == "" {
		if required {
			v.fail(field, "", "is required", nil)
		}
		return decimal.Zero
	}
	d, err := generic.ParseMoney(string(raw))
	if err != nil {
		v.fail(field, string(raw), "is not a number", err)
		return decimal.Zero
	}
	if d.IsNegative() {
		v.fail(field, string(raw), "must not be negative", nil)
	}
	return d
}

func (v *validator) date(field, raw string) generic.Date {
	d, err := generic.ParseDate(raw)
	if err != nil {
		v.fail(field, raw, "is not a valid date", err)
	}
	return d
}

// monthLabelOr keeps a well-formed upstream label and derives it otherwise.
func monthLabelOr(label string, d generic.Date) string {
	if label = strings.TrimSpace(label); validMonthLabel(label) {
		return label
	}
	return d.MonthLabel()
}

func quarterLabelOr(label string, d generic.Date) string {
	if label = strings.ToUpper(strings.TrimSpace(label)); validQuarterLabel(label) {
		return label
	}
	return d.QuarterLabel()
}
