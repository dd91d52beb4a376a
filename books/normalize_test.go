package books_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// DERIVED FIELDS
// =============================================================================

func TestNormalizeInvoice_PartialPayment_DerivesStatusAndLabels(t *testing.T) {
	// GIVEN: An invoice of 1000 with 400 paid, due 2024-03-10
	// WHEN: Normalized
	// THEN: Status is partial, labels come from the due date

	inv, err := books.NormalizeInvoice(books.RawInvoice{
		ID: "inv-1", Amount: "1000", PaidAmount: "400", DueDate: "2024-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, books.InvoicePartial, inv.Status)
	assert.Equal(t, "2024-03", inv.Month)
	assert.Equal(t, "2024-Q1", inv.Quarter)
	assert.True(t, inv.Remaining().Equal(dec("600")))
	assert.Equal(t, generic.DefaultCurrency, inv.Currency)
}

func TestNormalizeInvoice_StatusAlwaysRederived(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		paid   string
		status string
		want   books.InvoiceStatus
	}{
		{"fully paid", "1000", "1000", "unpaid", books.InvoicePaid},
		{"nothing paid", "500", "", "paid", books.InvoiceUnpaid},
		{"partly paid", "500", "0.01", "", books.InvoicePartial},
		{"zero amount counts as paid", "0", "0", "", books.InvoicePaid},
		{"decimal scale ignored", "100.00", "100", "", books.InvoicePaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := books.NormalizeInvoice(books.RawInvoice{
				ID: "inv", Amount: books.Numeric(tt.amount), PaidAmount: books.Numeric(tt.paid),
				DueDate: "2024-03-10", Status: tt.status,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestNormalizeInvoice_KeepsWellFormedLabels(t *testing.T) {
	inv, err := books.NormalizeInvoice(books.RawInvoice{
		ID: "inv-1", Amount: "10", DueDate: "2024-03-10", Month: "2024-02", Quarter: "2023-q4",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02", inv.Month)
	assert.Equal(t, "2023-Q4", inv.Quarter)

	inv, err = books.NormalizeInvoice(books.RawInvoice{
		ID: "inv-2", Amount: "10", DueDate: "2024-03-10", Month: "March", Quarter: "Q1",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", inv.Month, "malformed label is re-derived")
	assert.Equal(t, "2024-Q1", inv.Quarter)
}

func TestNormalizePayment_TruncatesTimestamp(t *testing.T) {
	p, err := books.NormalizePayment(books.RawPayment{
		ID: "pay-1", InvoiceID: "inv-1", Amount: "250.75", PaymentDate: "2024-06-30T22:15:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-30", p.PaymentDate.String())
	assert.Equal(t, "2024-06", p.Month)
	assert.Equal(t, "2024-Q2", p.Quarter)
	assert.Equal(t, books.PeriodMonthly, p.PeriodType)
}

func TestNormalizeCheck_DefaultsToPending(t *testing.T) {
	c, err := books.NormalizeCheck(books.RawCheck{
		ID: "chk-1", Amount: "300", DueDate: "2024-03-06", Type: "Issued", Currency: "usd",
	})
	require.NoError(t, err)
	assert.Equal(t, books.CheckIssued, c.Type)
	assert.Equal(t, books.CheckPending, c.Status)
	assert.Equal(t, generic.Currency("USD"), c.Currency)
}

// =============================================================================
// REJECTIONS
// =============================================================================

func TestNormalize_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name  string
		err   func() error
		field string
	}{
		{"negative invoice amount", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", Amount: "-1", DueDate: "2024-03-01"})
			return err
		}, "amount"},
		{"negative paid amount", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", Amount: "10", PaidAmount: "-1", DueDate: "2024-03-01"})
			return err
		}, "paid_amount"},
		{"overpaid invoice", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", Amount: "10", PaidAmount: "10.01", DueDate: "2024-03-01"})
			return err
		}, "paid_amount"},
		{"unparsable due date", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", Amount: "10", DueDate: "31/02/2024"})
			return err
		}, "due_date"},
		{"missing amount", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", DueDate: "2024-03-01"})
			return err
		}, "amount"},
		{"missing id", func() error {
			_, err := books.NormalizeInvoice(books.RawInvoice{Amount: "10", DueDate: "2024-03-01"})
			return err
		}, "id"},
		{"amount not a number", func() error {
			_, err := books.NormalizeCheck(books.RawCheck{ID: "c", Amount: "ten", DueDate: "2024-03-01", Type: "received"})
			return err
		}, "amount"},
		{"unknown check type", func() error {
			_, err := books.NormalizeCheck(books.RawCheck{ID: "c", Amount: "10", DueDate: "2024-03-01", Type: "postdated"})
			return err
		}, "check_type"},
		{"issued check cannot be collected", func() error {
			_, err := books.NormalizeCheck(books.RawCheck{ID: "c", Amount: "10", DueDate: "2024-03-01", Type: "issued", Status: "collected"})
			return err
		}, "status"},
		{"received check cannot be paid", func() error {
			_, err := books.NormalizeCheck(books.RawCheck{ID: "c", Amount: "10", DueDate: "2024-03-01", Type: "received", Status: "paid"})
			return err
		}, "status"},
		{"unparsable payment date", func() error {
			_, err := books.NormalizePayment(books.RawPayment{ID: "p", Amount: "10", PaymentDate: "yesterday"})
			return err
		}, "payment_date"},
		{"unknown period type", func() error {
			_, err := books.NormalizePayment(books.RawPayment{ID: "p", Amount: "10", PaymentDate: "2024-03-01", PeriodType: "weekly"})
			return err
		}, "period_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err()
			require.Error(t, err)
			assert.ErrorIs(t, err, books.ErrValidation)

			var ve *books.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNormalize_ValidationErrorWrapsParseCause(t *testing.T) {
	_, err := books.NormalizeInvoice(books.RawInvoice{ID: "i", Amount: "10", DueDate: "not-a-date"})
	assert.ErrorIs(t, err, generic.ErrInvalidDate)
	assert.ErrorIs(t, err, books.ErrValidation)
}

func TestNormalize_NegativeCheckIsSkippedAndReported(t *testing.T) {
	// GIVEN: A batch with one valid check and one with amount -5
	// WHEN: The batch is normalized and aggregated
	// THEN: The bad check is in the rejected list and excluded from stats

	result := books.Normalize(nil, []books.RawCheck{
		{ID: "chk-ok", Amount: "100", DueDate: "2024-03-06", Type: "received"},
		{ID: "chk-bad", Amount: "-5", DueDate: "2024-03-06", Type: "received"},
	}, nil)

	require.Len(t, result.Checks, 1)
	assert.Equal(t, "chk-ok", result.Checks[0].ID)
	assert.Equal(t, []string{"chk-bad"}, result.RejectedIDs())
	assert.Equal(t, books.KindCheck, result.Rejected[0].Kind)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Equal(t, "amount", result.Rejected[0].Err.Field)

	stats, err := books.ComputeStats(result.Invoices, result.Checks, result.Payments, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReceivedChecks)
	assert.True(t, stats.TotalReceivedAmount.Equal(dec("100")))
}

func TestNormalize_NeverAbortsBatch(t *testing.T) {
	result := books.Normalize(
		[]books.RawInvoice{
			{ID: "a", Amount: "10", DueDate: "bad"},
			{ID: "b", Amount: "10", DueDate: "2024-03-01"},
			{ID: "b", Amount: "20", DueDate: "2024-03-02"},
			{ID: "c", Amount: "5", PaidAmount: "6", DueDate: "2024-03-03"},
		},
		nil,
		[]books.RawPayment{{ID: "p", Amount: "1", PaymentDate: "2024-03-01"}},
	)

	assert.Equal(t, []string{"b"}, invoiceIDs(result.Invoices))
	assert.True(t, result.Invoices[0].Amount.Equal(dec("10")), "first occurrence wins")
	assert.Equal(t, []string{"a", "b", "c"}, result.RejectedIDs())
	assert.ErrorIs(t, result.Rejected[1].Err, books.ErrDuplicateID)
	assert.Len(t, result.Payments, 1)
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestNormalize_Idempotent(t *testing.T) {
	// GIVEN: A mixed batch with defaults to fill, timestamps and decimals
	// WHEN: Normalized, converted back to raw, and normalized again
	// THEN: The second pass changes nothing

	first := books.Normalize(
		[]books.RawInvoice{
			{ID: "inv-1", CustomerID: "c1", Amount: "1000.50", PaidAmount: "400", DueDate: "2024-03-10T09:00:00Z", Status: "paid"},
			{ID: "inv-2", CustomerID: "c2", Amount: "0", DueDate: "2024-04-01", Currency: "eur"},
		},
		[]books.RawCheck{
			{ID: "chk-1", CheckNumber: "001", Amount: "75.10", DueDate: "2024-03-06", Type: "RECEIVED", BankAccountID: " bank-1 "},
		},
		[]books.RawPayment{
			{ID: "pay-1", InvoiceID: "inv-1", Amount: "400.00", PaymentDate: "2024-03-02 14:30:00", PeriodType: "Quarterly"},
		},
	)
	require.Empty(t, first.Rejected)

	second := books.Normalize(rawInvoices(first.Invoices), rawChecks(first.Checks), rawPayments(first.Payments))
	require.Empty(t, second.Rejected)

	assert.Equal(t, rawInvoices(first.Invoices), rawInvoices(second.Invoices))
	assert.Equal(t, rawChecks(first.Checks), rawChecks(second.Checks))
	assert.Equal(t, rawPayments(first.Payments), rawPayments(second.Payments))

	third := books.Normalize(rawInvoices(second.Invoices), rawChecks(second.Checks), rawPayments(second.Payments))
	assert.Equal(t, second.Records, third.Records)
}

func rawInvoices(items []books.Invoice) []books.RawInvoice {
	out := make([]books.RawInvoice, 0, len(items))
	for _, it := range items {
		out = append(out, it.Raw())
	}
	return out
}

func rawChecks(items []books.Check) []books.RawCheck {
	out := make([]books.RawCheck, 0, len(items))
	for _, it := range items {
		out = append(out, it.Raw())
	}
	return out
}

func rawPayments(items []books.Payment) []books.RawPayment {
	out := make([]books.RawPayment, 0, len(items))
	for _, it := range items {
		out = append(out, it.Raw())
	}
	return out
}

// =============================================================================
// NUMERIC
// =============================================================================

func TestNumeric_AcceptsStringsAndNumbers(t *testing.T) {
	var raw books.RawInvoice
	err := json.Unmarshal([]byte(`{"id":"inv-1","amount":1000.10,"paid_amount":"0.20","due_date":"2024-03-10"}`), &raw)
	require.NoError(t, err)

	assert.Equal(t, books.Numeric("1000.10"), raw.Amount, "number literal kept verbatim")
	assert.Equal(t, books.Numeric("0.20"), raw.PaidAmount)

	inv, err := books.NormalizeInvoice(raw)
	require.NoError(t, err)
	assert.True(t, inv.Remaining().Equal(dec("999.90")))
}

func TestNumeric_RejectsOtherJSON(t *testing.T) {
	var raw books.RawInvoice
	err := json.Unmarshal([]byte(`{"id":"inv-1","amount":true}`), &raw)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"id":"inv-1","amount":null}`), &raw)
	require.NoError(t, err)
	_, err = books.NormalizeInvoice(raw)
	assert.True(t, errors.Is(err, books.ErrValidation))
}
