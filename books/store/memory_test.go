package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/books/store"
)

func mustInvoice(t *testing.T, raw books.RawInvoice) books.Invoice {
	t.Helper()
	inv, err := books.NormalizeInvoice(raw)
	require.NoError(t, err)
	return inv
}

func mustPayment(t *testing.T, raw books.RawPayment) books.Payment {
	t.Helper()
	p, err := books.NormalizePayment(raw)
	require.NoError(t, err)
	return p
}

func TestMemory_RecordAndDeletePayment(t *testing.T) {
	// GIVEN: An unpaid invoice of 1000
	// WHEN: A payment of 400 is recorded, then deleted
	// THEN: The invoice goes partial, then back to unpaid

	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.CreateInvoice(ctx, mustInvoice(t, books.RawInvoice{ID: "inv-1", Amount: "1000", DueDate: "2024-03-10"})))

	p := mustPayment(t, books.RawPayment{ID: "pay-1", InvoiceID: "inv-1", Amount: "400", PaymentDate: "2024-03-01"})
	require.NoError(t, m.RecordPayment(ctx, p))

	raw, err := m.GetInvoice(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "partial", raw.Status)
	assert.Equal(t, books.Numeric("400"), raw.PaidAmount)

	require.NoError(t, m.DeletePayment(ctx, "pay-1"))
	raw, err = m.GetInvoice(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "unpaid", raw.Status)

	payments, err := m.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestMemory_RejectsOverpaymentAtomically(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.CreateInvoice(ctx, mustInvoice(t, books.RawInvoice{ID: "inv-1", Amount: "100", DueDate: "2024-03-10"})))

	err := m.RecordPayment(ctx, mustPayment(t, books.RawPayment{ID: "pay-1", InvoiceID: "inv-1", Amount: "150", PaymentDate: "2024-03-01"}))
	assert.ErrorIs(t, err, books.ErrOverpayment)

	payments, _ := m.ListPayments(ctx)
	assert.Empty(t, payments)
	raw, _ := m.GetInvoice(ctx, "inv-1")
	assert.Equal(t, "unpaid", raw.Status)
}

func TestMemory_NotFoundAndDuplicates(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.GetInvoice(ctx, "missing")
	assert.ErrorIs(t, err, books.ErrNotFound)
	assert.ErrorIs(t, m.DeleteInvoice(ctx, "missing"), books.ErrNotFound)
	assert.ErrorIs(t, m.DeletePayment(ctx, "missing"), books.ErrNotFound)

	err = m.RecordPayment(ctx, mustPayment(t, books.RawPayment{ID: "p", InvoiceID: "missing", Amount: "1", PaymentDate: "2024-03-01"}))
	assert.ErrorIs(t, err, books.ErrNotFound)

	inv := mustInvoice(t, books.RawInvoice{ID: "inv-1", Amount: "1", DueDate: "2024-03-10"})
	require.NoError(t, m.CreateInvoice(ctx, inv))
	assert.ErrorIs(t, m.CreateInvoice(ctx, inv), books.ErrDuplicateID)

	bank := books.BankAccount{ID: "bank-1", BankName: "Ziraat"}
	require.NoError(t, m.CreateBankAccount(ctx, bank))
	assert.ErrorIs(t, m.CreateBankAccount(ctx, bank), books.ErrDuplicateID)
}

func TestMemory_UpdateCheckStatus(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	c, err := books.NormalizeCheck(books.RawCheck{ID: "chk-1", Amount: "10", DueDate: "2024-03-06", Type: "issued"})
	require.NoError(t, err)
	require.NoError(t, m.CreateCheck(ctx, c))

	_, err = m.UpdateCheckStatus(ctx, "chk-1", books.CheckCollected)
	assert.ErrorIs(t, err, books.ErrValidation)

	updated, err := m.UpdateCheckStatus(ctx, "chk-1", books.CheckPaid)
	require.NoError(t, err)
	assert.Equal(t, books.CheckPaid, updated.Status)

	checks, err := m.ListChecks(ctx)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, "paid", checks[0].Status)
}

func TestLoad_NormalizesStoredRecords(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.CreateInvoice(ctx, mustInvoice(t, books.RawInvoice{ID: "b", Amount: "5", DueDate: "2024-03-02"})))
	require.NoError(t, m.CreateInvoice(ctx, mustInvoice(t, books.RawInvoice{ID: "a", Amount: "5", DueDate: "2024-03-01"})))

	n, err := books.Load(ctx, m)
	require.NoError(t, err)
	require.Len(t, n.Invoices, 2)
	assert.Equal(t, "a", n.Invoices[0].ID, "listed by id")
	assert.Empty(t, n.Rejected)
}
