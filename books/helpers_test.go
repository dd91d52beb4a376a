package books_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/generic"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	march4  = generic.MustParseDate("2024-03-04") // a Monday
	march15 = generic.MustParseDate("2024-03-15")
)

func dec(s string) decimal.Decimal { return generic.MustParseMoney(s) }

func invoice(t *testing.T, id, amount, paid, due string) books.Invoice {
	t.Helper()
	inv, err := books.NormalizeInvoice(books.RawInvoice{
		ID: id, CustomerID: "cust-1", Amount: books.Numeric(amount), PaidAmount: books.Numeric(paid), DueDate: due,
	})
	require.NoError(t, err)
	return inv
}

func check(t *testing.T, id, amount, due string, typ books.CheckType) books.Check {
	t.Helper()
	c, err := books.NormalizeCheck(books.RawCheck{
		ID: id, CheckNumber: "CHK-" + id, Amount: books.Numeric(amount), DueDate: due, Type: string(typ),
	})
	require.NoError(t, err)
	return c
}

func payment(t *testing.T, id, invoiceID, amount, date string) books.Payment {
	t.Helper()
	p, err := books.NormalizePayment(books.RawPayment{
		ID: id, InvoiceID: invoiceID, Amount: books.Numeric(amount), PaymentDate: date,
	})
	require.NoError(t, err)
	return p
}

func invoiceIDs(items []books.Invoice) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func checkIDs(items []books.Check) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func paymentIDs(items []books.Payment) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
