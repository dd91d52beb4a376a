package books_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/generic"
)

func TestComputeStats_CountsAndOutstanding(t *testing.T) {
	// GIVEN: One paid invoice of 1000 and one unpaid invoice of 500
	// WHEN: Stats are computed
	// THEN: Outstanding is 500, one paid, one unpaid, two total

	invoices := []books.Invoice{
		invoice(t, "inv-1", "1000", "1000", "2024-03-10"),
		invoice(t, "inv-2", "500", "0", "2024-03-20"),
	}

	stats, err := books.ComputeStats(invoices, nil, nil, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)

	assert.True(t, stats.OutstandingAmount.Equal(dec("500")), "got %s", stats.OutstandingAmount)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 1, stats.UnpaidCount)
	assert.Equal(t, 0, stats.PartialCount)
	assert.Equal(t, 2, stats.TotalInvoices)
	assert.True(t, stats.TotalAmount.Equal(dec("1500")))
}

func TestComputeStats_OverdueUsesReferenceDate(t *testing.T) {
	invoices := []books.Invoice{
		invoice(t, "due-yesterday", "100", "0", "2024-03-03"),
		invoice(t, "due-today", "100", "50", "2024-03-04"),
		invoice(t, "paid-late", "100", "100", "2024-02-01"),
	}

	stats, err := books.ComputeStats(invoices, nil, nil, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OverdueCount, "due today is not overdue, paid is never overdue")

	stats, err = books.ComputeStats(invoices, nil, nil, books.StatsOptions{AsOf: march4.AddDays(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OverdueCount)
}

func TestComputeStats_RequiresReferenceDate(t *testing.T) {
	_, err := books.ComputeStats(nil, nil, nil, books.StatsOptions{})
	assert.ErrorIs(t, err, books.ErrReferenceDateRequired)
}

func TestComputeStats_CheckDirections(t *testing.T) {
	collected, err := check(t, "r2", "200", "2024-03-08", books.CheckReceived).WithStatus(books.CheckCollected)
	require.NoError(t, err)
	checks := []books.Check{
		check(t, "r1", "100.25", "2024-03-06", books.CheckReceived),
		collected,
		check(t, "i1", "50", "2024-03-06", books.CheckIssued),
	}

	stats, err := books.ComputeStats(nil, checks, nil, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalReceivedChecks)
	assert.True(t, stats.TotalReceivedAmount.Equal(dec("300.25")))
	assert.Equal(t, 1, stats.PendingReceivedChecks)
	assert.Equal(t, 1, stats.TotalIssuedChecks)
	assert.True(t, stats.TotalIssuedAmount.Equal(dec("50")))
	assert.Equal(t, 1, stats.PendingIssuedChecks)
}

func TestComputeStats_RecentPaymentsOrdering(t *testing.T) {
	// GIVEN: Six payments, two sharing the newest date
	// WHEN: Stats are computed with the default limit
	// THEN: Newest first, same-day ties by ascending id, five returned

	payments := []books.Payment{
		payment(t, "p-a", "", "1", "2024-03-01"),
		payment(t, "p-c", "", "1", "2024-03-05"),
		payment(t, "p-b", "", "1", "2024-03-05"),
		payment(t, "p-d", "", "1", "2024-02-28"),
		payment(t, "p-e", "", "1", "2024-03-02"),
		payment(t, "p-f", "", "1", "2024-01-15"),
	}

	stats, err := books.ComputeStats(nil, nil, payments, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)
	assert.Equal(t, []string{"p-b", "p-c", "p-e", "p-a", "p-d"}, paymentIDs(stats.RecentPayments))
	assert.Equal(t, "p-a", payments[0].ID, "input not reordered")

	stats, err = books.ComputeStats(nil, nil, payments, books.StatsOptions{AsOf: march4, RecentLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"p-b", "p-c"}, paymentIDs(stats.RecentPayments))
}

func TestComputeStats_OrderIndependent(t *testing.T) {
	invoices := []books.Invoice{
		invoice(t, "a", "10.10", "0", "2024-03-01"),
		invoice(t, "b", "20.20", "5", "2024-03-02"),
		invoice(t, "c", "30.30", "30.30", "2024-03-03"),
	}
	payments := []books.Payment{
		payment(t, "p1", "b", "5", "2024-03-01"),
		payment(t, "p2", "c", "30.30", "2024-03-01"),
	}

	forward, err := books.ComputeStats(invoices, nil, payments, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)

	reversed := []books.Invoice{invoices[2], invoices[1], invoices[0]}
	backward, err := books.ComputeStats(reversed, nil, []books.Payment{payments[1], payments[0]}, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestComputeStats_Conservation(t *testing.T) {
	// GIVEN: Invoices whose paid amounts equal the payments recorded against them
	// WHEN: Stats are computed
	// THEN: outstanding + collected == Σ amounts, with zero drift

	invoices := []books.Invoice{
		invoice(t, "inv-1", "0.10", "0.10", "2024-03-01"),
		invoice(t, "inv-2", "0.20", "0.10", "2024-03-02"),
		invoice(t, "inv-3", "1999.99", "0", "2024-03-03"),
		invoice(t, "inv-4", "333.33", "111.11", "2024-03-04"),
	}
	payments := []books.Payment{
		payment(t, "p1", "inv-1", "0.10", "2024-03-01"),
		payment(t, "p2", "inv-2", "0.10", "2024-03-01"),
		payment(t, "p3", "inv-4", "111.11", "2024-03-01"),
	}

	stats, err := books.ComputeStats(invoices, nil, payments, books.StatsOptions{AsOf: march4})
	require.NoError(t, err)

	total := generic.Sum(invoices[0].Amount, invoices[1].Amount, invoices[2].Amount, invoices[3].Amount)
	assert.True(t, stats.OutstandingAmount.Add(stats.PaidAmount).Equal(total),
		"%s + %s != %s", stats.OutstandingAmount, stats.PaidAmount, total)
	assert.Equal(t, "2333.62", stats.OutstandingAmount.Add(stats.PaidAmount).StringFixed(2))
	assert.Equal(t, "2222.31", stats.OutstandingAmount.StringFixed(2))
}

func TestComputeStats_CorruptEntityAborts(t *testing.T) {
	// GIVEN: An invoice mutated after normalization so paid exceeds amount
	// WHEN: Stats are computed
	// THEN: A ComputationError names the record; no partial result

	bad := invoice(t, "inv-bad", "100", "0", "2024-03-01")
	bad.PaidAmount = dec("150")

	stats, err := books.ComputeStats([]books.Invoice{invoice(t, "ok", "1", "0", "2024-03-01"), bad}, nil, nil,
		books.StatsOptions{AsOf: march4})

	require.Error(t, err)
	assert.ErrorIs(t, err, books.ErrComputation)
	var ce *books.ComputationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "inv-bad", ce.RecordID)
	assert.Equal(t, books.KindInvoice, ce.Kind)
	assert.Equal(t, books.Stats{}, stats)
}

func TestComputeStats_StaleStatusIsCorrupt(t *testing.T) {
	stale := invoice(t, "inv-1", "100", "0", "2024-03-01")
	stale.PaidAmount = dec("100") // status left unpaid

	_, err := books.ComputeStats([]books.Invoice{stale}, nil, nil, books.StatsOptions{AsOf: march4})
	assert.ErrorIs(t, err, books.ErrComputation)
}
