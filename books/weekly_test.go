package books_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/generic"
)

func TestBuildWeeklySchedule_IssuedCheckInFirstWeek(t *testing.T) {
	// GIVEN: Reference Monday 2024-03-04 and an issued check due 2024-03-06
	// WHEN: A two-week schedule is built
	// THEN: Week 0 (Mar 4-10) holds it and its payable equals the check amount

	chk := check(t, "chk-1", "750.40", "2024-03-06", books.CheckIssued)

	weeks, err := books.BuildWeeklySchedule(march4, 2, nil, []books.Check{chk})
	require.NoError(t, err)
	require.Len(t, weeks, 2)

	assert.Equal(t, "2024-03-04", weeks[0].Period.Start.String())
	assert.Equal(t, "2024-03-10", weeks[0].Period.End.String())
	assert.Equal(t, []string{"chk-1"}, checkIDs(weeks[0].IssuedChecks))
	assert.True(t, weeks[0].TotalPayable.Equal(dec("750.40")))
	assert.True(t, weeks[0].TotalReceivable.IsZero())

	assert.True(t, weeks[1].IsEmpty())
	assert.True(t, weeks[1].TotalPayable.IsZero())
}

func TestBuildWeeklySchedule_WindowsAreContiguous(t *testing.T) {
	refs := []string{"2024-03-04", "2024-03-07", "2024-03-10", "2024-12-30", "2024-02-26"}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			weeks, err := books.BuildWeeklySchedule(generic.MustParseDate(ref), 8, nil, nil)
			require.NoError(t, err)
			require.Len(t, weeks, 8)

			assert.True(t, weeks[0].Period.Contains(generic.MustParseDate(ref)))
			for i, w := range weeks {
				assert.Equal(t, 7, w.Period.Len())
				assert.Equal(t, "Monday", w.Period.Start.Weekday().String())
				if i+1 < len(weeks) {
					assert.True(t, w.Period.End.AddDays(1).Equal(weeks[i+1].Period.Start),
						"week %d ends %s, next starts %s", i, w.Period.End, weeks[i+1].Period.Start)
				}
			}
		})
	}
}

func TestBuildWeeklySchedule_MidweekReferenceStartsOnMonday(t *testing.T) {
	weeks, err := books.BuildWeeklySchedule(generic.MustParseDate("2024-03-09"), 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", weeks[0].Period.Start.String())
	assert.Equal(t, "04.03.2024 - 10.03.2024", weeks[0].DateRange)
}

func TestBuildWeeklySchedule_DefaultsAndLabels(t *testing.T) {
	weeks, err := books.BuildWeeklySchedule(march4, 0, nil, nil)
	require.NoError(t, err)
	require.Len(t, weeks, books.DefaultWeekCount)

	var labels []string
	for i, w := range weeks {
		assert.Equal(t, i, w.Index)
		labels = append(labels, w.Label)
	}
	assert.Equal(t, []string{"This week", "Next week", "Week 3", "Week 4"}, labels)
}

func TestBuildWeeklySchedule_ReceivableCountsInvoiceRemainder(t *testing.T) {
	// GIVEN: A partly paid invoice, a paid invoice and a received check in week 1
	// WHEN: The schedule is built
	// THEN: Receivable = check amount + unpaid remainder; paid invoice excluded

	invoices := []books.Invoice{
		invoice(t, "inv-partial", "1000", "400", "2024-03-12"),
		invoice(t, "inv-paid", "500", "500", "2024-03-13"),
		invoice(t, "inv-later", "90", "0", "2024-04-30"),
		invoice(t, "inv-before", "90", "0", "2024-03-03"),
	}
	checks := []books.Check{
		check(t, "chk-r", "250", "2024-03-17", books.CheckReceived),
		check(t, "chk-i", "80", "2024-03-11", books.CheckIssued),
	}

	weeks, err := books.BuildWeeklySchedule(march4, 4, invoices, checks)
	require.NoError(t, err)

	w := weeks[1]
	assert.Equal(t, []string{"inv-partial"}, invoiceIDs(w.InvoicesDue))
	assert.Equal(t, []string{"chk-r"}, checkIDs(w.ReceivedChecks))
	assert.True(t, w.TotalReceivable.Equal(dec("850")), "got %s", w.TotalReceivable)
	assert.True(t, w.TotalPayable.Equal(dec("80")))
	assert.True(t, w.Net().Equal(dec("770")))

	for _, other := range []int{0, 2, 3} {
		assert.True(t, weeks[other].IsEmpty(), "week %d", other)
	}
}

func TestBuildWeeklySchedule_RequiresReferenceDate(t *testing.T) {
	_, err := books.BuildWeeklySchedule(generic.Date{}, 4, nil, nil)
	assert.ErrorIs(t, err, books.ErrReferenceDateRequired)
}

func TestBuildWeeklySchedule_CorruptInvoiceAborts(t *testing.T) {
	bad := invoice(t, "inv-1", "100", "0", "2024-03-05")
	bad.Amount = dec("-100")

	weeks, err := books.BuildWeeklySchedule(march4, 2, []books.Invoice{bad}, nil)
	assert.ErrorIs(t, err, books.ErrComputation)
	assert.Nil(t, weeks)
}
