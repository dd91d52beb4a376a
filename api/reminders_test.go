package api

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turyasin/collections/books"
	"github.com/turyasin/collections/books/store"
	"github.com/turyasin/collections/factory"
	"github.com/turyasin/collections/generic"
)

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, books.Reminder) error { return nil }

func TestSendReminders_ForgetsPastDueDates(t *testing.T) {
	// GIVEN: Two invoices due two days apart and a two day lead time
	// WHEN: Reminders are sent on consecutive days past the first due date
	// THEN: Deliveries whose due date has passed are no longer remembered

	ctx := context.Background()
	m := store.NewMemory()
	_, err := factory.Seed(ctx, m, factory.Snapshot{
		Invoices: []books.RawInvoice{
			{ID: "inv-1", Amount: "100", DueDate: "2024-03-06"},
			{ID: "inv-2", Amount: "100", DueDate: "2024-03-08"},
		},
	})
	require.NoError(t, err)

	h := NewHandler(m, Defaults{ReminderLeadDays: 2})
	h.Log = zerolog.Nop()
	h.Notifier = discardNotifier{}

	_, sent, err := h.SendReminders(ctx, generic.MustParseDate("2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	_, sent, err = h.SendReminders(ctx, generic.MustParseDate("2024-03-06"))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, h.sent, 2, "inv-1 is due today and still remembered")

	_, sent, err = h.SendReminders(ctx, generic.MustParseDate("2024-03-07"))
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	require.Len(t, h.sent, 1)
	assert.Contains(t, h.sent, "inv-2@2024-03-08")

	_, _, err = h.SendReminders(ctx, generic.MustParseDate("2024-03-09"))
	require.NoError(t, err)
	assert.Empty(t, h.sent)
}
