/*
store.go - Persistence interface for invoices, checks, payments and banks

PURPOSE:
  Defines the boundary between the engine and the database. Stores hand back
  RAW records, exactly as persisted; the engine normalizes them on every
  computation so derived fields are never trusted from storage.

WRITES:
  Writes take canonical entities (already normalized), so nothing invalid is
  ever persisted through this interface.
  - RecordPayment applies the payment to its invoice atomically
    (ApplyPayment), rejecting overpayment.
  - DeletePayment reverses it (ReversePayment).
  - UpdateCheckStatus only accepts statuses valid for the check's type.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite with embedded goose migrations
  - books/store/memory.go: In-memory for testing

SEE ALSO:
  - normalize.go: Turns what Load returns into entities
*/
package books

import (
	"context"
	"fmt"
)

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	ListInvoices(ctx context.Context) ([]RawInvoice, error)
	GetInvoice(ctx context.Context, id string) (RawInvoice, error)
	CreateInvoice(ctx context.Context, inv Invoice) error
	DeleteInvoice(ctx context.Context, id string) error

	ListChecks(ctx context.Context) ([]RawCheck, error)
	CreateCheck(ctx context.Context, c Check) error
	UpdateCheckStatus(ctx context.Context, id string, status CheckStatus) (Check, error)

	ListPayments(ctx context.Context) ([]RawPayment, error)
	// RecordPayment stores p and adds it to its invoice in one transaction.
	RecordPayment(ctx context.Context, p Payment) error
	// DeletePayment removes the payment and subtracts it from its invoice.
	DeletePayment(ctx context.Context, id string) error

	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	CreateBankAccount(ctx context.Context, b BankAccount) error
}

// Load fetches every record from s and normalizes the batch. Records that
// fail validation are reported in Rejected, never returned as an error.
func Load(ctx context.Context, s Store) (Normalized, error) {
	invoices, err := s.ListInvoices(ctx)
	if err != nil {
		return Normalized{}, fmt.Errorf("list invoices: %w", err)
	}
	checks, err := s.ListChecks(ctx)
	if err != nil {
		return Normalized{}, fmt.Errorf("list checks: %w", err)
	}
	payments, err := s.ListPayments(ctx)
	if err != nil {
		return Normalized{}, fmt.Errorf("list payments: %w", err)
	}
	return Normalize(invoices, checks, payments), nil
}
