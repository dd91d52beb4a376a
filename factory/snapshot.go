/*
Package factory converts JSON snapshots into records and seeds stores.

PURPOSE:
  A snapshot is a JSON document holding raw invoices, checks, payments and
  bank accounts, the same shapes the API accepts. Snapshots feed the offline
  reports of the CLI and seed a fresh database for demos and tests.

JSON SCHEMA:
  {
    "bank_accounts": [{"id": "bank-1", "bank_name": "Ziraat", "currency": "TRY"}],
    "invoices": [
      {"id": "inv-1", "customer_id": "c-1", "amount": "1000", "paid_amount": "400",
       "due_date": "2024-03-10"}
    ],
    "checks": [
      {"id": "chk-1", "check_number": "A-1", "amount": 750, "due_date": "2024-03-06",
       "check_type": "issued"}
    ],
    "payments": [
      {"id": "pay-1", "invoice_id": "inv-1", "amount": "400", "payment_date": "2024-03-01"}
    ]
  }

  Amounts may be JSON strings or numbers; both are read without floats.

SEEDING:
  Invoice paid amounts in the snapshot are authoritative. Seed stores each
  invoice with the part covered by snapshot payments removed, then records
  those payments, so the stored paid amount ends where the snapshot says.

USAGE:
  snap, err := factory.ParseSnapshot(file)
  report, err := factory.Seed(ctx, store, snap)

SEE ALSO:
  - books/records.go: Raw record shapes
  - books/store.go: Store interface
*/
package factory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/turyasin/collections/books"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a batch of raw records as exchanged in JSON.
type Snapshot struct {
	BankAccounts []books.BankAccount `json:"bank_accounts,omitempty"`
	Invoices     []books.RawInvoice  `json:"invoices"`
	Checks       []books.RawCheck    `json:"checks"`
	Payments     []books.RawPayment  `json:"payments"`
}

// ParseSnapshot decodes a snapshot. Unknown fields are rejected so typos in
// hand-written fixtures surface early.
func ParseSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return snap, nil
}

// LoadSnapshotFile reads and decodes the snapshot at path.
func LoadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return ParseSnapshot(f)
}

// Normalize runs the record normalizer over the snapshot.
func (s Snapshot) Normalize() books.Normalized {
	return books.Normalize(s.Invoices, s.Checks, s.Payments)
}

// =============================================================================
// SEEDING
// =============================================================================

// SeedReport summarizes what Seed wrote and what it skipped.
type SeedReport struct {
	BankAccounts int               `json:"bank_accounts"`
	Invoices     int               `json:"invoices"`
	Checks       int               `json:"checks"`
	Payments     int               `json:"payments"`
	Rejected     []books.Rejection `json:"-"`
	Skipped      []string          `json:"skipped,omitempty"` // store-level failures, one line each
}

// Seed normalizes the snapshot and writes every accepted record to s.
// Rejected records and records the store refuses are reported, not fatal;
// only unexpected store errors abort.
func Seed(ctx context.Context, s books.Store, snap Snapshot) (SeedReport, error) {
	var report SeedReport
	skip := func(kind books.RecordKind, id string, err error) {
		report.Skipped = append(report.Skipped, fmt.Sprintf("%s %s: %v", kind, id, err))
	}
	recoverable := func(err error) bool {
		return errors.Is(err, books.ErrDuplicateID) || errors.Is(err, books.ErrNotFound) ||
			errors.Is(err, books.ErrOverpayment) || errors.Is(err, books.ErrValidation)
	}

	for _, raw := range snap.BankAccounts {
		b, err := books.NormalizeBankAccount(raw)
		if err == nil {
			err = s.CreateBankAccount(ctx, b)
		}
		if err != nil {
			if !recoverable(err) {
				return report, err
			}
			skip(books.KindBankAccount, raw.ID, err)
			continue
		}
		report.BankAccounts++
	}

	n := snap.Normalize()
	report.Rejected = n.Rejected

	covered := make(map[string]decimal.Decimal)
	for _, p := range n.Payments {
		if p.InvoiceID != "" {
			covered[p.InvoiceID] = covered[p.InvoiceID].Add(p.Amount)
		}
	}

	replay := make(map[string]bool, len(n.Invoices))
	for _, inv := range n.Invoices {
		base := inv.PaidAmount.Sub(covered[inv.ID])
		if base.IsNegative() {
			// keep the snapshot paid amount; its payments are not replayed
			replay[inv.ID] = false
		} else {
			inv.PaidAmount = base
			inv.Status = books.DeriveStatus(inv.Amount, inv.PaidAmount)
			replay[inv.ID] = true
		}
		if err := s.CreateInvoice(ctx, inv); err != nil {
			if !recoverable(err) {
				return report, err
			}
			replay[inv.ID] = false
			skip(books.KindInvoice, inv.ID, err)
			continue
		}
		report.Invoices++
	}

	for _, c := range n.Checks {
		if err := s.CreateCheck(ctx, c); err != nil {
			if !recoverable(err) {
				return report, err
			}
			skip(books.KindCheck, c.ID, err)
			continue
		}
		report.Checks++
	}

	for _, p := range n.Payments {
		if ok, seen := replay[p.InvoiceID]; seen && !ok {
			skip(books.KindPayment, p.ID, fmt.Errorf("invoice %s paid amount does not cover its payments", p.InvoiceID))
			continue
		}
		if err := s.RecordPayment(ctx, p); err != nil {
			if !recoverable(err) {
				return report, err
			}
			skip(books.KindPayment, p.ID, err)
			continue
		}
		report.Payments++
	}

	return report, nil
}
