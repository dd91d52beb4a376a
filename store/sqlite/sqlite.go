/*
Package sqlite provides a SQLite-backed implementation of books.Store.

PURPOSE:
  Persists raw invoice, check, payment and bank account records. Amounts are
  stored as decimal TEXT, never REAL, so nothing drifts on the way through
  the database. Derived fields (status, month, quarter) are stored for
  convenience but the engine re-derives them on every load.

KEY TABLES:
  invoices:      Invoices with amount and paid amount
  checks:        Received and issued checks
  payments:      Payments, optionally linked to an invoice
  bank_accounts: Company bank accounts (filter dimension)

MIGRATIONS:
  Versioned SQL files under migrations/, embedded in the binary and applied
  by goose on New(). Each migration result is logged.

TRANSACTIONS:
  RecordPayment and DeletePayment update the payment row and the invoice's
  paid amount in one database transaction, so an invoice never
  disagrees with its payments after a crash.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.
  In-memory databases are pinned to one connection; every new connection
  to ":memory:" would otherwise open an empty database.

USAGE:
  store, err := sqlite.New("./data/collections.db", sqlite.WithLogger(log))
  if err != nil {
      log.Fatal().Err(err).Msg("open store")
  }
  defer store.Close()

  records, err := books.Load(ctx, store)

SEE ALSO:
  - books/store.go: Interface definition
  - books/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/turyasin/collections/books"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store implements books.Store using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log zerolog.Logger
}

var _ books.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migration output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a new SQLite store with the given database path and applies
// pending migrations. Use ":memory:" for an in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// migrate applies the embedded goose migrations.
func (s *Store) migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: s.log})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, "migrations")
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf is only called by goose's CLI helpers; migrate reports errors by return.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx executes fn within a database transaction. If fn returns an error
// the transaction is rolled back.
func (s *Store) withTx(ctx context.Context, fn func(q queryer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// Reset clears all records. Used by seeding and tests.
func (s *Store) Reset(ctx context.Context) error {
	return s.withTx(ctx, func(q queryer) error {
		for _, table := range []string{"payments", "checks", "invoices", "bank_accounts"} {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// =============================================================================
// INVOICES
// =============================================================================

const invoiceColumns = `id, customer_id, customer_name, invoice_number, amount, paid_amount,
	currency, due_date, status, month, quarter, notes`

func (s *Store) ListInvoices(ctx context.Context) ([]books.RawInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var out []books.RawInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) GetInvoice(ctx context.Context, id string) (books.RawInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getInvoice(ctx, s.db, id)
}

func getInvoice(ctx context.Context, q queryer, id string) (books.RawInvoice, error) {
	row := q.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return books.RawInvoice{}, fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
	}
	return inv, err
}

func (s *Store) CreateInvoice(ctx context.Context, inv books.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := inv.Raw()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		raw.ID, raw.CustomerID, raw.CustomerName, raw.InvoiceNumber,
		string(raw.Amount), string(raw.PaidAmount), raw.Currency, raw.DueDate,
		raw.Status, raw.Month, raw.Quarter, raw.Notes, now(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("invoice %s: %w", inv.ID, books.ErrDuplicateID)
	}
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// DeleteInvoice removes the invoice and the payments recorded against it.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	return s.withTx(ctx, func(q queryer) error {
		res, err := q.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM payments WHERE invoice_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete invoice payments: %w", err)
		}
		return nil
	})
}

func updateInvoicePaid(ctx context.Context, q queryer, inv books.Invoice) error {
	raw := inv.Raw()
	_, err := q.ExecContext(ctx, `UPDATE invoices SET paid_amount = ?, status = ? WHERE id = ?`,
		string(raw.PaidAmount), raw.Status, raw.ID)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", inv.ID, err)
	}
	return nil
}

// =============================================================================
// CHECKS
// =============================================================================

const checkColumns = `id, check_number, amount, currency, due_date, check_type, status,
	bank_name, bank_account_id, payer_payee, month, quarter`

func (s *Store) ListChecks(ctx context.Context) ([]books.RawCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+checkColumns+` FROM checks ORDER BY due_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var out []books.RawCheck
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCheck(ctx context.Context, c books.Check) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := c.Raw()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO checks (`+checkColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		raw.ID, raw.CheckNumber, string(raw.Amount), raw.Currency, raw.DueDate, raw.Type, raw.Status,
		raw.BankName, nullString(raw.BankAccountID), raw.PayerPayee, raw.Month, raw.Quarter, now(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("check %s: %w", c.ID, books.ErrDuplicateID)
	}
	if err != nil {
		return fmt.Errorf("failed to create check: %w", err)
	}
	return nil
}

func (s *Store) UpdateCheckStatus(ctx context.Context, id string, status books.CheckStatus) (books.Check, error) {
	var updated books.Check
	err := s.withTx(ctx, func(q queryer) error {
		row := q.QueryRowContext(ctx, `SELECT `+checkColumns+` FROM checks WHERE id = ?`, id)
		raw, err := scanCheck(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check %s: %w", id, books.ErrNotFound)
		}
		if err != nil {
			return err
		}
		c, err := books.NormalizeCheck(raw)
		if err != nil {
			return err
		}
		if updated, err = c.WithStatus(status); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `UPDATE checks SET status = ? WHERE id = ?`, string(updated.Status), id); err != nil {
			return fmt.Errorf("failed to update check: %w", err)
		}
		return nil
	})
	return updated, err
}

// =============================================================================
// PAYMENTS
// =============================================================================

const paymentColumns = `id, invoice_id, amount, currency, payment_date, bank_account_id,
	check_number, payment_method, period_type, month, quarter`

func (s *Store) ListPayments(ctx context.Context) ([]books.RawPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY payment_date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []books.RawPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordPayment inserts p and applies it to its invoice atomically.
func (s *Store) RecordPayment(ctx context.Context, p books.Payment) error {
	return s.withTx(ctx, func(q queryer) error {
		if p.InvoiceID != "" {
			raw, err := getInvoice(ctx, q, p.InvoiceID)
			if err != nil {
				return err
			}
			inv, err := books.NormalizeInvoice(raw)
			if err != nil {
				return err
			}
			if inv, err = books.ApplyPayment(inv, p); err != nil {
				return err
			}
			if err := updateInvoicePaid(ctx, q, inv); err != nil {
				return err
			}
		}

		raw := p.Raw()
		_, err := q.ExecContext(ctx, `
			INSERT INTO payments (`+paymentColumns+`, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			raw.ID, nullString(raw.InvoiceID), string(raw.Amount), raw.Currency, raw.PaymentDate,
			nullString(raw.BankAccountID), raw.CheckNumber, raw.Method, raw.PeriodType, raw.Month, raw.Quarter, now(),
		)
		if isUniqueConstraintError(err) {
			return fmt.Errorf("payment %s: %w", p.ID, books.ErrDuplicateID)
		}
		if err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		return nil
	})
}

// DeletePayment removes the payment and reverses it on its invoice.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.withTx(ctx, func(q queryer) error {
		row := q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id)
		raw, err := scanPayment(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("payment %s: %w", id, books.ErrNotFound)
		}
		if err != nil {
			return err
		}
		p, err := books.NormalizePayment(raw)
		if err != nil {
			return err
		}

		if p.InvoiceID != "" {
			rawInv, err := getInvoice(ctx, q, p.InvoiceID)
			switch {
			case errors.Is(err, books.ErrNotFound):
				// Invoice already gone; nothing to reverse.
			case err != nil:
				return err
			default:
				inv, err := books.NormalizeInvoice(rawInv)
				if err != nil {
					return err
				}
				if inv, err = books.ReversePayment(inv, p); err != nil {
					return err
				}
				if err := updateInvoicePaid(ctx, q, inv); err != nil {
					return err
				}
			}
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		return nil
	})
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

func (s *Store) ListBankAccounts(ctx context.Context) ([]books.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, bank_name, iban, account_holder, currency FROM bank_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var out []books.BankAccount
	for rows.Next() {
		var b books.BankAccount
		if err := rows.Scan(&b.ID, &b.BankName, &b.IBAN, &b.AccountHolder, &b.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBankAccount(ctx context.Context, b books.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bank_accounts (id, bank_name, iban, account_holder, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.BankName, b.IBAN, b.AccountHolder, b.Currency, now(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("bank account %s: %w", b.ID, books.ErrDuplicateID)
	}
	if err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}
	return nil
}

// =============================================================================
// SCANNING
// =============================================================================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (books.RawInvoice, error) {
	var (
		inv          books.RawInvoice
		amount, paid string
	)
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceNumber, &amount, &paid,
		&inv.Currency, &inv.DueDate, &inv.Status, &inv.Month, &inv.Quarter, &inv.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inv, err
		}
		return inv, fmt.Errorf("failed to scan invoice: %w", err)
	}
	inv.Amount, inv.PaidAmount = books.Numeric(amount), books.Numeric(paid)
	return inv, nil
}

func scanCheck(row scanner) (books.RawCheck, error) {
	var (
		c      books.RawCheck
		amount string
		bank   sql.NullString
	)
	err := row.Scan(&c.ID, &c.CheckNumber, &amount, &c.Currency, &c.DueDate, &c.Type, &c.Status,
		&c.BankName, &bank, &c.PayerPayee, &c.Month, &c.Quarter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("failed to scan check: %w", err)
	}
	c.Amount, c.BankAccountID = books.Numeric(amount), bank.String
	return c, nil
}

func scanPayment(row scanner) (books.RawPayment, error) {
	var (
		p               books.RawPayment
		amount          string
		invoiceID, bank sql.NullString
	)
	err := row.Scan(&p.ID, &invoiceID, &amount, &p.Currency, &p.PaymentDate, &bank,
		&p.CheckNumber, &p.Method, &p.PeriodType, &p.Month, &p.Quarter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("failed to scan payment: %w", err)
	}
	p.Amount, p.InvoiceID, p.BankAccountID = books.Numeric(amount), invoiceID.String, bank.String
	return p, nil
}

// Helper functions

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
