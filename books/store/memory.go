// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/turyasin/collections/books"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	invoices map[string]books.RawInvoice
	checks   map[string]books.RawCheck
	payments map[string]books.RawPayment
	banks    map[string]books.BankAccount
}

var _ books.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		invoices: make(map[string]books.RawInvoice),
		checks:   make(map[string]books.RawCheck),
		payments: make(map[string]books.RawPayment),
		banks:    make(map[string]books.BankAccount),
	}
}

// values returns the map's values ordered by key, so listings are stable.
func values[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// =============================================================================
// INVOICES
// =============================================================================

func (m *Memory) ListInvoices(_ context.Context) ([]books.RawInvoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return values(m.invoices), nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (books.RawInvoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return books.RawInvoice{}, fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
	}
	return inv, nil
}

func (m *Memory) CreateInvoice(_ context.Context, inv books.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.invoices[inv.ID]; exists {
		return fmt.Errorf("invoice %s: %w", inv.ID, books.ErrDuplicateID)
	}
	m.invoices[inv.ID] = inv.Raw()
	return nil
}

// DeleteInvoice removes the invoice and the payments recorded against it.
func (m *Memory) DeleteInvoice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[id]; !ok {
		return fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
	}
	delete(m.invoices, id)
	for pid, p := range m.payments {
		if p.InvoiceID == id {
			delete(m.payments, pid)
		}
	}
	return nil
}

// =============================================================================
// CHECKS
// =============================================================================

func (m *Memory) ListChecks(_ context.Context) ([]books.RawCheck, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return values(m.checks), nil
}

func (m *Memory) CreateCheck(_ context.Context, c books.Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.checks[c.ID]; exists {
		return fmt.Errorf("check %s: %w", c.ID, books.ErrDuplicateID)
	}
	m.checks[c.ID] = c.Raw()
	return nil
}

func (m *Memory) UpdateCheckStatus(_ context.Context, id string, status books.CheckStatus) (books.Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.checks[id]
	if !ok {
		return books.Check{}, fmt.Errorf("check %s: %w", id, books.ErrNotFound)
	}
	c, err := books.NormalizeCheck(raw)
	if err != nil {
		return books.Check{}, err
	}
	if c, err = c.WithStatus(status); err != nil {
		return books.Check{}, err
	}
	m.checks[id] = c.Raw()
	return c, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (m *Memory) ListPayments(_ context.Context) ([]books.RawPayment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return values(m.payments), nil
}

func (m *Memory) RecordPayment(_ context.Context, p books.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[p.ID]; exists {
		return fmt.Errorf("payment %s: %w", p.ID, books.ErrDuplicateID)
	}
	if p.InvoiceID != "" {
		inv, err := m.invoiceLocked(p.InvoiceID)
		if err != nil {
			return err
		}
		if inv, err = books.ApplyPayment(inv, p); err != nil {
			return err
		}
		m.invoices[inv.ID] = inv.Raw()
	}
	m.payments[p.ID] = p.Raw()
	return nil
}

func (m *Memory) DeletePayment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, books.ErrNotFound)
	}
	p, err := books.NormalizePayment(raw)
	if err != nil {
		return err
	}
	if _, linked := m.invoices[p.InvoiceID]; linked {
		inv, err := m.invoiceLocked(p.InvoiceID)
		if err != nil {
			return err
		}
		if inv, err = books.ReversePayment(inv, p); err != nil {
			return err
		}
		m.invoices[inv.ID] = inv.Raw()
	}
	delete(m.payments, id)
	return nil
}

func (m *Memory) invoiceLocked(id string) (books.Invoice, error) {
	raw, ok := m.invoices[id]
	if !ok {
		return books.Invoice{}, fmt.Errorf("invoice %s: %w", id, books.ErrNotFound)
	}
	return books.NormalizeInvoice(raw)
}

// =============================================================================
// BANK ACCOUNTS
// =============================================================================

func (m *Memory) ListBankAccounts(_ context.Context) ([]books.BankAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return values(m.banks), nil
}

func (m *Memory) CreateBankAccount(_ context.Context, b books.BankAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.banks[b.ID]; exists {
		return fmt.Errorf("bank account %s: %w", b.ID, books.ErrDuplicateID)
	}
	m.banks[b.ID] = b
	return nil
}

// Reset drops every record.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoices = make(map[string]books.RawInvoice)
	m.checks = make(map[string]books.RawCheck)
	m.payments = make(map[string]books.RawPayment)
	m.banks = make(map[string]books.BankAccount)
	return nil
}
