package books

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// FILTER ENGINE
// =============================================================================

// FilterAll is the explicit pass-through value for any dimension.
const FilterAll = "all"

// Dimension is a filterable attribute of a record.
type Dimension string

const (
	DimMonth       Dimension = "month"
	DimQuarter     Dimension = "quarter"
	DimBankAccount Dimension = "bank_account_id"
	DimStatus      Dimension = "status"
	DimCurrency    Dimension = "currency"
)

// Filter is an explicit set of predicates passed into each computation.
// Empty or "all" leaves a dimension unconstrained. Dimensions combine with AND.
type Filter struct {
	Month         string `json:"month,omitempty"`   // "2024-03"
	Quarter       string `json:"quarter,omitempty"` // "2024-Q1"
	BankAccountID string `json:"bank_account_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Search        string `json:"search,omitempty"` // case-insensitive substring
}

// Filterable is implemented by every entity the filter engine accepts.
// Dimension returns false when the record has no value for d, in which
// case the record fails any non-pass-through filter on d.
type Filterable interface {
	Dimension(d Dimension) (string, bool)
	SearchText() []string
}

// ApplyFilters returns the items that satisfy every active dimension of f,
// in input order. The input slice is not modified.
func ApplyFilters[T Filterable](items []T, f Filter) []T {
	if f.IsPassThrough() {
		return append([]T(nil), items...)
	}
	var out []T
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// Matches reports whether item passes every active dimension of f.
func (f Filter) Matches(item Filterable) bool {
	for _, c := range f.constraints() {
		got, ok := item.Dimension(c.dim)
		if !ok || !strings.EqualFold(got, c.want) {
			return false
		}
	}
	if active(f.Search) {
		return matchesSearch(item.SearchText(), f.Search)
	}
	return true
}

// IsPassThrough reports whether f constrains nothing.
func (f Filter) IsPassThrough() bool {
	return len(f.constraints()) == 0 && !active(f.Search)
}

// Merge combines two filters. Dimensions set in only one filter are taken as
// is; a dimension set to different values in both is a conflict.
func (f Filter) Merge(other Filter) (Filter, error) {
	var err error
	pick := func(key, a, b string) string {
		switch {
		case !active(a):
			return b
		case !active(b), strings.EqualFold(a, b):
			return a
		default:
			if err == nil {
				err = &FilterError{Key: key, Value: b, Reason: fmt.Sprintf("conflicts with %q", a)}
			}
			return a
		}
	}
	merged := Filter{
		Month:         pick(string(DimMonth), f.Month, other.Month),
		Quarter:       pick(string(DimQuarter), f.Quarter, other.Quarter),
		BankAccountID: pick(string(DimBankAccount), f.BankAccountID, other.BankAccountID),
		Status:        pick(string(DimStatus), f.Status, other.Status),
		Currency:      pick(string(DimCurrency), f.Currency, other.Currency),
		Search:        pick("search", f.Search, other.Search),
	}
	return merged, err
}

type constraint struct {
	dim  Dimension
	want string
}

func (f Filter) constraints() []constraint {
	var cs []constraint
	add := func(d Dimension, v string) {
		if active(v) {
			cs = append(cs, constraint{dim: d, want: strings.TrimSpace(v)})
		}
	}
	add(DimMonth, f.Month)
	add(DimQuarter, f.Quarter)
	add(DimBankAccount, f.BankAccountID)
	add(DimStatus, f.Status)
	add(DimCurrency, f.Currency)
	return cs
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

func matchesSearch(fields []string, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// =============================================================================
// ENTITY DIMENSIONS
// =============================================================================

// Invoices have no bank account.
func (i Invoice) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimMonth:
		return i.Month, i.Month != ""
	case DimQuarter:
		return i.Quarter, i.Quarter != ""
	case DimStatus:
		return string(i.Status), true
	case DimCurrency:
		return string(i.Currency), true
	}
	return "", false
}

func (i Invoice) SearchText() []string {
	return []string{i.InvoiceNumber, i.CustomerName, i.CustomerID, i.Notes}
}

func (c Check) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimMonth:
		return c.Month, c.Month != ""
	case DimQuarter:
		return c.Quarter, c.Quarter != ""
	case DimBankAccount:
		return c.BankAccountID, c.BankAccountID != ""
	case DimStatus:
		return string(c.Status), true
	case DimCurrency:
		return string(c.Currency), true
	}
	return "", false
}

func (c Check) SearchText() []string {
	return []string{c.CheckNumber, c.PayerPayee, c.BankName}
}

// Payments have no status.
func (p Payment) Dimension(d Dimension) (string, bool) {
	switch d {
	case DimMonth:
		return p.Month, p.Month != ""
	case DimQuarter:
		return p.Quarter, p.Quarter != ""
	case DimBankAccount:
		return p.BankAccountID, p.BankAccountID != ""
	case DimCurrency:
		return string(p.Currency), true
	}
	return "", false
}

func (p Payment) SearchText() []string {
	return []string{p.InvoiceID, p.CheckNumber, p.Method}
}

// =============================================================================
// PARSING
// =============================================================================

var (
	monthLabelPattern    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	quarterLabelPattern  = regexp.MustCompile(`^\d{4}-Q[1-4]$`)
	currencyLabelPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

func validMonthLabel(s string) bool   { return monthLabelPattern.MatchString(s) }
func validQuarterLabel(s string) bool { return quarterLabelPattern.MatchString(s) }

var knownStatuses = map[string]bool{
	string(InvoiceUnpaid): true, string(InvoicePartial): true, string(InvoicePaid): true,
	string(CheckPending): true, string(CheckCollected): true, string(CheckBounced): true,
}

// ParseFilter builds a filter from query-style parameters. Unknown keys and
// malformed values are reported as FilterErrors and leave their dimension
// unconstrained; ParseFilter itself never fails.
func ParseFilter(params map[string]string) (Filter, []*FilterError) {
	var (
		f    Filter
		errs []*FilterError
	)
	bad := func(key, value, reason string) {
		errs = append(errs, &FilterError{Key: key, Value: value, Reason: reason})
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(params[key])
		if !active(value) {
			if !isFilterKey(key) {
				bad(key, value, "unknown filter")
			}
			continue
		}
		switch key {
		case "month":
			if !validMonthLabel(value) {
				bad(key, value, "expected YYYY-MM")
				continue
			}
			f.Month = value
		case "quarter":
			value = strings.ToUpper(value)
			if !validQuarterLabel(value) {
				bad(key, value, "expected YYYY-Qn")
				continue
			}
			f.Quarter = value
		case "bank_account_id", "bank":
			f.BankAccountID = value
		case "status":
			value = strings.ToLower(value)
			if !knownStatuses[value] {
				bad(key, value, "unknown status")
				continue
			}
			f.Status = value
		case "currency":
			if !currencyLabelPattern.MatchString(value) {
				bad(key, value, "expected a three-letter code")
				continue
			}
			f.Currency = strings.ToUpper(value)
		case "search":
			f.Search = value
		default:
			bad(key, value, "unknown filter")
		}
	}
	return f, errs
}

func isFilterKey(key string) bool {
	switch key {
	case "month", "quarter", "bank_account_id", "bank", "status", "currency", "search":
		return true
	}
	return false
}
