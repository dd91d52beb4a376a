/*
errors.go - Error taxonomy of the engine

ERROR KINDS:
  ValidationError:  a raw record failed normalization. The normalizer skips
                    the record and reports it; it never aborts the batch.
  ComputationError: a consumer met an entity that breaks an invariant the
                    normalizer guarantees. The whole call fails; no partial
                    result is returned. Treat as an internal bug.
  FilterError:      an unknown filter key or malformed value. Advisory; the
                    dimension becomes a pass-through.

Each type unwraps to a sentinel so callers can branch with errors.Is:

  if errors.Is(err, books.ErrValidation) { ... 400 ... }
  var ce *books.ComputationError
  if errors.As(err, &ce) { log.Error().Str("record", ce.RecordID) ... }
*/
package books

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrComputation = errors.New("computation failed")
	ErrFilter      = errors.New("invalid filter")

	// ErrReferenceDateRequired is returned when a computation that depends on
	// "today" is called without a reference date.
	ErrReferenceDateRequired = errors.New("reference date required")

	// Store errors
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
	ErrOverpayment = errors.New("payment exceeds invoice remainder")
)

// RecordKind names the collection a record belongs to.
type RecordKind string

const (
	KindInvoice     RecordKind = "invoice"
	KindCheck       RecordKind = "check"
	KindPayment     RecordKind = "payment"
	KindBankAccount RecordKind = "bank_account"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError describes why a raw record was rejected.
type ValidationError struct {
	Kind     RecordKind
	RecordID string
	Field    string
	Value    string
	Reason   string
	Err      error // underlying parse error, if any
}

func (e *ValidationError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<no id>"
	}
	msg := fmt.Sprintf("%s %s: %s %s", e.Kind, id, e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	return msg
}

func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrValidation, e.Err}
	}
	return []error{ErrValidation}
}

// =============================================================================
// COMPUTATION ERROR
// =============================================================================

// ComputationError names the corrupt record that aborted a computation.
type ComputationError struct {
	Op       string // computeStats, buildMonthGrid, ...
	Kind     RecordKind
	RecordID string
	Reason   string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", e.Op, e.Kind, e.RecordID, e.Reason)
}

func (e *ComputationError) Unwrap() error { return ErrComputation }

// =============================================================================
// FILTER ERROR
// =============================================================================

type FilterError struct {
	Key    string
	Value  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s=%q: %s", e.Key, e.Value, e.Reason)
}

func (e *FilterError) Unwrap() error { return ErrFilter }
