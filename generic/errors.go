/*
errors.go - Sentinel errors for the calendar and money primitives

USAGE:
  Domain packages wrap these with record context:

    if errors.Is(err, generic.ErrInvalidDate) {
        return &books.ValidationError{Field: "due_date", ...}
    }

SEE ALSO:
  - books/errors.go: Validation, computation and filter errors
*/
package generic

import "errors"

var (
	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidAmount is returned when a money string cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// IsParseError returns true for malformed date or amount input.
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrInvalidAmount)
}
