/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All engine error types in one place. Calculations return typed errors;
  nothing in this package panics or swallows a failure.

ERROR CATEGORIES:
  1. Input errors   - Negative hours, rates, or adjustments
  2. Balance errors - Leave usage exceeding the current balance
  3. Store errors   - Collaborator-level failures (duplicate snapshot,
                      missing employee, clock state conflicts)

USAGE:
  Callers match with errors.Is and unwrap the structured variants for the
  offending field and employee:

    var inv *payroll.InvalidInputError
    if errors.As(err, &inv) {
        log.Printf("bad %s for %s", inv.Field, inv.EmployeeID)
    }
*/
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when an hour, rate, or adjustment input
	// is negative.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientBalance is returned when leave usage exceeds the
	// current balance. The whole computation is rejected; no partial
	// result is produced.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrAmbiguousPeriod is reserved for defensive checks around period
	// resolution. The resolver is total, so it should never surface.
	ErrAmbiguousPeriod = errors.New("date does not map cleanly to a pay period")

	// ErrPayrollExists is returned when finalizing a period that already
	// has a snapshot. This is the exactly-once guard: re-finalizing would
	// double-decrement leave balances.
	ErrPayrollExists = errors.New("payroll already finalized for period")

	// ErrPayrollNotFound is returned when no snapshot exists for a period.
	ErrPayrollNotFound = errors.New("payroll not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAlreadyClockedIn is returned when clocking in with an open punch
	// outstanding.
	ErrAlreadyClockedIn = errors.New("employee already clocked in")

	// ErrNotClockedIn is returned when clocking out without an open punch.
	ErrNotClockedIn = errors.New("employee is not clocked in")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending field/employee
// =============================================================================

// InvalidInputError identifies which field of which employee's input was
// invalid, so the caller can surface the specific problem rather than a
// generic failure.
type InvalidInputError struct {
	EmployeeID EmployeeID
	Field      string
	Value      decimal.Decimal
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s = %s (must be >= 0)",
		e.EmployeeID, e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// InsufficientBalanceError reports a leave bucket whose requested usage
// exceeds the available balance.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	Bucket     string // "vacation", "holiday", "sick"
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance for %s: available %s, requested %s",
		e.Bucket, e.EmployeeID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrPayrollExists) ||
		errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPayrollNotFound)
}
