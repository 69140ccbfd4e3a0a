/*
store.go - Persistence collaborator interfaces

PURPOSE:
  The engine itself performs no I/O. These interfaces describe the
  external store the engine's callers use to supply punches and employee
  records and to persist finalized Payroll snapshots.

EXACTLY-ONCE CONTRACT:
  FinalizePayroll must apply a period's balance updates and write its
  snapshot atomically, and must reject a second finalize of the same
  period (ErrPayrollExists). One snapshot per period start date is the
  idempotency key: the engine never double-applies a debit, so the store
  must not either.

IMPLEMENTATIONS:
  - store/sqlite:      Production SQLite store
  - payroll/store:     In-memory store for tests and demos
*/
package payroll

import (
	"context"
	"time"
)

// EmployeeStore supplies and persists employee rate/balance records.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, emp Employee) error
}

// PunchStore owns the raw time-entry log.
type PunchStore interface {
	// ClockIn opens a punch. Fails with ErrAlreadyClockedIn if one is open.
	ClockIn(ctx context.Context, id EmployeeID, at time.Time) error

	// ClockOut closes the open punch. Fails with ErrNotClockedIn if none is.
	ClockOut(ctx context.Context, id EmployeeID, at time.Time) error

	// AddPunch records a complete punch directly (auto-enrollment,
	// manual corrections).
	AddPunch(ctx context.Context, punch RawPunch) error

	// PunchesInRange returns punches whose clock-in day falls within
	// [from, to] inclusive, ordered by clock-in time.
	PunchesInRange(ctx context.Context, id EmployeeID, from, to Date) ([]RawPunch, error)
}

// PayrollStore owns the immutable per-period snapshots.
type PayrollStore interface {
	// FinalizePayroll atomically writes the snapshot and applies each
	// result's new leave balances to the employee records. Rejects a
	// duplicate period with ErrPayrollExists.
	FinalizePayroll(ctx context.Context, p Payroll) error

	// GetPayroll returns the snapshot for the period starting at fromDate,
	// or ErrPayrollNotFound.
	GetPayroll(ctx context.Context, fromDate Date) (*Payroll, error)

	// ListPayrolls returns snapshots whose period end falls within
	// [from, to] inclusive, ordered by period start.
	ListPayrolls(ctx context.Context, from, to Date) ([]Payroll, error)
}

// Store is the full persistence surface the HTTP layer is wired to.
type Store interface {
	EmployeeStore
	PunchStore
	PayrollStore
}
