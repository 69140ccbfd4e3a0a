/*
Package payroll implements the pay period and compensation calculation engine.

PURPOSE:
  This package contains the pure calculation core of the payroll system:
  pay period resolution, punch rounding and aggregation, per-period gross
  pay and leave balance computation, and historical earnings rollups.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeID: Type-safe employee identifier
  - Employee:   Rates and leave balances as seen by the calculator
  - Payroll:    Immutable per-period snapshot (inputs + results)

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a function of its arguments. The engine
     never reads or writes a store; persistence is a collaborator.
  2. Precision: All money and hour quantities use decimal.Decimal so that
     repeated aggregation never drifts the way floats do.
  3. Snapshots: A finalized Payroll is immutable. Editing a past period
     means recomputing from scratch and overwriting the snapshot, never
     delta-adjusting balances.

SEE ALSO:
  - period.go:   Bi-weekly pay period resolution
  - calc.go:     Gross pay and balance computation
  - earnings.go: YTD and quarterly rollups
  - store.go:    Persistence collaborator interfaces
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// EMPLOYEE - Rates and balances supplied by the external store
// =============================================================================

// Employee carries the pay rates and leave balances the calculator needs.
// The durable employee record is owned by the store; the engine only ever
// reads these fields and returns new balances inside a PayrollResult.
type Employee struct {
	ID   EmployeeID
	Name string

	// Hourly rates for the two payable buckets.
	PayRateCheck  decimal.Decimal
	PayRateOthers decimal.Decimal

	// Leave balances in hours. Non-negative by contract: the calculator
	// rejects usage that would take a balance below zero.
	VacationBalance decimal.Decimal
	HolidayBalance  decimal.Decimal
	SickDayBalance  decimal.Decimal

	// Declared weekly schedule, used by auto-enrollment to pre-populate
	// time entries for a future period. Empty means not auto-enrolled.
	Schedule WeeklySchedule
}

// =============================================================================
// PAYROLL SNAPSHOT - One immutable record per pay period
// =============================================================================

// Payroll is the per-period snapshot persisted by the external store:
// the operator-entered inputs alongside the computed results. One snapshot
// exists per period start date, which doubles as the idempotency key that
// prevents balances from being applied twice.
type Payroll struct {
	FromDate Date
	ToDate   Date
	PayDate  Date

	Inputs  []EmployeePayrollInput
	Results []PayrollResult
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// EstimateNet applies a flat withholding rate to a gross amount. This is
// a display placeholder; real tax computation lives outside this engine
// and the rate is always supplied by the caller.
func EstimateNet(gross, flatRate decimal.Decimal) decimal.Decimal {
	return gross.Mul(decimal.NewFromInt(1).Sub(flatRate)).Round(2)
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}
