/*
calc.go - Per-employee gross pay and leave balance computation

PURPOSE:
  Computes one employee's PayrollResult for one pay period from the
  operator-entered inputs and the employee's rates and balances.

ALGORITHM:
  grossCheck = checkHours*rateCheck + (vd + hd + sd)*rateCheck
  grossOther = otherHours*rateOthers + otherAdjustment
  newBalance = priorBalance - hoursUsed   (per leave bucket)

  Leave hours are paid at the check rate: PTO is regular-rate
  compensation.

VALIDATION POLICY:
  Every hour, rate, and adjustment input must be non-negative, and leave
  usage may not exceed the current balance. Violations reject the whole
  computation with a typed error and no partial result; usage is never
  clamped to the available balance.

PURITY:
  Compute never mutates the Employee. New balances come back inside the
  PayrollResult; durable, exactly-once application is the store's job.

SEE ALSO:
  - errors.go:   InvalidInputError, InsufficientBalanceError
  - earnings.go: Aggregates results across periods
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT / RESULT
// =============================================================================

// EmployeePayrollInput is the operator-entered allocation for one employee
// in one pay period. CheckHours + OtherHours need not equal
// TotalHoursWorked: the total is informational (drawn from punch
// aggregation) while check/other hours split that time across pay rates.
type EmployeePayrollInput struct {
	EmployeeID EmployeeID
	Name       string

	TotalHoursWorked decimal.Decimal
	CheckHours       decimal.Decimal
	OtherHours       decimal.Decimal

	VacationHoursUsed decimal.Decimal
	HolidayHoursUsed  decimal.Decimal
	SickHoursUsed     decimal.Decimal

	OtherAdjustment decimal.Decimal
	Comment         string
}

// PayrollResult is the computed outcome for one employee in one period:
// gross amounts plus the leave balances after this period's usage.
type PayrollResult struct {
	EmployeeID EmployeeID
	Name       string

	PayRateCheck    decimal.Decimal
	PayRateOthers   decimal.Decimal
	OtherAdjustment decimal.Decimal

	GrossCheckAmount decimal.Decimal
	GrossOtherAmount decimal.Decimal

	NewVacationBalance decimal.Decimal
	NewHolidayBalance  decimal.Decimal
	NewSickDayBalance  decimal.Decimal
}

// TotalGross returns check + other gross for the period.
func (r PayrollResult) TotalGross() decimal.Decimal {
	return r.GrossCheckAmount.Add(r.GrossOtherAmount)
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Compute produces the PayrollResult for one employee and one period.
// Pure: a function of its two arguments with no hidden state.
func Compute(input EmployeePayrollInput, emp Employee) (PayrollResult, error) {
	if err := validateInput(input, emp); err != nil {
		return PayrollResult{}, err
	}
	if err := validateBalances(input, emp); err != nil {
		return PayrollResult{}, err
	}

	leaveHours := input.VacationHoursUsed.
		Add(input.HolidayHoursUsed).
		Add(input.SickHoursUsed)

	grossCheck := input.CheckHours.Add(leaveHours).Mul(emp.PayRateCheck).Round(2)
	grossOther := input.OtherHours.Mul(emp.PayRateOthers).Add(input.OtherAdjustment).Round(2)

	return PayrollResult{
		EmployeeID:         input.EmployeeID,
		Name:               input.Name,
		PayRateCheck:       emp.PayRateCheck,
		PayRateOthers:      emp.PayRateOthers,
		OtherAdjustment:    input.OtherAdjustment,
		GrossCheckAmount:   grossCheck,
		GrossOtherAmount:   grossOther,
		NewVacationBalance: emp.VacationBalance.Sub(input.VacationHoursUsed),
		NewHolidayBalance:  emp.HolidayBalance.Sub(input.HolidayHoursUsed),
		NewSickDayBalance:  emp.SickDayBalance.Sub(input.SickHoursUsed),
	}, nil
}

func validateInput(input EmployeePayrollInput, emp Employee) error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"totalHoursWorked", input.TotalHoursWorked},
		{"checkHours", input.CheckHours},
		{"otherHours", input.OtherHours},
		{"vacationHoursUsed", input.VacationHoursUsed},
		{"holidayHoursUsed", input.HolidayHoursUsed},
		{"sickHoursUsed", input.SickHoursUsed},
		{"otherAdjustment", input.OtherAdjustment},
		{"payRateCheck", emp.PayRateCheck},
		{"payRateOthers", emp.PayRateOthers},
	}

	for _, f := range fields {
		if f.value.IsNegative() {
			return &InvalidInputError{
				EmployeeID: input.EmployeeID,
				Field:      f.name,
				Value:      f.value,
			}
		}
	}
	return nil
}

func validateBalances(input EmployeePayrollInput, emp Employee) error {
	buckets := []struct {
		name      string
		available decimal.Decimal
		requested decimal.Decimal
	}{
		{"vacation", emp.VacationBalance, input.VacationHoursUsed},
		{"holiday", emp.HolidayBalance, input.HolidayHoursUsed},
		{"sick", emp.SickDayBalance, input.SickHoursUsed},
	}

	for _, b := range buckets {
		if b.requested.GreaterThan(b.available) {
			return &InsufficientBalanceError{
				EmployeeID: input.EmployeeID,
				Bucket:     b.name,
				Available:  b.available,
				Requested:  b.requested,
			}
		}
	}
	return nil
}
