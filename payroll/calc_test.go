package payroll_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testEmployee() payroll.Employee {
	return payroll.Employee{
		ID:              "emp-1",
		Name:            "Dana",
		PayRateCheck:    dec("25.00"),
		PayRateOthers:   dec("15.00"),
		VacationBalance: dec("40"),
		HolidayBalance:  dec("16"),
		SickDayBalance:  dec("24"),
	}
}

func TestCompute_StandardPeriod(t *testing.T) {
	// 80 check hours at $25 plus 8 vacation hours at the check rate,
	// 4 other hours at $15 plus a $10 adjustment.

	input := payroll.EmployeePayrollInput{
		EmployeeID:        "emp-1",
		Name:              "Dana",
		TotalHoursWorked:  dec("84"),
		CheckHours:        dec("80"),
		OtherHours:        dec("4"),
		VacationHoursUsed: dec("8"),
		OtherAdjustment:   dec("10"),
	}

	result, err := payroll.Compute(input, testEmployee())
	require.NoError(t, err)

	assert.True(t, result.GrossCheckAmount.Equal(dec("2200.00")),
		"gross check = %s", result.GrossCheckAmount)
	assert.True(t, result.GrossOtherAmount.Equal(dec("70.00")),
		"gross other = %s", result.GrossOtherAmount)
	assert.True(t, result.TotalGross().Equal(dec("2270.00")),
		"total gross = %s", result.TotalGross())
	assert.True(t, result.NewVacationBalance.Equal(dec("32")),
		"new vacation balance = %s", result.NewVacationBalance)
	assert.True(t, result.NewHolidayBalance.Equal(dec("16")))
	assert.True(t, result.NewSickDayBalance.Equal(dec("24")))
}

func TestCompute_LeavePaidAtCheckRate(t *testing.T) {
	// All three leave buckets pay at the check rate, not the other rate.

	input := payroll.EmployeePayrollInput{
		EmployeeID:        "emp-1",
		VacationHoursUsed: dec("8"),
		HolidayHoursUsed:  dec("8"),
		SickHoursUsed:     dec("8"),
	}

	result, err := payroll.Compute(input, testEmployee())
	require.NoError(t, err)

	assert.True(t, result.GrossCheckAmount.Equal(dec("600.00")),
		"24 leave hours at $25 = %s", result.GrossCheckAmount)
	assert.True(t, result.GrossOtherAmount.IsZero())
}

func TestCompute_InsufficientBalance(t *testing.T) {
	// Usage above the balance rejects the whole computation; no partial
	// result, no clamping.

	input := payroll.EmployeePayrollInput{
		EmployeeID:        "emp-1",
		CheckHours:        dec("80"),
		VacationHoursUsed: dec("50"),
	}

	result, err := payroll.Compute(input, testEmployee())
	require.Error(t, err)
	assert.True(t, errors.Is(err, payroll.ErrInsufficientBalance))
	assert.Zero(t, result)

	var detail *payroll.InsufficientBalanceError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, "vacation", detail.Bucket)
	assert.True(t, detail.Available.Equal(dec("40")))
	assert.True(t, detail.Requested.Equal(dec("50")))
}

func TestCompute_NegativeInputsRejected(t *testing.T) {
	cases := []struct {
		name  string
		input payroll.EmployeePayrollInput
	}{
		{"check hours", payroll.EmployeePayrollInput{EmployeeID: "emp-1", CheckHours: dec("-1")}},
		{"other hours", payroll.EmployeePayrollInput{EmployeeID: "emp-1", OtherHours: dec("-0.5")}},
		{"vacation usage", payroll.EmployeePayrollInput{EmployeeID: "emp-1", VacationHoursUsed: dec("-8")}},
		{"adjustment", payroll.EmployeePayrollInput{EmployeeID: "emp-1", OtherAdjustment: dec("-10")}},
		{"total hours", payroll.EmployeePayrollInput{EmployeeID: "emp-1", TotalHoursWorked: dec("-80")}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := payroll.Compute(c.input, testEmployee())
			require.Error(t, err)
			assert.True(t, errors.Is(err, payroll.ErrInvalidInput))

			var detail *payroll.InvalidInputError
			require.ErrorAs(t, err, &detail)
			assert.Equal(t, payroll.EmployeeID("emp-1"), detail.EmployeeID)
			assert.NotEmpty(t, detail.Field)
		})
	}
}

func TestCompute_NegativeRateRejected(t *testing.T) {
	emp := testEmployee()
	emp.PayRateCheck = dec("-25")

	_, err := payroll.Compute(payroll.EmployeePayrollInput{EmployeeID: "emp-1"}, emp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, payroll.ErrInvalidInput))
}

func TestCompute_DoesNotMutateEmployee(t *testing.T) {
	emp := testEmployee()
	input := payroll.EmployeePayrollInput{
		EmployeeID:        "emp-1",
		VacationHoursUsed: dec("8"),
	}

	_, err := payroll.Compute(input, emp)
	require.NoError(t, err)

	assert.True(t, emp.VacationBalance.Equal(dec("40")),
		"Compute must return new balances, not mutate the record")
}

func TestCompute_ExactUsageDrainsBalance(t *testing.T) {
	input := payroll.EmployeePayrollInput{
		EmployeeID:        "emp-1",
		VacationHoursUsed: dec("40"),
	}

	result, err := payroll.Compute(input, testEmployee())
	require.NoError(t, err)
	assert.True(t, result.NewVacationBalance.IsZero())
}

func TestEstimateNet_FlatRate(t *testing.T) {
	net := payroll.EstimateNet(dec("2000.00"), dec("0.15"))
	assert.True(t, net.Equal(dec("1700.00")), "net = %s", net)
}
