package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "payroll.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedEmployee(t *testing.T, s *Store) payroll.Employee {
	t.Helper()
	emp := payroll.Employee{
		ID:              "emp-1",
		Name:            "Dana",
		PayRateCheck:    dec("25.00"),
		PayRateOthers:   dec("15.00"),
		VacationBalance: dec("40"),
		HolidayBalance:  dec("16"),
		SickDayBalance:  dec("24"),
		Schedule: payroll.WeeklySchedule{
			time.Monday: payroll.DaySchedule{Start: "09:00", End: "17:00"},
		},
	}
	require.NoError(t, s.SaveEmployee(context.Background(), emp))
	return emp
}

func TestEmployeeRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emp := seedEmployee(t, s)

	got, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.Name, got.Name)
	assert.True(t, got.PayRateCheck.Equal(emp.PayRateCheck))
	assert.True(t, got.VacationBalance.Equal(emp.VacationBalance))
	require.Contains(t, got.Schedule, time.Monday)
	assert.Equal(t, "09:00", got.Schedule[time.Monday].Start)

	// Upsert overwrites in place.
	emp.Name = "Dana Q"
	require.NoError(t, s.SaveEmployee(ctx, emp))
	got, err = s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana Q", got.Name)

	_, err = s.GetEmployee(ctx, "nobody")
	assert.True(t, errors.Is(err, payroll.ErrEmployeeNotFound))
}

func TestClockCycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emp := seedEmployee(t, s)

	in := time.Date(2025, time.March, 10, 9, 2, 0, 0, time.UTC)
	require.NoError(t, s.ClockIn(ctx, emp.ID, in))

	err := s.ClockIn(ctx, emp.ID, in.Add(time.Minute))
	assert.True(t, errors.Is(err, payroll.ErrAlreadyClockedIn))

	require.NoError(t, s.ClockOut(ctx, emp.ID, in.Add(8*time.Hour)))

	err = s.ClockOut(ctx, emp.ID, in.Add(9*time.Hour))
	assert.True(t, errors.Is(err, payroll.ErrNotClockedIn))

	day := payroll.NewDate(2025, time.March, 10)
	punches, err := s.PunchesInRange(ctx, emp.ID, day, day)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.False(t, punches[0].IsOpen())
	assert.Equal(t, in, punches[0].TimeIn)
}

func TestPunchesInRange_Bounds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emp := seedEmployee(t, s)

	days := []payroll.Date{
		payroll.NewDate(2025, time.March, 9),
		payroll.NewDate(2025, time.March, 15),
		payroll.NewDate(2025, time.March, 16),
	}
	for _, d := range days {
		in := d.Time.Add(9 * time.Hour)
		out := in.Add(8 * time.Hour)
		require.NoError(t, s.AddPunch(ctx, payroll.RawPunch{
			EmployeeID: emp.ID, TimeIn: in, TimeOut: &out,
		}))
	}

	punches, err := s.PunchesInRange(ctx, emp.ID,
		payroll.NewDate(2025, time.March, 9), payroll.NewDate(2025, time.March, 15))
	require.NoError(t, err)
	assert.Len(t, punches, 2, "range is inclusive of both end days")
}

func TestFinalizePayroll_ExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emp := seedEmployee(t, s)

	p := payroll.Payroll{
		FromDate: payroll.NewDate(2025, time.January, 5),
		ToDate:   payroll.NewDate(2025, time.January, 18),
		PayDate:  payroll.NewDate(2025, time.January, 23),
		Results: []payroll.PayrollResult{{
			EmployeeID:         emp.ID,
			Name:               emp.Name,
			GrossCheckAmount:   dec("2200.00"),
			GrossOtherAmount:   dec("70.00"),
			NewVacationBalance: dec("32"),
			NewHolidayBalance:  dec("16"),
			NewSickDayBalance:  dec("24"),
		}},
	}

	require.NoError(t, s.FinalizePayroll(ctx, p))

	// Balances applied in the same transaction.
	got, err := s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.VacationBalance.Equal(dec("32")))

	// Snapshot readable and immutable.
	stored, err := s.GetPayroll(ctx, p.FromDate)
	require.NoError(t, err)
	assert.True(t, stored.ToDate.Equal(p.ToDate))
	require.Len(t, stored.Results, 1)
	assert.True(t, stored.Results[0].GrossCheckAmount.Equal(dec("2200.00")))

	err = s.FinalizePayroll(ctx, p)
	assert.True(t, errors.Is(err, payroll.ErrPayrollExists))

	// The rejected retry must not touch balances again.
	got, err = s.GetEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.VacationBalance.Equal(dec("32")))
}

func TestFinalizePayroll_UnknownEmployeeRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedEmployee(t, s)

	p := payroll.Payroll{
		FromDate: payroll.NewDate(2025, time.January, 5),
		ToDate:   payroll.NewDate(2025, time.January, 18),
		PayDate:  payroll.NewDate(2025, time.January, 23),
		Results: []payroll.PayrollResult{{
			EmployeeID:         "ghost",
			NewVacationBalance: dec("0"),
			NewHolidayBalance:  dec("0"),
			NewSickDayBalance:  dec("0"),
		}},
	}

	err := s.FinalizePayroll(ctx, p)
	assert.True(t, errors.Is(err, payroll.ErrEmployeeNotFound))

	// The snapshot insert was rolled back with the failed balance update.
	_, err = s.GetPayroll(ctx, p.FromDate)
	assert.True(t, errors.Is(err, payroll.ErrPayrollNotFound))
}

func TestListPayrolls_FiltersByPeriodEnd(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	emp := seedEmployee(t, s)

	result := payroll.PayrollResult{
		EmployeeID:         emp.ID,
		NewVacationBalance: dec("40"),
		NewHolidayBalance:  dec("16"),
		NewSickDayBalance:  dec("24"),
	}
	starts := []payroll.Date{
		payroll.NewDate(2024, time.December, 22),
		payroll.NewDate(2025, time.January, 5),
		payroll.NewDate(2025, time.January, 19),
	}
	for _, start := range starts {
		require.NoError(t, s.FinalizePayroll(ctx, payroll.Payroll{
			FromDate: start,
			ToDate:   start.AddDays(13),
			PayDate:  start.AddDays(18),
			Results:  []payroll.PayrollResult{result},
		}))
	}

	// The 2024-12-22 period ends 2025-01-04, inside the 2025 range.
	from, to := payroll.YearRange(2025)
	payrolls, err := s.ListPayrolls(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, payrolls, 3)
	assert.True(t, payrolls[0].FromDate.Before(payrolls[1].FromDate))
}
