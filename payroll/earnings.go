/*
earnings.go - Year-to-date and quarterly earnings rollups

PURPOSE:
  Aggregates historical PayrollResults (read back from persisted Payroll
  snapshots) into per-employee totals over a date range, preserving a
  chronologically ordered per-period breakdown for drill-down display.

SEE ALSO:
  - calc.go: Produces the PayrollResults being aggregated
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATION TYPES
// =============================================================================

// PeriodEarnings pairs a payroll result with the end date of the period it
// was computed for.
type PeriodEarnings struct {
	PeriodEnd Date
	Result    PayrollResult
}

// PeriodBreakdown is one period's line in an employee's rollup.
type PeriodBreakdown struct {
	PeriodEnd  Date
	GrossCheck decimal.Decimal
	GrossOther decimal.Decimal
	Total      decimal.Decimal
}

// YtdRecord is the per-employee rollup over the requested range.
type YtdRecord struct {
	EmployeeID EmployeeID
	Name       string

	TotalGrossCheck decimal.Decimal
	TotalGrossOther decimal.Decimal
	TotalGross      decimal.Decimal

	Breakdown []PeriodBreakdown
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregate sums gross pay per employee over [rangeStart, rangeEnd]
// inclusive, filtering on each entry's period end date. Pure and
// restartable; empty input yields an empty map.
func Aggregate(entries []PeriodEarnings, rangeStart, rangeEnd Date) map[EmployeeID]*YtdRecord {
	records := make(map[EmployeeID]*YtdRecord)

	for _, e := range entries {
		if e.PeriodEnd.Before(rangeStart) || e.PeriodEnd.After(rangeEnd) {
			continue
		}

		rec, ok := records[e.Result.EmployeeID]
		if !ok {
			rec = &YtdRecord{
				EmployeeID:      e.Result.EmployeeID,
				Name:            e.Result.Name,
				TotalGrossCheck: decimal.Zero,
				TotalGrossOther: decimal.Zero,
				TotalGross:      decimal.Zero,
			}
			records[e.Result.EmployeeID] = rec
		}

		rec.TotalGrossCheck = rec.TotalGrossCheck.Add(e.Result.GrossCheckAmount)
		rec.TotalGrossOther = rec.TotalGrossOther.Add(e.Result.GrossOtherAmount)
		rec.TotalGross = rec.TotalGrossCheck.Add(rec.TotalGrossOther)

		rec.Breakdown = append(rec.Breakdown, PeriodBreakdown{
			PeriodEnd:  e.PeriodEnd,
			GrossCheck: e.Result.GrossCheckAmount,
			GrossOther: e.Result.GrossOtherAmount,
			Total:      e.Result.TotalGross(),
		})
	}

	// Breakdowns are for drill-down display; keep them chronological even
	// when input arrives out of order.
	for _, rec := range records {
		sort.SliceStable(rec.Breakdown, func(i, j int) bool {
			return rec.Breakdown[i].PeriodEnd.Before(rec.Breakdown[j].PeriodEnd)
		})
	}

	return records
}

// =============================================================================
// RANGE HELPERS
// =============================================================================

// YearRange returns the inclusive bounds of a calendar year.
func YearRange(year int) (Date, Date) {
	return NewDate(year, time.January, 1), NewDate(year, time.December, 31)
}

// QuarterRange returns the inclusive bounds of a calendar quarter (1-4).
func QuarterRange(year, quarter int) (Date, Date, error) {
	if quarter < 1 || quarter > 4 {
		return Date{}, Date{}, &InvalidInputError{
			Field: "quarter",
			Value: decimal.NewFromInt(int64(quarter)),
		}
	}
	startMonth := time.Month((quarter-1)*3 + 1)
	start := NewDate(year, startMonth, 1)
	end := NewDate(year, startMonth+3, 1).AddDays(-1)
	return start, end, nil
}
