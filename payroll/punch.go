/*
punch.go - Punch pairing and daily/period aggregation

PURPOSE:
  Normalizes raw clock-in/clock-out pairs into billable daily totals.
  Each punch is rounded under the fixed minute-bucket policy, negative
  spans are clamped to zero, and open punches (still clocked in) are kept
  for display but contribute nothing to the total.

DISPLAY CONTRACT:
  The aggregator never collapses data. It exposes the full punch list and
  a punch count so presentation layers can decide how to summarize (e.g.
  show "Multiple" when more than one punch exists, or "ACTIVE" while an
  open punch is outstanding).

SEE ALSO:
  - rounding.go: Minute-bucket rounding applied to each punch
  - calc.go:     Consumes the period total as TotalHoursWorked
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW PUNCH
// =============================================================================

// RawPunch is one clock-in/clock-out pair. A nil TimeOut means the
// employee is currently clocked in.
type RawPunch struct {
	EmployeeID EmployeeID
	TimeIn     time.Time
	TimeOut    *time.Time
}

// IsOpen reports whether the employee is still clocked in on this punch.
func (p RawPunch) IsOpen() bool { return p.TimeOut == nil }

// Rounded returns a copy with both timestamps passed through RoundPunch.
func (p RawPunch) Rounded() RawPunch {
	out := RawPunch{EmployeeID: p.EmployeeID, TimeIn: RoundPunch(p.TimeIn)}
	if p.TimeOut != nil {
		t := RoundPunch(*p.TimeOut)
		out.TimeOut = &t
	}
	return out
}

// Minutes returns the billable minutes of the rounded punch. Open punches
// and inverted pairs (out before in) yield zero, never a negative span.
func (p RawPunch) Minutes() int {
	if p.TimeOut == nil {
		return 0
	}
	r := p.Rounded()
	minutes := int(r.TimeOut.Sub(r.TimeIn).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// =============================================================================
// DAILY SUMMARY
// =============================================================================

// DailySummary is the derived per-day view of an employee's punches.
// It is recomputed on demand and never persisted.
type DailySummary struct {
	EmployeeID   EmployeeID
	Date         Date
	TotalMinutes int
	Punches      []RawPunch
}

func (s DailySummary) PunchCount() int { return len(s.Punches) }

// HasOpenPunch reports whether any punch on this day is still open.
func (s DailySummary) HasOpenPunch() bool {
	for _, p := range s.Punches {
		if p.IsOpen() {
			return true
		}
	}
	return false
}

func (s DailySummary) TotalHours() decimal.Decimal {
	return minutesToHours(s.TotalMinutes)
}

// SummarizeDay aggregates the punches whose clock-in falls on the given
// calendar day. Pure and idempotent: the same inputs always produce the
// same summary.
func SummarizeDay(employeeID EmployeeID, punches []RawPunch, day Date) DailySummary {
	summary := DailySummary{EmployeeID: employeeID, Date: day}

	for _, p := range punches {
		if !DateOf(p.TimeIn).Equal(day) {
			continue
		}
		summary.Punches = append(summary.Punches, p)
		summary.TotalMinutes += p.Minutes()
	}
	return summary
}

// =============================================================================
// PERIOD SUMMARY
// =============================================================================

// PeriodSummary rolls daily summaries up to a full pay period. Its total
// feeds EmployeePayrollInput.TotalHoursWorked.
type PeriodSummary struct {
	EmployeeID   EmployeeID
	Period       PayPeriod
	Days         []DailySummary
	TotalMinutes int
}

func (s PeriodSummary) TotalHours() decimal.Decimal {
	return minutesToHours(s.TotalMinutes)
}

// SummarizePeriod produces one DailySummary per day of the period, in
// order, plus the period total.
func SummarizePeriod(employeeID EmployeeID, punches []RawPunch, period PayPeriod) PeriodSummary {
	summary := PeriodSummary{EmployeeID: employeeID, Period: period}

	for day := period.Start; day.BeforeOrEqual(period.End); day = day.AddDays(1) {
		ds := SummarizeDay(employeeID, punches, day)
		summary.Days = append(summary.Days, ds)
		summary.TotalMinutes += ds.TotalMinutes
	}
	return summary
}
