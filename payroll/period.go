/*
period.go - Bi-weekly pay period resolution

PURPOSE:
  Resolves the continuous, non-overlapping sequence of 14-day pay periods
  and their statutory pay dates from any reference date. Periods always
  start on a Sunday and end on the Saturday 13 days later; the pay date is
  the first Thursday strictly after the period end.

ANCHORING:
  The sequence is anchored to a fixed reference Sunday (2024-01-07). The
  period containing any date is found with a single floor-division cycle
  index rather than conditional correction branches:

    cycle = floorDiv(daysBetween(anchor, d), 14)
    start = anchor + cycle*14 days

  floorDiv rounds toward negative infinity, so dates before the anchor
  resolve to negative cycle indices and still land in the correct period.

INVARIANTS:
  - start <= d <= end for the period containing d
  - consecutive periods satisfy next.start == prev.end + 1 day
  - payDate > end and payDate <= end + 6 days

SEE ALSO:
  - date.go: Date arithmetic
  - calc.go: Consumes period hour totals
*/
package payroll

import "time"

// =============================================================================
// PAY PERIOD
// =============================================================================

// PayPeriod is a 14-day Sunday-to-Saturday span with its pay date.
// Computed on demand and never persisted as its own entity; a finalized
// Payroll snapshot records the three dates as YYYY-MM-DD strings.
type PayPeriod struct {
	Start   Date
	End     Date
	PayDate Date
}

// Contains reports whether the date falls within [Start, End].
func (p PayPeriod) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Next returns the period immediately following this one.
func (p PayPeriod) Next() PayPeriod {
	return periodStartingAt(p.End.AddDays(1))
}

// Previous returns the period immediately preceding this one.
func (p PayPeriod) Previous() PayPeriod {
	return periodStartingAt(p.Start.AddDays(-periodLengthDays))
}

func (p PayPeriod) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// RESOLVER
// =============================================================================

const periodLengthDays = 14

// referenceStart anchors the bi-weekly cycle. It is a known Sunday; every
// period start is referenceStart plus a (possibly negative) multiple of 14.
var referenceStart = NewDate(2024, time.January, 7)

// payAnchorWeekday is the weekday employees are paid on.
const payAnchorWeekday = time.Thursday

// PeriodContaining returns the pay period that contains the given date.
// Total: every date maps to exactly one period, including dates before
// the reference anchor (negative cycle index, floored).
func PeriodContaining(d Date) PayPeriod {
	cycle := floorDiv(DaysBetween(referenceStart, d), periodLengthDays)
	return periodStartingAt(referenceStart.AddDays(cycle * periodLengthDays))
}

// PayDateFor returns the pay date for the period starting at the given date.
func PayDateFor(periodStart Date) Date {
	return PeriodContaining(periodStart).PayDate
}

// YearlyPeriods returns, in order, every pay period whose start falls
// within the given calendar year. A period is included iff its start is in
// the target year: the December-starting period whose end and pay date
// spill into January belongs to the prior year's sequence.
func YearlyPeriods(year int) []PayPeriod {
	p := PeriodContaining(NewDate(year, time.January, 1))
	if p.Start.Year() < year {
		p = p.Next()
	}

	var periods []PayPeriod
	for p.Start.Year() == year {
		periods = append(periods, p)
		p = p.Next()
	}
	return periods
}

func periodStartingAt(start Date) PayPeriod {
	end := start.AddDays(periodLengthDays - 1)
	return PayPeriod{
		Start:   start,
		End:     end,
		PayDate: nextWeekdayAfter(end, payAnchorWeekday),
	}
}

// nextWeekdayAfter returns the first occurrence of the weekday strictly
// after the given date.
func nextWeekdayAfter(d Date, weekday time.Weekday) Date {
	next := d.AddDays(1)
	for next.Weekday() != weekday {
		next = next.AddDays(1)
	}
	return next
}

// floorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
