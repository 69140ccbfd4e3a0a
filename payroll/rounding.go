package payroll

import "time"

// =============================================================================
// PUNCH ROUNDING - Fixed minute-bucket policy
// =============================================================================

// RoundPunch maps a raw clock timestamp to its billable timestamp. Only
// the minute-of-hour matters; seconds and sub-second components are always
// truncated. The buckets:
//
//	 :00        unchanged
//	 :01 - :09  back to :00
//	 :10 - :15  to :15
//	 :16 - :44  to :30
//	 :45 - :59  forward to :00 of the next hour
//
// Every output lands on :00, :15, or :30, so the function is idempotent.
func RoundPunch(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())

	m := t.Minute()
	switch {
	case m == 0:
		return t
	case m <= 9:
		return t.Add(-time.Duration(m) * time.Minute)
	case m <= 15:
		return t.Add(time.Duration(15-m) * time.Minute)
	case m <= 44:
		return t.Add(time.Duration(30-m) * time.Minute)
	default:
		return t.Add(time.Duration(60-m) * time.Minute)
	}
}
