package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day without timezone offset
// =============================================================================

// Date is a calendar day. It is stored as midnight UTC so that comparing,
// formatting, and parsing never drift across timezones: a Date formatted
// as YYYY-MM-DD and parsed back is the identical Date.
type Date struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf collapses an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time.AddDate(0, 0, n)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.Time.Format(dateLayout) }

// DaysBetween returns the signed number of days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// JSON round-trips as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date json: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// FEDERAL HOLIDAYS - Fixed US list
// =============================================================================

// Holiday is a named non-working day. Only the fixed US federal list is
// supported; company-specific or multi-jurisdiction calendars are not.
type Holiday struct {
	Name string
	Date Date
}

// FederalHolidays returns the US federal holidays observed in a year.
func FederalHolidays(year int) []Holiday {
	return []Holiday{
		{"New Year's Day", NewDate(year, time.January, 1)},
		{"Martin Luther King Jr. Day", nthWeekday(year, time.January, time.Monday, 3)},
		{"Washington's Birthday", nthWeekday(year, time.February, time.Monday, 3)},
		{"Memorial Day", lastWeekday(year, time.May, time.Monday)},
		{"Juneteenth", NewDate(year, time.June, 19)},
		{"Independence Day", NewDate(year, time.July, 4)},
		{"Labor Day", nthWeekday(year, time.September, time.Monday, 1)},
		{"Columbus Day", nthWeekday(year, time.October, time.Monday, 2)},
		{"Veterans Day", NewDate(year, time.November, 11)},
		{"Thanksgiving Day", nthWeekday(year, time.November, time.Thursday, 4)},
		{"Christmas Day", NewDate(year, time.December, 25)},
	}
}

// IsFederalHoliday reports whether the date falls on a federal holiday.
func IsFederalHoliday(d Date) bool {
	for _, h := range FederalHolidays(d.Year()) {
		if h.Date.Equal(d) {
			return true
		}
	}
	return false
}

// nthWeekday returns the nth occurrence of a weekday in a month (n >= 1).
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) Date {
	d := NewDate(year, month, 1)
	for d.Weekday() != weekday {
		d = d.AddDays(1)
	}
	return d.AddDays((n - 1) * 7)
}

// lastWeekday returns the final occurrence of a weekday in a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) Date {
	d := NewDate(year, month+1, 1).AddDays(-1)
	for d.Weekday() != weekday {
		d = d.AddDays(-1)
	}
	return d
}
