package payroll_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

func TestDate_RoundTrip(t *testing.T) {
	// Property: format then parse yields the identical date, with no
	// timezone drift.

	d := payroll.NewDate(2025, time.January, 5)
	for i := 0; i < 730; i++ {
		parsed, err := payroll.ParseDate(d.String())
		if err != nil {
			t.Fatalf("failed to parse %s: %v", d, err)
		}
		if !parsed.Equal(d) {
			t.Fatalf("round trip drifted: %s -> %s", d, parsed)
		}
		d = d.AddDays(1)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := payroll.NewDate(2024, time.December, 22)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2024-12-22"` {
		t.Errorf("expected quoted YYYY-MM-DD, got %s", b)
	}

	var back payroll.Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d) {
		t.Errorf("json round trip drifted: %s -> %s", d, back)
	}
}

func TestDateOf_CollapsesInstant(t *testing.T) {
	instant := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	if got := payroll.DateOf(instant).String(); got != "2025-03-10" {
		t.Errorf("expected 2025-03-10, got %s", got)
	}
}

func TestDaysBetween_Signed(t *testing.T) {
	a := payroll.NewDate(2024, time.January, 7)
	b := payroll.NewDate(2024, time.January, 21)

	if got := payroll.DaysBetween(a, b); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
	if got := payroll.DaysBetween(b, a); got != -14 {
		t.Errorf("expected -14, got %d", got)
	}
}

func TestFederalHolidays_FixedDates(t *testing.T) {
	cases := []struct {
		date payroll.Date
		want bool
	}{
		{payroll.NewDate(2025, time.July, 4), true},
		{payroll.NewDate(2025, time.December, 25), true},
		{payroll.NewDate(2025, time.June, 19), true},
		{payroll.NewDate(2025, time.July, 5), false},
	}

	for _, c := range cases {
		if got := payroll.IsFederalHoliday(c.date); got != c.want {
			t.Errorf("IsFederalHoliday(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestFederalHolidays_FloatingDates(t *testing.T) {
	// 2025: Thanksgiving is the 4th Thursday of November (Nov 27),
	// Memorial Day the last Monday of May (May 26), Labor Day Sep 1.

	cases := []string{"2025-11-27", "2025-05-26", "2025-09-01", "2025-01-20"}
	for _, s := range cases {
		d, err := payroll.ParseDate(s)
		if err != nil {
			t.Fatal(err)
		}
		if !payroll.IsFederalHoliday(d) {
			t.Errorf("expected %s to be a federal holiday", s)
		}
	}

	if len(payroll.FederalHolidays(2025)) != 11 {
		t.Errorf("expected 11 federal holidays, got %d", len(payroll.FederalHolidays(2025)))
	}
}
