package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// WEEKLY SCHEDULE - Declared working hours for auto-enrollment
// =============================================================================

// DaySchedule is one weekday's declared shift as wall-clock times in
// 24-hour HH:MM form (e.g. "08:30" to "17:00").
type DaySchedule struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklySchedule maps weekdays to declared shifts. Days without an entry
// are non-working days.
type WeeklySchedule map[time.Weekday]DaySchedule

// Validate checks that every declared shift parses and ends after it
// starts.
func (ws WeeklySchedule) Validate() error {
	for day, shift := range ws {
		start, err := parseClock(shift.Start)
		if err != nil {
			return fmt.Errorf("%s start: %w", day, err)
		}
		end, err := parseClock(shift.End)
		if err != nil {
			return fmt.Errorf("%s end: %w", day, err)
		}
		if !end.after(start) {
			return fmt.Errorf("%s: shift end %s is not after start %s", day, shift.End, shift.Start)
		}
	}
	return nil
}

// PunchesFor expands the schedule into closed punches for every scheduled
// workday of the period, skipping federal holidays. Used by the
// auto-enrollment collaborator to pre-populate a future period's time
// entries.
func (ws WeeklySchedule) PunchesFor(employeeID EmployeeID, period PayPeriod) ([]RawPunch, error) {
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	var punches []RawPunch
	for day := period.Start; day.BeforeOrEqual(period.End); day = day.AddDays(1) {
		shift, ok := ws[day.Weekday()]
		if !ok {
			continue
		}
		if IsFederalHoliday(day) {
			continue
		}

		start, _ := parseClock(shift.Start)
		end, _ := parseClock(shift.End)
		out := end.onDay(day)
		punches = append(punches, RawPunch{
			EmployeeID: employeeID,
			TimeIn:     start.onDay(day),
			TimeOut:    &out,
		})
	}
	return punches, nil
}

// =============================================================================
// WALL-CLOCK PARSING
// =============================================================================

type clockTime struct {
	hour, minute int
}

func parseClock(s string) (clockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return clockTime{}, fmt.Errorf("invalid clock time %q (use HH:MM): %w", s, err)
	}
	return clockTime{hour: t.Hour(), minute: t.Minute()}, nil
}

func (c clockTime) after(other clockTime) bool {
	return c.hour*60+c.minute > other.hour*60+other.minute
}

func (c clockTime) onDay(d Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.hour, c.minute, 0, 0, time.UTC)
}
