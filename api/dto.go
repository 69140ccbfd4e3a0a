/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal engine model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES AND MONEY:
  All calendar dates cross the wire as YYYY-MM-DD strings. Monetary and
  hour amounts are decimal strings ("2200.00"), never floats, matching the
  engine's drift-free decimal arithmetic.

DISPLAY COLLAPSING:
  The engine always exposes the full punch list; the "Multiple"/"ACTIVE"
  collapsing for timecard cells is a presentation decision made here, in
  displayLabel.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	PayRateCheck    string                   `json:"pay_rate_check"`
	PayRateOthers   string                   `json:"pay_rate_others"`
	VacationBalance string                   `json:"vacation_balance"`
	HolidayBalance  string                   `json:"holiday_balance"`
	SickDayBalance  string                   `json:"sick_day_balance"`
	Schedule        map[string]scheduleShift `json:"schedule,omitempty"`
}

type scheduleShift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SaveEmployeeRequest creates or updates an employee record.
type SaveEmployeeRequest struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	PayRateCheck    string                   `json:"pay_rate_check"`
	PayRateOthers   string                   `json:"pay_rate_others"`
	VacationBalance string                   `json:"vacation_balance"`
	HolidayBalance  string                   `json:"holiday_balance"`
	SickDayBalance  string                   `json:"sick_day_balance"`
	Schedule        map[string]scheduleShift `json:"schedule,omitempty"`
}

// PayPeriodDTO represents one resolved pay period.
type PayPeriodDTO struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	PayDate string `json:"pay_date"`
}

// CurrentPeriodDTO pairs the period containing a date with the next one.
type CurrentPeriodDTO struct {
	Current PayPeriodDTO `json:"current"`
	Next    PayPeriodDTO `json:"next"`
}

// ClockRequest carries an optional explicit timestamp for clock actions.
// Empty means "now".
type ClockRequest struct {
	Time string `json:"time,omitempty"` // RFC3339
}

// PunchDTO represents one rounded punch pair.
type PunchDTO struct {
	TimeIn  string  `json:"time_in"`
	TimeOut *string `json:"time_out,omitempty"`
	Minutes int     `json:"minutes"`
}

// DailySummaryDTO represents one day's aggregation.
type DailySummaryDTO struct {
	Date         string     `json:"date"`
	TotalMinutes int        `json:"total_minutes"`
	TotalHours   string     `json:"total_hours"`
	PunchCount   int        `json:"punch_count"`
	Display      string     `json:"display"`
	Punches      []PunchDTO `json:"punches"`
}

// TimecardDTO represents a full period's aggregation for one employee.
type TimecardDTO struct {
	EmployeeID   string            `json:"employee_id"`
	Period       PayPeriodDTO      `json:"period"`
	Days         []DailySummaryDTO `json:"days"`
	TotalMinutes int               `json:"total_minutes"`
	TotalHours   string            `json:"total_hours"`
}

// PayrollInputDTO is one employee's operator-entered line.
type PayrollInputDTO struct {
	EmployeeID        string `json:"employee_id"`
	Name              string `json:"name,omitempty"`
	TotalHoursWorked  string `json:"total_hours_worked"`
	CheckHours        string `json:"check_hours"`
	OtherHours        string `json:"other_hours"`
	VacationHoursUsed string `json:"vacation_hours_used"`
	HolidayHoursUsed  string `json:"holiday_hours_used"`
	SickHoursUsed     string `json:"sick_hours_used"`
	OtherAdjustment   string `json:"other_adjustment"`
	Comment           string `json:"comment,omitempty"`
}

// PayrollRequest previews or finalizes a payroll run.
type PayrollRequest struct {
	FromDate string            `json:"from_date"`
	Inputs   []PayrollInputDTO `json:"inputs"`
}

// PayrollResultDTO is the computed outcome for one employee.
type PayrollResultDTO struct {
	EmployeeID         string `json:"employee_id"`
	Name               string `json:"name"`
	PayRateCheck       string `json:"pay_rate_check"`
	PayRateOthers      string `json:"pay_rate_others"`
	OtherAdjustment    string `json:"other_adjustment"`
	GrossCheckAmount   string `json:"gross_check_amount"`
	GrossOtherAmount   string `json:"gross_other_amount"`
	TotalGross         string `json:"total_gross"`
	NewVacationBalance string `json:"new_vacation_balance"`
	NewHolidayBalance  string `json:"new_holiday_balance"`
	NewSickDayBalance  string `json:"new_sick_day_balance"`
}

// PayrollDTO is a full per-period snapshot.
type PayrollDTO struct {
	FromDate string             `json:"from_date"`
	ToDate   string             `json:"to_date"`
	PayDate  string             `json:"pay_date"`
	Results  []PayrollResultDTO `json:"results"`
}

// EarningsBreakdownDTO is one period line in a rollup.
type EarningsBreakdownDTO struct {
	PeriodEnd  string `json:"period_end"`
	GrossCheck string `json:"gross_check"`
	GrossOther string `json:"gross_other"`
	Total      string `json:"total"`
}

// EarningsDTO is the per-employee rollup over the requested range.
type EarningsDTO struct {
	EmployeeID      string                 `json:"employee_id"`
	Name            string                 `json:"name"`
	TotalGrossCheck string                 `json:"total_gross_check"`
	TotalGrossOther string                 `json:"total_gross_other"`
	TotalGross      string                 `json:"total_gross"`
	Breakdown       []EarningsBreakdownDTO `json:"breakdown"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPeriodDTO(p payroll.PayPeriod) PayPeriodDTO {
	return PayPeriodDTO{
		Start:   p.Start.String(),
		End:     p.End.String(),
		PayDate: p.PayDate.String(),
	}
}

func toEmployeeDTO(emp payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:              string(emp.ID),
		Name:            emp.Name,
		PayRateCheck:    emp.PayRateCheck.StringFixed(2),
		PayRateOthers:   emp.PayRateOthers.StringFixed(2),
		VacationBalance: emp.VacationBalance.String(),
		HolidayBalance:  emp.HolidayBalance.String(),
		SickDayBalance:  emp.SickDayBalance.String(),
	}
	if len(emp.Schedule) > 0 {
		dto.Schedule = make(map[string]scheduleShift, len(emp.Schedule))
		for day, shift := range emp.Schedule {
			dto.Schedule[day.String()] = scheduleShift{Start: shift.Start, End: shift.End}
		}
	}
	return dto
}

func toDailySummaryDTO(s payroll.DailySummary) DailySummaryDTO {
	dto := DailySummaryDTO{
		Date:         s.Date.String(),
		TotalMinutes: s.TotalMinutes,
		TotalHours:   s.TotalHours().StringFixed(2),
		PunchCount:   s.PunchCount(),
		Display:      displayLabel(s),
		Punches:      make([]PunchDTO, 0, len(s.Punches)),
	}
	for _, p := range s.Punches {
		r := p.Rounded()
		pd := PunchDTO{
			TimeIn:  r.TimeIn.Format(time.RFC3339),
			Minutes: p.Minutes(),
		}
		if r.TimeOut != nil {
			out := r.TimeOut.Format(time.RFC3339)
			pd.TimeOut = &out
		}
		dto.Punches = append(dto.Punches, pd)
	}
	return dto
}

// displayLabel collapses a day's punches into the timecard cell text.
func displayLabel(s payroll.DailySummary) string {
	switch {
	case s.PunchCount() == 0:
		return ""
	case s.HasOpenPunch():
		return "ACTIVE"
	case s.PunchCount() > 1:
		return "Multiple"
	default:
		r := s.Punches[0].Rounded()
		return fmt.Sprintf("%s - %s",
			r.TimeIn.Format("3:04 PM"), r.TimeOut.Format("3:04 PM"))
	}
}

func toResultDTO(r payroll.PayrollResult) PayrollResultDTO {
	return PayrollResultDTO{
		EmployeeID:         string(r.EmployeeID),
		Name:               r.Name,
		PayRateCheck:       r.PayRateCheck.StringFixed(2),
		PayRateOthers:      r.PayRateOthers.StringFixed(2),
		OtherAdjustment:    r.OtherAdjustment.StringFixed(2),
		GrossCheckAmount:   r.GrossCheckAmount.StringFixed(2),
		GrossOtherAmount:   r.GrossOtherAmount.StringFixed(2),
		TotalGross:         r.TotalGross().StringFixed(2),
		NewVacationBalance: r.NewVacationBalance.String(),
		NewHolidayBalance:  r.NewHolidayBalance.String(),
		NewSickDayBalance:  r.NewSickDayBalance.String(),
	}
}

func toPayrollDTO(p payroll.Payroll) PayrollDTO {
	dto := PayrollDTO{
		FromDate: p.FromDate.String(),
		ToDate:   p.ToDate.String(),
		PayDate:  p.PayDate.String(),
		Results:  make([]PayrollResultDTO, len(p.Results)),
	}
	for i, r := range p.Results {
		dto.Results[i] = toResultDTO(r)
	}
	return dto
}

func toEarningsDTO(rec *payroll.YtdRecord) EarningsDTO {
	dto := EarningsDTO{
		EmployeeID:      string(rec.EmployeeID),
		Name:            rec.Name,
		TotalGrossCheck: rec.TotalGrossCheck.StringFixed(2),
		TotalGrossOther: rec.TotalGrossOther.StringFixed(2),
		TotalGross:      rec.TotalGross.StringFixed(2),
		Breakdown:       make([]EarningsBreakdownDTO, len(rec.Breakdown)),
	}
	for i, b := range rec.Breakdown {
		dto.Breakdown[i] = EarningsBreakdownDTO{
			PeriodEnd:  b.PeriodEnd.String(),
			GrossCheck: b.GrossCheck.StringFixed(2),
			GrossOther: b.GrossOther.StringFixed(2),
			Total:      b.Total.StringFixed(2),
		}
	}
	return dto
}
