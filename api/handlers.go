/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the pure engine functions.

ENDPOINTS:
  Periods:
    GET  /api/periods/current           Period containing a date + next
    GET  /api/periods/{year}            All periods starting in a year
    GET  /api/periods/pay-date          Pay date for a period start

  Employees:
    GET  /api/employees                 List all employees
    POST /api/employees                 Create/update employee
    GET  /api/employees/{id}            Get employee details
    POST /api/employees/{id}/clock-in   Open a punch
    POST /api/employees/{id}/clock-out  Close the open punch
    GET  /api/employees/{id}/days/{date}  One day's punch summary
    GET  /api/employees/{id}/timecard   Full-period punch summary

  Payroll:
    POST /api/payroll/preview           Compute results (no writes)
    POST /api/payroll                   Finalize: compute + apply + snapshot
    GET  /api/payroll/{from}            Fetch a finalized snapshot

  Reports:
    GET  /api/reports/ytd               Year-to-date rollup
    GET  /api/reports/quarterly         Quarterly rollup

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (duplicate finalize, clock state)
  - 500: Internal errors

SECURITY NOTE:
  No authentication middleware. Auth is an external concern for this
  service.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store payroll.Store
}

// NewHandler creates a new handler with the given store.
func NewHandler(store payroll.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetCurrentPeriod returns the period containing ?date= (default today)
// and the period after it.
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	date := payroll.Today()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := payroll.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	current := payroll.PeriodContaining(date)
	writeJSON(w, http.StatusOK, CurrentPeriodDTO{
		Current: toPeriodDTO(current),
		Next:    toPeriodDTO(current.Next()),
	})
}

// GetYearlyPeriods returns every period starting in the given year.
func (h *Handler) GetYearlyPeriods(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}

	periods := payroll.YearlyPeriods(year)
	dtos := make([]PayPeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayDate returns the pay date for the period starting at ?start=.
func (h *Handler) GetPayDate(w http.ResponseWriter, r *http.Request) {
	start, err := payroll.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"pay_date": payroll.PayDateFor(start).String(),
	})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	emp := payroll.Employee{ID: payroll.EmployeeID(req.ID), Name: req.Name}

	fields := []struct {
		name string
		src  string
		dst  *decimal.Decimal
	}{
		{"pay_rate_check", req.PayRateCheck, &emp.PayRateCheck},
		{"pay_rate_others", req.PayRateOthers, &emp.PayRateOthers},
		{"vacation_balance", req.VacationBalance, &emp.VacationBalance},
		{"holiday_balance", req.HolidayBalance, &emp.HolidayBalance},
		{"sick_day_balance", req.SickDayBalance, &emp.SickDayBalance},
	}
	for _, f := range fields {
		d, err := parseAmount(f.src)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+f.name, err)
			return
		}
		if d.IsNegative() {
			writeError(w, http.StatusBadRequest, f.name+" must be >= 0", nil)
			return
		}
		*f.dst = d
	}

	if len(req.Schedule) > 0 {
		schedule, err := parseSchedule(req.Schedule)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid schedule", err)
			return
		}
		emp.Schedule = schedule
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// CLOCK HANDLERS
// =============================================================================

// ClockIn opens a punch for the employee.
func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, h.Store.ClockIn)
}

// ClockOut closes the employee's open punch.
func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, h.Store.ClockOut)
}

func (h *Handler) clockAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, id payroll.EmployeeID, at time.Time) error) {

	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}

	at := time.Now()
	var req ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Time != "" {
		parsed, err := time.Parse(time.RFC3339, req.Time)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid time (use RFC3339)", err)
			return
		}
		at = parsed
	}

	if err := action(r.Context(), id, at); err != nil {
		writeStoreError(w, "Clock action failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"employee_id": string(id),
		"time":        at.UTC().Format(time.RFC3339),
	})
}

// GetDaySummary returns one day's punch aggregation.
func (h *Handler) GetDaySummary(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))
	day, err := payroll.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	punches, err := h.Store.PunchesInRange(r.Context(), id, day, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}

	writeJSON(w, http.StatusOK, toDailySummaryDTO(payroll.SummarizeDay(id, punches, day)))
}

// GetTimecard returns a full-period aggregation. ?start= selects the
// period (default: the one containing today).
func (h *Handler) GetTimecard(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	date := payroll.Today()
	if s := r.URL.Query().Get("start"); s != "" {
		parsed, err := payroll.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start date (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}
	period := payroll.PeriodContaining(date)

	punches, err := h.Store.PunchesInRange(r.Context(), id, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load punches", err)
		return
	}

	summary := payroll.SummarizePeriod(id, punches, period)
	dto := TimecardDTO{
		EmployeeID:   string(id),
		Period:       toPeriodDTO(period),
		Days:         make([]DailySummaryDTO, len(summary.Days)),
		TotalMinutes: summary.TotalMinutes,
		TotalHours:   summary.TotalHours().StringFixed(2),
	}
	for i, d := range summary.Days {
		dto.Days[i] = toDailySummaryDTO(d)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// PreviewPayroll computes results for the submitted inputs without
// persisting anything or touching balances.
func (h *Handler) PreviewPayroll(w http.ResponseWriter, r *http.Request) {
	p, ok := h.computePayroll(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(*p))
}

// FinalizePayroll computes results, applies the new balances, and writes
// the immutable per-period snapshot. A second finalize of the same period
// is rejected with 409.
func (h *Handler) FinalizePayroll(w http.ResponseWriter, r *http.Request) {
	p, ok := h.computePayroll(w, r)
	if !ok {
		return
	}

	if err := h.Store.FinalizePayroll(r.Context(), *p); err != nil {
		writeStoreError(w, "Failed to finalize payroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayrollDTO(*p))
}

// GetPayroll returns a finalized snapshot by period start date.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	from, err := payroll.ParseDate(chi.URLParam(r, "from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}

	p, err := h.Store.GetPayroll(r.Context(), from)
	if err != nil {
		writeStoreError(w, "Failed to get payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(*p))
}

// computePayroll parses the request, resolves the period, and runs the
// calculator for every input. Shared by preview and finalize.
func (h *Handler) computePayroll(w http.ResponseWriter, r *http.Request) (*payroll.Payroll, bool) {
	var req PayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	fromDate, err := payroll.ParseDate(req.FromDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date (use YYYY-MM-DD)", err)
		return nil, false
	}
	period := payroll.PeriodContaining(fromDate)
	if !period.Start.Equal(fromDate) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("from_date %s is not a period start (expected %s)", fromDate, period.Start), nil)
		return nil, false
	}

	p := payroll.Payroll{
		FromDate: period.Start,
		ToDate:   period.End,
		PayDate:  period.PayDate,
	}

	for _, inputDTO := range req.Inputs {
		input, err := parseInput(inputDTO)
		if err != nil {
			writeError(w, http.StatusBadRequest,
				"Invalid input for employee "+inputDTO.EmployeeID, err)
			return nil, false
		}

		emp, err := h.Store.GetEmployee(r.Context(), input.EmployeeID)
		if err != nil {
			writeStoreError(w, "Unknown employee "+inputDTO.EmployeeID, err)
			return nil, false
		}
		if input.Name == "" {
			input.Name = emp.Name
		}

		result, err := payroll.Compute(input, *emp)
		if err != nil {
			status := http.StatusInternalServerError
			if payroll.IsClientError(err) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, "Payroll computation failed", err)
			return nil, false
		}

		p.Inputs = append(p.Inputs, input)
		p.Results = append(p.Results, result)
	}

	return &p, true
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetYtdReport returns per-employee year-to-date rollups for ?year=.
func (h *Handler) GetYtdReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	from, to := payroll.YearRange(year)
	h.earningsReport(w, r, from, to)
}

// GetQuarterlyReport returns per-employee rollups for ?year=&quarter=.
func (h *Handler) GetQuarterlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	quarter, err := strconv.Atoi(r.URL.Query().Get("quarter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quarter", err)
		return
	}

	from, to, err := payroll.QuarterRange(year, quarter)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quarter", err)
		return
	}
	h.earningsReport(w, r, from, to)
}

func (h *Handler) earningsReport(w http.ResponseWriter, r *http.Request, from, to payroll.Date) {
	payrolls, err := h.Store.ListPayrolls(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payrolls", err)
		return
	}

	var entries []payroll.PeriodEarnings
	for _, p := range payrolls {
		for _, result := range p.Results {
			entries = append(entries, payroll.PeriodEarnings{
				PeriodEnd: p.ToDate,
				Result:    result,
			})
		}
	}

	records := payroll.Aggregate(entries, from, to)
	dtos := make([]EarningsDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toEarningsDTO(rec))
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].EmployeeID < dtos[j].EmployeeID })

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PARSING / RESPONSE HELPERS
// =============================================================================

func parseInput(dto PayrollInputDTO) (payroll.EmployeePayrollInput, error) {
	input := payroll.EmployeePayrollInput{
		EmployeeID: payroll.EmployeeID(dto.EmployeeID),
		Name:       dto.Name,
		Comment:    dto.Comment,
	}
	if dto.EmployeeID == "" {
		return input, errors.New("employee_id is required")
	}

	fields := []struct {
		name string
		src  string
		dst  *decimal.Decimal
	}{
		{"total_hours_worked", dto.TotalHoursWorked, &input.TotalHoursWorked},
		{"check_hours", dto.CheckHours, &input.CheckHours},
		{"other_hours", dto.OtherHours, &input.OtherHours},
		{"vacation_hours_used", dto.VacationHoursUsed, &input.VacationHoursUsed},
		{"holiday_hours_used", dto.HolidayHoursUsed, &input.HolidayHoursUsed},
		{"sick_hours_used", dto.SickHoursUsed, &input.SickHoursUsed},
		{"other_adjustment", dto.OtherAdjustment, &input.OtherAdjustment},
	}
	for _, f := range fields {
		d, err := parseAmount(f.src)
		if err != nil {
			return input, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = d
	}
	return input, nil
}

// parseAmount parses a decimal string; empty means zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseSchedule(raw map[string]scheduleShift) (payroll.WeeklySchedule, error) {
	weekdays := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}

	schedule := make(payroll.WeeklySchedule, len(raw))
	for name, shift := range raw {
		day, ok := weekdays[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		schedule[day] = payroll.DaySchedule{Start: shift.Start, End: shift.End}
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// writeStoreError maps engine/store error kinds onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, message string, err error) {
	switch {
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case payroll.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
