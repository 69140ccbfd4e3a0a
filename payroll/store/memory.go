// Package store provides an in-memory payroll.Store implementation
// for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[payroll.EmployeeID]payroll.Employee
	punches   map[payroll.EmployeeID][]payroll.RawPunch
	payrolls  map[string]payroll.Payroll // keyed by FromDate string
}

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[payroll.EmployeeID]payroll.Employee),
		punches:   make(map[payroll.EmployeeID][]payroll.RawPunch),
		payrolls:  make(map[string]payroll.Payroll),
	}
}

var _ payroll.Store = (*Memory)(nil)

// -----------------------------------------------------------------------------
// EmployeeStore
// -----------------------------------------------------------------------------

func (m *Memory) GetEmployee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, payroll.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	employees := make([]payroll.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		employees = append(employees, emp)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

func (m *Memory) SaveEmployee(_ context.Context, emp payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees[emp.ID] = emp
	return nil
}

// -----------------------------------------------------------------------------
// PunchStore
// -----------------------------------------------------------------------------

func (m *Memory) ClockIn(_ context.Context, id payroll.EmployeeID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.openPunchIndex(id) >= 0 {
		return payroll.ErrAlreadyClockedIn
	}
	m.appendPunch(payroll.RawPunch{EmployeeID: id, TimeIn: at})
	return nil
}

func (m *Memory) ClockOut(_ context.Context, id payroll.EmployeeID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.openPunchIndex(id)
	if i < 0 {
		return payroll.ErrNotClockedIn
	}
	out := at
	m.punches[id][i].TimeOut = &out
	return nil
}

func (m *Memory) AddPunch(_ context.Context, punch payroll.RawPunch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.appendPunch(punch)
	return nil
}

func (m *Memory) PunchesInRange(_ context.Context, id payroll.EmployeeID, from, to payroll.Date) ([]payroll.RawPunch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.RawPunch
	for _, p := range m.punches[id] {
		day := payroll.DateOf(p.TimeIn)
		if day.AfterOrEqual(from) && day.BeforeOrEqual(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

// appendPunch keeps the per-employee log ordered by clock-in time.
func (m *Memory) appendPunch(punch payroll.RawPunch) {
	punches := m.punches[punch.EmployeeID]
	i := sort.Search(len(punches), func(i int) bool {
		return punches[i].TimeIn.After(punch.TimeIn)
	})
	punches = append(punches, payroll.RawPunch{})
	copy(punches[i+1:], punches[i:])
	punches[i] = punch
	m.punches[punch.EmployeeID] = punches
}

func (m *Memory) openPunchIndex(id payroll.EmployeeID) int {
	for i, p := range m.punches[id] {
		if p.IsOpen() {
			return i
		}
	}
	return -1
}

// -----------------------------------------------------------------------------
// PayrollStore
// -----------------------------------------------------------------------------

func (m *Memory) FinalizePayroll(_ context.Context, p payroll.Payroll) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := p.FromDate.String()
	if _, exists := m.payrolls[key]; exists {
		return payroll.ErrPayrollExists
	}

	// Verify every referenced employee before applying anything, so a
	// failure leaves balances untouched.
	for _, r := range p.Results {
		if _, ok := m.employees[r.EmployeeID]; !ok {
			return payroll.ErrEmployeeNotFound
		}
	}

	for _, r := range p.Results {
		emp := m.employees[r.EmployeeID]
		emp.VacationBalance = r.NewVacationBalance
		emp.HolidayBalance = r.NewHolidayBalance
		emp.SickDayBalance = r.NewSickDayBalance
		m.employees[r.EmployeeID] = emp
	}

	m.payrolls[key] = p
	return nil
}

func (m *Memory) GetPayroll(_ context.Context, fromDate payroll.Date) (*payroll.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payrolls[fromDate.String()]
	if !ok {
		return nil, payroll.ErrPayrollNotFound
	}
	return &p, nil
}

func (m *Memory) ListPayrolls(_ context.Context, from, to payroll.Date) ([]payroll.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Payroll
	for _, p := range m.payrolls {
		if p.ToDate.AfterOrEqual(from) && p.ToDate.BeforeOrEqual(to) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FromDate.Before(result[j].FromDate) })
	return result, nil
}
