/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements payroll.Store (employees, punch log, payroll snapshots)
  using SQLite. In production, the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  employees:  Rates, leave balances, declared weekly schedule (JSON)
  punches:    Raw clock-in/clock-out log; NULL time_out = still clocked in
  payrolls:   Immutable per-period snapshots; from_date is the primary key

EXACTLY-ONCE FINALIZE:
  FinalizePayroll runs in one database transaction: it inserts the
  snapshot row and applies each result's new leave balances. from_date
  being the primary key makes a second finalize of the same period fail
  before any balance is touched, so a snapshot can never be applied twice.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go:        Interface definitions
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ payroll.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pay_rate_check TEXT NOT NULL,
		pay_rate_others TEXT NOT NULL,
		vacation_balance TEXT NOT NULL,
		holiday_balance TEXT NOT NULL,
		sick_day_balance TEXT NOT NULL,
		schedule_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS punches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		time_in TEXT NOT NULL,
		time_out TEXT
	);

	-- Hot path: timecard queries by employee and clock-in time
	CREATE INDEX IF NOT EXISTS idx_punches_employee_time_in
		ON punches(employee_id, time_in);

	-- One open punch at a time per employee
	CREATE UNIQUE INDEX IF NOT EXISTS idx_punches_open
		ON punches(employee_id) WHERE time_out IS NULL;

	-- Immutable per-period snapshots. from_date as primary key is the
	-- idempotency key: one payroll per period, ever.
	CREATE TABLE IF NOT EXISTS payrolls (
		from_date TEXT PRIMARY KEY,
		to_date TEXT NOT NULL,
		pay_date TEXT NOT NULL,
		inputs_json TEXT NOT NULL,
		results_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payrolls_to_date ON payrolls(to_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, pay_rate_check, pay_rate_others,
		       vacation_balance, holiday_balance, sick_day_balance, schedule_json
		FROM employees WHERE id = ?`, string(id))

	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, pay_rate_check, pay_rate_others,
		       vacation_balance, holiday_balance, sick_day_balance, schedule_json
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	var scheduleJSON []byte
	if len(emp.Schedule) > 0 {
		var err error
		scheduleJSON, err = json.Marshal(emp.Schedule)
		if err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
			(id, name, pay_rate_check, pay_rate_others,
			 vacation_balance, holiday_balance, sick_day_balance, schedule_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pay_rate_check = excluded.pay_rate_check,
			pay_rate_others = excluded.pay_rate_others,
			vacation_balance = excluded.vacation_balance,
			holiday_balance = excluded.holiday_balance,
			sick_day_balance = excluded.sick_day_balance,
			schedule_json = excluded.schedule_json`,
		string(emp.ID), emp.Name,
		emp.PayRateCheck.String(), emp.PayRateOthers.String(),
		emp.VacationBalance.String(), emp.HolidayBalance.String(), emp.SickDayBalance.String(),
		nullableString(scheduleJSON), time.Now().UTC().Format(time.RFC3339))
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployee(row scannable) (*payroll.Employee, error) {
	var emp payroll.Employee
	var id, rateCheck, rateOthers, vacation, holiday, sick string
	var scheduleJSON sql.NullString

	if err := row.Scan(&id, &emp.Name, &rateCheck, &rateOthers,
		&vacation, &holiday, &sick, &scheduleJSON); err != nil {
		return nil, err
	}

	emp.ID = payroll.EmployeeID(id)
	var err error
	if emp.PayRateCheck, err = decimal.NewFromString(rateCheck); err != nil {
		return nil, fmt.Errorf("corrupt pay_rate_check for %s: %w", id, err)
	}
	if emp.PayRateOthers, err = decimal.NewFromString(rateOthers); err != nil {
		return nil, fmt.Errorf("corrupt pay_rate_others for %s: %w", id, err)
	}
	if emp.VacationBalance, err = decimal.NewFromString(vacation); err != nil {
		return nil, fmt.Errorf("corrupt vacation_balance for %s: %w", id, err)
	}
	if emp.HolidayBalance, err = decimal.NewFromString(holiday); err != nil {
		return nil, fmt.Errorf("corrupt holiday_balance for %s: %w", id, err)
	}
	if emp.SickDayBalance, err = decimal.NewFromString(sick); err != nil {
		return nil, fmt.Errorf("corrupt sick_day_balance for %s: %w", id, err)
	}

	if scheduleJSON.Valid && scheduleJSON.String != "" {
		if err := json.Unmarshal([]byte(scheduleJSON.String), &emp.Schedule); err != nil {
			return nil, fmt.Errorf("corrupt schedule for %s: %w", id, err)
		}
	}
	return &emp, nil
}

// =============================================================================
// PUNCHES
// =============================================================================

func (s *Store) ClockIn(ctx context.Context, id payroll.EmployeeID, at time.Time) error {
	open, err := s.hasOpenPunch(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return payroll.ErrAlreadyClockedIn
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO punches (employee_id, time_in) VALUES (?, ?)`,
		string(id), at.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ClockOut(ctx context.Context, id payroll.EmployeeID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE punches SET time_out = ?
		WHERE employee_id = ? AND time_out IS NULL`,
		at.UTC().Format(time.RFC3339), string(id))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrNotClockedIn
	}
	return nil
}

func (s *Store) AddPunch(ctx context.Context, punch payroll.RawPunch) error {
	var timeOut any
	if punch.TimeOut != nil {
		timeOut = punch.TimeOut.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO punches (employee_id, time_in, time_out) VALUES (?, ?, ?)`,
		string(punch.EmployeeID), punch.TimeIn.UTC().Format(time.RFC3339), timeOut)
	return err
}

func (s *Store) PunchesInRange(ctx context.Context, id payroll.EmployeeID, from, to payroll.Date) ([]payroll.RawPunch, error) {
	// time_in is RFC3339 UTC, so lexicographic range compares correctly.
	rows, err := s.db.QueryContext(ctx, `
		SELECT time_in, time_out FROM punches
		WHERE employee_id = ? AND time_in >= ? AND time_in < ?
		ORDER BY time_in`,
		string(id),
		from.Time.Format(time.RFC3339),
		to.AddDays(1).Time.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var punches []payroll.RawPunch
	for rows.Next() {
		var timeIn string
		var timeOut sql.NullString
		if err := rows.Scan(&timeIn, &timeOut); err != nil {
			return nil, err
		}

		punch := payroll.RawPunch{EmployeeID: id}
		if punch.TimeIn, err = time.Parse(time.RFC3339, timeIn); err != nil {
			return nil, fmt.Errorf("corrupt time_in for %s: %w", id, err)
		}
		if timeOut.Valid {
			out, err := time.Parse(time.RFC3339, timeOut.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt time_out for %s: %w", id, err)
			}
			punch.TimeOut = &out
		}
		punches = append(punches, punch)
	}
	return punches, rows.Err()
}

func (s *Store) hasOpenPunch(ctx context.Context, id payroll.EmployeeID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM punches WHERE employee_id = ? AND time_out IS NULL`,
		string(id)).Scan(&count)
	return count > 0, err
}

// =============================================================================
// PAYROLL SNAPSHOTS
// =============================================================================

func (s *Store) FinalizePayroll(ctx context.Context, p payroll.Payroll) error {
	inputsJSON, err := json.Marshal(p.Inputs)
	if err != nil {
		return fmt.Errorf("failed to encode inputs: %w", err)
	}
	resultsJSON, err := json.Marshal(p.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payrolls WHERE from_date = ?`,
		p.FromDate.String()).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return payroll.ErrPayrollExists
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO payrolls (from_date, to_date, pay_date, inputs_json, results_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.FromDate.String(), p.ToDate.String(), p.PayDate.String(),
		string(inputsJSON), string(resultsJSON),
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	// Balance application rides the same transaction as the snapshot
	// insert, so a period's effects are all-or-nothing.
	for _, r := range p.Results {
		res, err := tx.ExecContext(ctx, `
			UPDATE employees SET
				vacation_balance = ?,
				holiday_balance = ?,
				sick_day_balance = ?
			WHERE id = ?`,
			r.NewVacationBalance.String(),
			r.NewHolidayBalance.String(),
			r.NewSickDayBalance.String(),
			string(r.EmployeeID))
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return payroll.ErrEmployeeNotFound
		}
	}

	return tx.Commit()
}

func (s *Store) GetPayroll(ctx context.Context, fromDate payroll.Date) (*payroll.Payroll, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT from_date, to_date, pay_date, inputs_json, results_json
		FROM payrolls WHERE from_date = ?`, fromDate.String())

	p, err := scanPayroll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, payroll.ErrPayrollNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPayrolls(ctx context.Context, from, to payroll.Date) ([]payroll.Payroll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_date, to_date, pay_date, inputs_json, results_json
		FROM payrolls
		WHERE to_date >= ? AND to_date <= ?
		ORDER BY from_date`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		payrolls = append(payrolls, *p)
	}
	return payrolls, rows.Err()
}

func scanPayroll(row scannable) (*payroll.Payroll, error) {
	var p payroll.Payroll
	var fromDate, toDate, payDate, inputsJSON, resultsJSON string

	if err := row.Scan(&fromDate, &toDate, &payDate, &inputsJSON, &resultsJSON); err != nil {
		return nil, err
	}

	var err error
	if p.FromDate, err = payroll.ParseDate(fromDate); err != nil {
		return nil, fmt.Errorf("corrupt from_date: %w", err)
	}
	if p.ToDate, err = payroll.ParseDate(toDate); err != nil {
		return nil, fmt.Errorf("corrupt to_date: %w", err)
	}
	if p.PayDate, err = payroll.ParseDate(payDate); err != nil {
		return nil, fmt.Errorf("corrupt pay_date: %w", err)
	}
	if err := json.Unmarshal([]byte(inputsJSON), &p.Inputs); err != nil {
		return nil, fmt.Errorf("corrupt inputs for %s: %w", fromDate, err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &p.Results); err != nil {
		return nil, fmt.Errorf("corrupt results for %s: %w", fromDate, err)
	}
	return &p, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
