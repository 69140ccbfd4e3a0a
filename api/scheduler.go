/*
scheduler.go - Auto-enrollment scheduler

PURPOSE:
  Periodically pre-populates the upcoming pay period's time entries for
  every employee with a declared weekly schedule. The generated punches
  are ordinary closed punches that operators can edit before finalize.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Targets the period after the one containing today
  - Skips employees who already have punches in the target period, so
    repeated checks never duplicate entries
  - Skips weekends (by schedule shape) and federal holidays (PunchesFor)

USAGE:
  scheduler := NewEnrollmentScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - payroll/schedule.go: WeeklySchedule.PunchesFor
  - payroll/period.go:   Period resolution driving the target period
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// EnrollmentScheduler pre-populates future punches from weekly schedules.
type EnrollmentScheduler struct {
	Store         payroll.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewEnrollmentScheduler creates a new scheduler.
func NewEnrollmentScheduler(store payroll.Store) *EnrollmentScheduler {
	return &EnrollmentScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (es *EnrollmentScheduler) Start() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if !es.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	es.ticker = time.NewTicker(es.CheckInterval)
	es.wg.Add(1)

	go es.run()

	log.Printf("[Scheduler] Started with check interval: %v", es.CheckInterval)
}

// Stop stops the scheduler.
func (es *EnrollmentScheduler) Stop() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.ticker != nil {
		es.ticker.Stop()
		close(es.stop)
		es.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (es *EnrollmentScheduler) run() {
	defer es.wg.Done()

	// Run immediately on start
	es.checkAndEnroll()

	for {
		select {
		case <-es.ticker.C:
			es.checkAndEnroll()
		case <-es.stop:
			return
		}
	}
}

func (es *EnrollmentScheduler) checkAndEnroll() {
	ctx := context.Background()
	target := payroll.PeriodContaining(payroll.Today()).Next()

	employees, err := es.Store.ListEmployees(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing employees: %v", err)
		return
	}

	enrolledCount := 0
	skippedCount := 0

	for _, emp := range employees {
		if len(emp.Schedule) == 0 {
			continue
		}

		existing, err := es.Store.PunchesInRange(ctx, emp.ID, target.Start, target.End)
		if err != nil {
			log.Printf("[Scheduler] Error checking punches for %s: %v", emp.ID, err)
			continue
		}
		if len(existing) > 0 {
			// Already enrolled for this period
			skippedCount++
			continue
		}

		if err := es.enroll(ctx, emp, target); err != nil {
			log.Printf("[Scheduler] Error enrolling %s for %s: %v", emp.ID, target, err)
		} else {
			enrolledCount++
		}
	}

	if enrolledCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Completed %s: %d enrolled, %d skipped (already enrolled)",
			target, enrolledCount, skippedCount)
	}
}

func (es *EnrollmentScheduler) enroll(ctx context.Context, emp payroll.Employee, period payroll.PayPeriod) error {
	punches, err := emp.Schedule.PunchesFor(emp.ID, period)
	if err != nil {
		return err
	}

	for _, punch := range punches {
		if err := es.Store.AddPunch(ctx, punch); err != nil {
			return err
		}
	}

	log.Printf("[Scheduler] Enrolled %s: %d punches for %s", emp.ID, len(punches), period)
	return nil
}

// RunNow triggers an immediate check (for testing/admin).
func (es *EnrollmentScheduler) RunNow() {
	es.checkAndEnroll()
}
