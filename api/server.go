/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/periods/*    Pay period resolution
  /api/employees/*  Employees, clock actions, timecards
  /api/payroll/*    Preview / finalize / fetch payroll runs
  /api/reports/*    YTD and quarterly rollups

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/current", h.GetCurrentPeriod)
			r.Get("/pay-date", h.GetPayDate)
			r.Get("/{year}", h.GetYearlyPeriods)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Post("/{id}/clock-in", h.ClockIn)
			r.Post("/{id}/clock-out", h.ClockOut)
			r.Get("/{id}/days/{date}", h.GetDaySummary)
			r.Get("/{id}/timecard", h.GetTimecard)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/", h.FinalizePayroll)
			r.Post("/preview", h.PreviewPayroll)
			r.Get("/{from}", h.GetPayroll)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/ytd", h.GetYtdReport)
			r.Get("/quarterly", h.GetQuarterlyReport)
		})
	})

	return r
}
