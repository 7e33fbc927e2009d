/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile/web client
  5. Actor:      X-Actor-ID header into request context

ROUTE GROUPS:
  /api/employees/*      Employees, records, settlement, payments
  /api/advances/*       Advance approval workflow
  /api/scenarios/*      Demo scenarios
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware. The actor header is trusted as-is.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var defaultOrigins = []string{"http://localhost:8081", "http://localhost:19006"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = defaultOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ActorHeader},
		AllowCredentials: true,
	}))
	r.Use(actorMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/next-payday", h.GetNextPayday)

			r.Get("/{id}/advances", h.ListAdvances)
			r.Post("/{id}/advances", h.CreateAdvance)
			r.Get("/{id}/deductions", h.ListDeductions)
			r.Post("/{id}/deductions", h.CreateDeduction)
			r.Get("/{id}/absences", h.ListAbsences)
			r.Post("/{id}/absences", h.CreateAbsence)
			r.Get("/{id}/rewards", h.ListRewards)
			r.Post("/{id}/rewards", h.CreateReward)

			r.Get("/{id}/settlement", h.PreviewSettlement)
			r.Get("/{id}/payments", h.ListPayments)
			r.Post("/{id}/payments", h.PaySalary)

			r.Get("/{id}/notifications", h.ListNotifications)
		})

		// Advance workflow routes
		r.Route("/advances", func(r chi.Router) {
			r.Get("/{id}", h.GetAdvance)
			r.Post("/{id}/approve", h.ApproveAdvance)
			r.Post("/{id}/reject", h.RejectAdvance)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
