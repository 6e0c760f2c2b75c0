package rest

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/symplora/leave-management/internal"
	"github.com/symplora/leave-management/internal/auth"
	"github.com/symplora/leave-management/internal/employee"
	"github.com/symplora/leave-management/internal/leave"
	"github.com/symplora/leave-management/internal/policy"
	"github.com/symplora/leave-management/internal/transport/middleware"
	"github.com/symplora/leave-management/internal/transport/swagger"
	"github.com/symplora/leave-management/pkg/logger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Employee *employee.Handler
	Leave    *leave.Handler
	Policy   *policy.Handler
	Auth     *auth.Handler
	Tokens   *auth.TokenManager
	DB       *sql.DB
	OpenAPI  []byte
}

// NewRouter assembles the chi router with the shared middleware stack and the
// full API surface under /api.
func NewRouter(cfg *internal.Config, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger.L()))
	r.Use(middleware.Logging(logger.L()))

	health := NewHealthHandler(h.DB)
	r.Get("/ping", health.pingHandler)
	r.Get("/health", health.healthCheckHandler)

	r.Get("/openapi.yml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(h.OpenAPI)
	})
	r.Mount("/swagger", swagger.Handler())

	r.Route("/api", func(r chi.Router) {
		// Throttle the API surface only; health probes stay unthrottled.
		if cfg.Server.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
		}

		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)

		r.Route("/employees", func(r chi.Router) {
			r.Post("/", h.Employee.CreateEmployee)
			r.Get("/", h.Employee.ListEmployees)
			r.Get("/stats/department", h.Employee.DepartmentStats)
			r.Get("/{id}", h.Employee.GetEmployee)
			r.Get("/{id}/leave-balance", h.Employee.LeaveBalance)
			r.Get("/{id}/leave-requests", h.Leave.EmployeeLeaveRequests)

			// Manual ledger corrections need an authenticated HR or admin.
			r.With(auth.Middleware(h.Tokens, auth.RoleAdmin, auth.RoleHR)).
				Put("/{id}/leave-balance", h.Employee.AdjustBalance)
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Post("/", h.Leave.SubmitLeave)
			r.Get("/", h.Leave.ListLeaveRequests)
			r.Get("/stats/overview", h.Leave.StatsOverview)
			r.Get("/{id}", h.Leave.GetLeaveRequest)
			r.Put("/{id}/approve", h.Leave.ApproveLeave)
			r.Put("/{id}/reject", h.Leave.RejectLeave)
			r.Put("/{id}/cancel", h.Leave.CancelLeave)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", h.Policy.ListPolicies)
			r.Get("/{leaveType}", h.Policy.GetPolicy)
		})
	})

	return r
}
