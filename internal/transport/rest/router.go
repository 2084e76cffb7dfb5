package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-dashboard/internal/auth"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	"github.com/frahmantamala/expense-dashboard/internal/category"
	"github.com/frahmantamala/expense-dashboard/internal/company"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
	"github.com/frahmantamala/expense-dashboard/internal/transport/middleware"
	"github.com/frahmantamala/expense-dashboard/internal/transport/swagger"
	"github.com/frahmantamala/expense-dashboard/internal/user"
)

// Dependencies groups everything the router mounts. Nil handlers leave
// their routes unregistered.
type Dependencies struct {
	DB              Pinger
	Guard           middleware.Guard
	Metrics         *metrics.Metrics
	MetricsPath     string
	AllowedOrigins  string
	OpenAPIPath     string
	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	CompanyHandler  *company.Handler
	BudgetHandler   *budget.Handler
	ExpenseHandler  *expense.Handler
	CategoryHandler *category.Handler
	Logger          *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB)
	base := transport.NewBaseHandler(deps.Logger)

	// Apply global middleware
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(base.Logger))
	router.Use(middleware.LoggingMiddleware(base.Logger))
	router.Use(deps.Metrics.Middleware)

	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, deps.Metrics.Handler())
	}

	openAPIPath := deps.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.CategoryHandler != nil {
			r.Get("/categories", deps.CategoryHandler.GetCategories)
		}

		if deps.AuthHandler == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", deps.AuthHandler.Login)
			sr.Post("/refresh", deps.AuthHandler.RefreshToken)
			sr.Post("/logout", deps.AuthHandler.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			if h := deps.UserHandler; h != nil {
				pr.Get("/users/me", h.GetCurrentUser)
				pr.Get("/users/me/capabilities", h.GetMyCapabilities)
				pr.With(middleware.RequireCapability(deps.Guard, base, rbac.CapViewSuperAdmin)).
					Get("/admin/users/{id}/capabilities", h.GetUserCapabilities)
			}

			pr.Route("/companies", func(cr chi.Router) {
				if h := deps.CompanyHandler; h != nil {
					cr.Get("/", h.ListCompanies)
					cr.Post("/", h.CreateCompany)
				}

				cr.Route("/{companyID}", func(sr chi.Router) {
					sr.Use(middleware.CompanyContext)

					if h := deps.CompanyHandler; h != nil {
						sr.Get("/", h.GetCompany)
						sr.Get("/members", h.ListMembers)
						sr.Put("/members/{userID}", h.AssignMember)
						sr.Delete("/members/{userID}", h.RemoveMember)
					}

					if h := deps.BudgetHandler; h != nil {
						sr.Get("/dashboard", h.GetDashboard)
						sr.Get("/budgets", h.ListBudgets)
						sr.Post("/budgets", h.CreateBudget)
						sr.Get("/budgets/progress", h.GetProgress)
						sr.Patch("/budgets/{id}", h.UpdateBudget)
						sr.Delete("/budgets/{id}", h.DeleteBudget)
					}

					if h := deps.ExpenseHandler; h != nil {
						sr.Get("/expenses", h.ListExpenses)
						sr.Post("/expenses", h.CreateExpense)
						sr.Delete("/expenses/{id}", h.DeleteExpense)
					}
				})
			})
		})
	})
}
