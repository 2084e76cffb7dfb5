package middleware

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

// CompanyContext tags the request logger with the company the route is
// scoped to. It must be mounted inside a route that declares {companyID}.
func CompanyContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		companyID := chi.URLParam(r, "companyID")
		if companyID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "company_id", companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
