package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
)

// Guard is the capability check used by RequireCapability.
type Guard interface {
	Require(ctx context.Context, u *rbac.User, c rbac.Capability, companyID string, hidden *internal.AppError) error
}

// RequireCapability rejects requests whose identity lacks c. For company
// scoped capabilities the scope is read from the {companyID} URL param and
// companies the caller does not belong to answer 404.
func RequireCapability(guard Guard, base *transport.BaseHandler, c rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := base.Identity(w, r)
			if !ok {
				return
			}

			companyID := ""
			if c.RequiresScope() {
				companyID = chi.URLParam(r, "companyID")
			}

			if err := guard.Require(r.Context(), user, c, companyID, internal.ErrCompanyNotFound); err != nil {
				base.HandleServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
