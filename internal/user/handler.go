package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

type ServiceAPI interface {
	Profile(ctx context.Context, caller *rbac.User) (*User, error)
	Capabilities(u *rbac.User, companyID string) CapabilitiesResponse
	UserCapabilities(ctx context.Context, caller *rbac.User, userID, companyID string) (CapabilitiesResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Identity(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Profile(r.Context(), caller)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetMyCapabilities handles GET /users/me/capabilities?company_id=
func (h *Handler) GetMyCapabilities(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Identity(w, r)
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Capabilities(caller, r.URL.Query().Get("company_id")))
}

// GetUserCapabilities handles GET /admin/users/{id}/capabilities?company_id=
func (h *Handler) GetUserCapabilities(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.Identity(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.UserCapabilities(r.Context(), caller, chi.URLParam(r, "id"), r.URL.Query().Get("company_id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
