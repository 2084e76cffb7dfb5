package company

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/transport"
	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

type ServiceAPI interface {
	ListCompanies(ctx context.Context, u *rbac.User) ([]*Company, error)
	GetCompany(ctx context.Context, u *rbac.User, id string) (*Company, error)
	CreateCompany(ctx context.Context, u *rbac.User, dto CreateCompanyDTO) (*Company, error)
	ListMembers(ctx context.Context, u *rbac.User, companyID string) ([]*Member, error)
	AssignMember(ctx context.Context, u *rbac.User, companyID, userID string, dto AssignMemberDTO) (*Member, error)
	RemoveMember(ctx context.Context, u *rbac.User, companyID, userID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListCompanies handles GET /companies
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	companies, err := h.Service.ListCompanies(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CompaniesResponse{Companies: companies})
}

// CreateCompany handles POST /companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto CreateCompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateCompany: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateCompany(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// GetCompany handles GET /companies/{companyID}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	c, err := h.Service.GetCompany(r.Context(), user, chi.URLParam(r, "companyID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// ListMembers handles GET /companies/{companyID}/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	companyID := chi.URLParam(r, "companyID")
	members, err := h.Service.ListMembers(r.Context(), user, companyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MembersResponse{CompanyID: companyID, Members: members})
}

// AssignMember handles PUT /companies/{companyID}/members/{userID}
func (h *Handler) AssignMember(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto AssignMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignMember: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.AssignMember(r.Context(), user, chi.URLParam(r, "companyID"), chi.URLParam(r, "userID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, m)
}

// RemoveMember handles DELETE /companies/{companyID}/members/{userID}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.RemoveMember(r.Context(), user, chi.URLParam(r, "companyID"), chi.URLParam(r, "userID")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
