package budget

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
	ListBudgets(ctx context.Context, u *rbac.User, companyID string) ([]*Budget, error)
	CreateBudget(ctx context.Context, u *rbac.User, dto CreateBudgetDTO) (*Budget, error)
	UpdateBudget(ctx context.Context, u *rbac.User, companyID, id string, patch UpdateBudgetDTO) (*Budget, error)
	DeleteBudget(ctx context.Context, u *rbac.User, companyID, id string) error
}

type AggregatorAPI interface {
	BudgetProgress(ctx context.Context, u *rbac.User, companyID string) ([]Progress, bool, error)
	Dashboard(ctx context.Context, u *rbac.User, companyID string) (*DashboardResponse, bool, error)
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	Aggregator AggregatorAPI
}

func NewHandler(service ServiceAPI, aggregator AggregatorAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Aggregator:  aggregator,
	}
}

// ListBudgets handles GET /companies/{companyID}/budgets
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	companyID := chi.URLParam(r, "companyID")
	budgets, err := h.Service.ListBudgets(r.Context(), user, companyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BudgetsResponse{CompanyID: companyID, Budgets: budgets})
}

// CreateBudget handles POST /companies/{companyID}/budgets
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto CreateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBudget: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.CompanyID = chi.URLParam(r, "companyID")

	b, err := h.Service.CreateBudget(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, b)
}

// UpdateBudget handles PATCH /companies/{companyID}/budgets/{id}
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var patch UpdateBudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.Logger.Error("UpdateBudget: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.UpdateBudget(r.Context(), user, chi.URLParam(r, "companyID"), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b)
}

// DeleteBudget handles DELETE /companies/{companyID}/budgets/{id}
func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteBudget(r.Context(), user, chi.URLParam(r, "companyID"), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProgress handles GET /companies/{companyID}/budgets/progress. A denied
// caller gets the same 200 with an empty list.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	companyID := chi.URLParam(r, "companyID")
	progress, _, err := h.Aggregator.BudgetProgress(r.Context(), user, companyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ProgressResponse{CompanyID: companyID, Budgets: progress})
}

// GetDashboard handles GET /companies/{companyID}/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	dashboard, _, err := h.Aggregator.Dashboard(r.Context(), user, chi.URLParam(r, "companyID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}
