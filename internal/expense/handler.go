package expense

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
	ListExpenses(ctx context.Context, u *rbac.User, companyID string) ([]*Expense, error)
	CreateExpense(ctx context.Context, u *rbac.User, companyID string, dto CreateExpenseDTO) (*Expense, error)
	DeleteExpense(ctx context.Context, u *rbac.User, companyID, id string) error
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

// ListExpenses handles GET /companies/{companyID}/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	companyID := chi.URLParam(r, "companyID")
	expenses, err := h.Service.ListExpenses(r.Context(), user, companyID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ExpensesResponse{CompanyID: companyID, Expenses: expenses})
}

// CreateExpense handles POST /companies/{companyID}/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.CreateExpense(r.Context(), user, chi.URLParam(r, "companyID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

// DeleteExpense handles DELETE /companies/{companyID}/expenses/{id}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	user, ok := h.Identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), user, chi.URLParam(r, "companyID"), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
