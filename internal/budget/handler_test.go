package budget_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

var _ = Describe("Budget Handler", func() {
	var (
		router  chi.Router
		repo    *mockBudgetRepository
		admin   *rbac.User
		outside *rbac.User
	)

	do := func(u *rbac.User, method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if u != nil {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), u))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		guard := access.NewGuard(nil, logger)
		repo = newMockBudgetRepository()
		source := &mockExpenseSource{expenses: []*expense.Expense{
			{ID: "e1", CompanyID: "acme", Category: "rent", Amount: dec("1200"), Date: time.Now()},
		}}

		h := budget.NewHandler(
			budget.NewService(repo, guard, nil, nil, logger),
			budget.NewAggregator(repo, source, guard, nil, logger),
		)

		router = chi.NewRouter()
		router.Route("/companies/{companyID}", func(r chi.Router) {
			r.Get("/budgets", h.ListBudgets)
			r.Post("/budgets", h.CreateBudget)
			r.Get("/budgets/progress", h.GetProgress)
			r.Patch("/budgets/{id}", h.UpdateBudget)
			r.Delete("/budgets/{id}", h.DeleteBudget)
			r.Get("/dashboard", h.GetDashboard)
		})

		admin = memberOf("admin-1", rbac.GlobalRoleCompanyAdmin, "acme", rbac.CompanyRoleAdmin)
		outside = memberOf("outsider", rbac.GlobalRoleCompanyAdmin, "globex", rbac.CompanyRoleAdmin)
	})

	It("requires an identity", func() {
		w := do(nil, http.MethodGet, "/companies/acme/budgets", "")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("creates a budget from the URL company and reports progress", func() {
		w := do(admin, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"1000","company_id":"globex"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created budget.Budget
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.CompanyID).To(Equal("acme"))

		w = do(admin, http.MethodGet, "/companies/acme/budgets/progress", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			CompanyID string `json:"company_id"`
			Budgets   []struct {
				Status         string  `json:"status"`
				PercentageUsed float64 `json:"percentage_used"`
				Remaining      string  `json:"remaining"`
			} `json:"budgets"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.CompanyID).To(Equal("acme"))
		Expect(resp.Budgets).To(HaveLen(1))
		Expect(resp.Budgets[0].Status).To(Equal("exceeded"))
		Expect(resp.Budgets[0].PercentageUsed).To(Equal(120.0))
		Expect(resp.Budgets[0].Remaining).To(Equal("-200"))
	})

	It("answers a denied progress read like an empty company", func() {
		w := do(admin, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"1000"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		denied := do(outside, http.MethodGet, "/companies/acme/budgets/progress", "")
		empty := do(admin, http.MethodGet, "/companies/initech/budgets/progress", "")

		Expect(denied.Code).To(Equal(http.StatusOK))
		Expect(denied.Body.String()).To(MatchJSON(`{"company_id":"acme","budgets":[]}`))
		Expect(empty.Body.String()).To(MatchJSON(`{"company_id":"initech","budgets":[]}`))
	})

	It("maps validation and authorization failures", func() {
		w := do(admin, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"0"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("MALFORMED_BUDGET"))

		w = do(admin, http.MethodPost, "/companies/acme/budgets", `{not json`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = do(outside, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"10"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		viewer := memberOf("viewer", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleViewer)
		w = do(viewer, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"10"}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("updates and deletes", func() {
		b := budget.NewBudget("admin-1", budget.CreateBudgetDTO{CompanyID: "acme", Category: "water", Amount: dec("10"), Period: "monthly"})
		Expect(repo.Create(context.Background(), b)).To(Succeed())

		w := do(admin, http.MethodPatch, "/companies/acme/budgets/"+b.ID, `{"amount":"25.50"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"amount":"25.5"`))

		w = do(admin, http.MethodDelete, "/companies/acme/budgets/"+b.ID, "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(admin, http.MethodDelete, "/companies/acme/budgets/"+b.ID, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("serves the dashboard summary", func() {
		w := do(admin, http.MethodPost, "/companies/acme/budgets", `{"category":"rent","amount":"1000"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(admin, http.MethodGet, "/companies/acme/dashboard", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var d budget.DashboardResponse
		Expect(json.NewDecoder(w.Body).Decode(&d)).To(Succeed())
		Expect(d.Summary.Exceeded).To(Equal(1))
		Expect(d.Summary.TotalSpending.Equal(dec("1200"))).To(BeTrue())
	})
})
