package budget_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/core/events"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

var _ = Describe("Budget Service", func() {
	var (
		ctx       context.Context
		repo      *mockBudgetRepository
		publisher *recordingPublisher
		m         *metrics.Metrics
		service   *budget.Service
		admin     *rbac.User
		manager   *rbac.User
		dto       budget.CreateBudgetDTO
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		m = metrics.New(prometheus.NewRegistry())
		repo = newMockBudgetRepository()
		publisher = &recordingPublisher{}
		service = budget.NewService(repo, access.NewGuard(m, logger), publisher, m, logger)

		admin = memberOf("admin-1", rbac.GlobalRoleCompanyAdmin, "acme", rbac.CompanyRoleAdmin)
		manager = memberOf("manager-1", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleManager)

		dto = budget.CreateBudgetDTO{
			CompanyID: "acme",
			Category:  "Rent",
			Amount:    decimal.NewFromInt(1000),
		}
	})

	Describe("CreateBudget", func() {
		It("creates a monthly active budget by default", func() {
			b, err := service.CreateBudget(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Category).To(Equal("rent"))
			Expect(b.Period).To(Equal(budget.PeriodMonthly))
			Expect(b.IsActive).To(BeTrue())
			Expect(b.CreatedBy).To(Equal("admin-1"))
			Expect(repo.budgets).To(HaveKey(b.ID))

			Expect(publisher.types()).To(Equal([]string{events.EventTypeBudgetCreated}))
			Expect(testutil.ToFloat64(m.BudgetMutationsTotal.WithLabelValues("create", "success"))).To(Equal(1.0))
		})

		DescribeTable("rejects malformed budgets before authorization",
			func(mutate func(*budget.CreateBudgetDTO), field string) {
				mutate(&dto)
				_, err := service.CreateBudget(ctx, admin, dto)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedBudget))
				Expect(appErr.StatusCode).To(Equal(400))

				details, ok := appErr.Details.(internal.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors).To(ContainElement(HaveField("Field", field)))
				Expect(repo.budgets).To(BeEmpty())
			},
			Entry("zero amount", func(d *budget.CreateBudgetDTO) { d.Amount = decimal.Zero }, "amount"),
			Entry("negative amount", func(d *budget.CreateBudgetDTO) { d.Amount = decimal.NewFromInt(-5) }, "amount"),
			Entry("sub-cent amount", func(d *budget.CreateBudgetDTO) { d.Amount = decimal.RequireFromString("0.004") }, "amount"),
			Entry("amount that would round", func(d *budget.CreateBudgetDTO) { d.Amount = decimal.RequireFromString("10.005") }, "amount"),
			Entry("missing category", func(d *budget.CreateBudgetDTO) { d.Category = "" }, "category"),
			Entry("unknown category", func(d *budget.CreateBudgetDTO) { d.Category = "coffee" }, "category"),
			Entry("missing company", func(d *budget.CreateBudgetDTO) { d.CompanyID = "" }, "company_id"),
			Entry("unknown period", func(d *budget.CreateBudgetDTO) { d.Period = "weekly" }, "period"),
			Entry("end before start", func(d *budget.CreateBudgetDTO) {
				start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
				end := start.AddDate(0, 0, -1)
				d.StartDate, d.EndDate = &start, &end
			}, "end_date"),
		)

		It("forbids roles below admin", func() {
			_, err := service.CreateBudget(ctx, manager, dto)
			Expect(internal.IsCode(err, internal.ErrCodeAuthorizationDenied)).To(BeTrue())
			Expect(publisher.types()).To(BeEmpty())
			Expect(testutil.ToFloat64(m.BudgetMutationsTotal.WithLabelValues("create", "denied"))).To(Equal(1.0))
		})

		It("forbids super admins even with a company row", func() {
			sa := memberOf("sa", rbac.GlobalRoleSuperAdmin, "acme", rbac.CompanyRoleOwner)
			_, err := service.CreateBudget(ctx, sa, dto)
			Expect(internal.IsCode(err, internal.ErrCodeAuthorizationDenied)).To(BeTrue())
		})

		It("hides companies the caller does not belong to", func() {
			dto.CompanyID = "globex"
			_, err := service.CreateBudget(ctx, admin, dto)
			Expect(err).To(Equal(internal.ErrCompanyNotFound))
		})

		It("lets a company owner manage through the per-company role", func() {
			owner := memberOf("owner-1", rbac.GlobalRoleCompanyOwner, "acme", rbac.CompanyRoleOwner)
			_, err := service.CreateBudget(ctx, owner, dto)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("ListBudgets", func() {
		It("lists for members and returns empty for others", func() {
			_, err := service.CreateBudget(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListBudgets(ctx, manager, "acme")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			list, err = service.ListBudgets(ctx, manager, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})
	})

	Describe("UpdateBudget", func() {
		var existing *budget.Budget

		BeforeEach(func() {
			var err error
			existing, err = service.CreateBudget(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("applies a partial patch", func() {
			amount := decimal.NewFromInt(1500)
			period := "Quarterly"
			updated, err := service.UpdateBudget(ctx, admin, "acme", existing.ID, budget.UpdateBudgetDTO{Amount: &amount, Period: &period})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Amount.Equal(amount)).To(BeTrue())
			Expect(updated.Period).To(Equal(budget.PeriodQuarterly))
			Expect(updated.Category).To(Equal("rent"))
			Expect(publisher.types()).To(ContainElement(events.EventTypeBudgetUpdated))
		})

		It("clears the window", func() {
			start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
			updated, err := service.UpdateBudget(ctx, admin, "acme", existing.ID, budget.UpdateBudgetDTO{StartDate: &start, EndDate: &end})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.HasWindow()).To(BeTrue())

			updated, err = service.UpdateBudget(ctx, admin, "acme", existing.ID, budget.UpdateBudgetDTO{ClearEndDate: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.EndDate).To(BeNil())
			Expect(updated.HasWindow()).To(BeFalse())
		})

		It("re-validates the patched budget", func() {
			zero := decimal.Zero
			_, err := service.UpdateBudget(ctx, admin, "acme", existing.ID, budget.UpdateBudgetDTO{Amount: &zero})
			Expect(internal.IsCode(err, internal.ErrCodeMalformedBudget)).To(BeTrue())
		})

		It("does not reach budgets through another company", func() {
			other := &rbac.User{ID: "x", GlobalRole: rbac.GlobalRoleCompanyAdmin, CompanyRoles: []rbac.CompanyAssignment{
				{CompanyID: "acme", Role: rbac.CompanyRoleViewer},
				{CompanyID: "globex", Role: rbac.CompanyRoleAdmin},
			}}
			_, err := service.UpdateBudget(ctx, other, "globex", existing.ID, budget.UpdateBudgetDTO{})
			Expect(err).To(Equal(internal.ErrBudgetNotFound))
		})
	})

	Describe("DeleteBudget", func() {
		It("hard deletes and publishes", func() {
			existing, err := service.CreateBudget(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteBudget(ctx, manager, "acme", existing.ID)).To(MatchError(internal.ErrAuthorizationDenied))
			Expect(service.DeleteBudget(ctx, admin, "acme", existing.ID)).To(Succeed())
			Expect(repo.budgets).To(BeEmpty())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeBudgetCreated, events.EventTypeBudgetDeleted}))

			Expect(service.DeleteBudget(ctx, admin, "acme", existing.ID)).To(Equal(internal.ErrBudgetNotFound))
		})
	})
})
