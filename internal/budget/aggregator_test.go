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

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

var _ = Describe("Aggregator", func() {
	var (
		ctx        context.Context
		budgets    *mockBudgetRepository
		expenses   *mockExpenseSource
		m          *metrics.Metrics
		aggregator *budget.Aggregator
		viewer     *rbac.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		m = metrics.New(prometheus.NewRegistry())
		budgets = newMockBudgetRepository()
		expenses = &mockExpenseSource{}
		aggregator = budget.NewAggregator(budgets, expenses, access.NewGuard(m, logger), m, logger)

		viewer = memberOf("viewer-1", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleViewer)

		Expect(budgets.Create(ctx, &budget.Budget{ID: "b-rent", CompanyID: "acme", Category: "rent", Amount: dec("1000"), Period: budget.PeriodMonthly, IsActive: true})).To(Succeed())
		Expect(budgets.Create(ctx, &budget.Budget{ID: "b-other", CompanyID: "globex", Category: "rent", Amount: dec("10"), Period: budget.PeriodMonthly, IsActive: true})).To(Succeed())
		expenses.expenses = []*expense.Expense{
			{ID: "e1", CompanyID: "acme", Category: "rent", Amount: dec("800"), Date: time.Now()},
			{ID: "e2", CompanyID: "globex", Category: "rent", Amount: dec("5000"), Date: time.Now()},
		}
	})

	It("computes progress for any member of the company", func() {
		progress, ok, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(progress).To(HaveLen(1))
		Expect(progress[0].Status).To(Equal(budget.StatusWarning))
		Expect(progress[0].CurrentSpending.Equal(dec("800"))).To(BeTrue())

		Expect(testutil.ToFloat64(m.BudgetProgressTotal.WithLabelValues("ok"))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.BudgetStatusTotal.WithLabelValues("warning"))).To(Equal(1.0))
	})

	It("is idempotent without intervening changes", func() {
		first, _, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(err).NotTo(HaveOccurred())
		second, _, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("recomputes on every call", func() {
		_, _, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(err).NotTo(HaveOccurred())

		expenses.mu.Lock()
		expenses.expenses = append(expenses.expenses, &expense.Expense{ID: "e3", CompanyID: "acme", Category: "rent", Amount: dec("400"), Date: time.Now()})
		expenses.mu.Unlock()

		progress, _, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(err).NotTo(HaveOccurred())
		Expect(progress[0].Status).To(Equal(budget.StatusExceeded))
		Expect(progress[0].Remaining.Equal(dec("-200"))).To(BeTrue())
		Expect(expenses.calls).To(Equal(2))
	})

	DescribeTable("denials look like an empty company",
		func(u func() *rbac.User, companyID string) {
			progress, ok, err := aggregator.BudgetProgress(ctx, u(), companyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(progress).NotTo(BeNil())
			Expect(progress).To(BeEmpty())
		},
		Entry("no company selected", func() *rbac.User { return memberOf("v", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleViewer) }, ""),
		Entry("company without assignment", func() *rbac.User { return memberOf("v", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleViewer) }, "globex"),
		Entry("super admin", func() *rbac.User { return memberOf("sa", rbac.GlobalRoleSuperAdmin, "acme", rbac.CompanyRoleOwner) }, "acme"),
		Entry("nil user", func() *rbac.User { return nil }, "acme"),
		Entry("malformed company id", func() *rbac.User { return memberOf("v", rbac.GlobalRoleMember, "acme", rbac.CompanyRoleViewer) }, " acme"),
	)

	It("does not touch the stores when denied", func() {
		_, _, _ = aggregator.BudgetProgress(ctx, viewer, "globex")
		Expect(expenses.calls).To(BeZero())
	})

	It("wraps store failures", func() {
		expenses.shouldFail = true
		_, ok, err := aggregator.BudgetProgress(ctx, viewer, "acme")
		Expect(ok).To(BeFalse())
		appErr, isApp := internal.IsAppError(err)
		Expect(isApp).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
		Expect(testutil.ToFloat64(m.BudgetProgressTotal.WithLabelValues("error"))).To(Equal(1.0))
	})

	It("returns the context error when cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := aggregator.BudgetProgress(cctx, viewer, "acme")
		Expect(err).To(MatchError(context.Canceled))
	})

	Describe("Dashboard", func() {
		It("summarizes the company", func() {
			d, ok, err := aggregator.Dashboard(ctx, viewer, "acme")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(d.CompanyID).To(Equal("acme"))
			Expect(d.Summary.Warning).To(Equal(1))
			Expect(d.Budgets).To(HaveLen(1))
		})

		It("returns an empty summary for super admins", func() {
			sa := memberOf("sa", rbac.GlobalRoleSuperAdmin, "acme", rbac.CompanyRoleOwner)
			d, ok, err := aggregator.Dashboard(ctx, sa, "acme")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(d.Budgets).To(BeEmpty())
			Expect(d.Summary.TotalBudget.IsZero()).To(BeTrue())
		})
	})
})
