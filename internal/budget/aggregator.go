package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// ExpenseSource is the read-only expense store the aggregator depends on.
type ExpenseSource interface {
	ListByCompany(ctx context.Context, companyID string) ([]*expense.Expense, error)
}

// Aggregator computes budget progress for a company. It never writes.
type Aggregator struct {
	budgets  Repository
	expenses ExpenseSource
	guard    *access.Guard
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewAggregator(budgets Repository, expenses ExpenseSource, guard *access.Guard, m *metrics.Metrics, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		budgets:  budgets,
		expenses: expenses,
		guard:    guard,
		metrics:  m,
		logger:   logger,
	}
}

// BudgetProgress returns the progress of every budget in companyID. The bool
// is false when the caller may not view budgets there or no company was
// given; the slice is then empty, the same shape as a company with no
// budgets.
func (a *Aggregator) BudgetProgress(ctx context.Context, u *rbac.User, companyID string) ([]Progress, bool, error) {
	start := time.Now()

	if companyID == "" || !a.guard.Allowed(ctx, u, rbac.CapViewBudgets, companyID) {
		a.metrics.ObserveProgress("denied", time.Since(start))
		return []Progress{}, false, nil
	}

	progress, err := a.load(ctx, companyID)
	if err != nil {
		a.metrics.ObserveProgress("error", time.Since(start))
		return nil, false, err
	}

	statuses := make([]string, len(progress))
	for i, p := range progress {
		statuses[i] = string(p.Status)
	}
	a.metrics.ObserveProgress("ok", time.Since(start), statuses...)

	return progress, true, nil
}

// Dashboard summarises budget progress for the dashboard view.
func (a *Aggregator) Dashboard(ctx context.Context, u *rbac.User, companyID string) (*DashboardResponse, bool, error) {
	empty := &DashboardResponse{CompanyID: companyID, Summary: Summarize(nil), Budgets: []Progress{}}

	if companyID == "" || !a.guard.Allowed(ctx, u, rbac.CapViewDashboard, companyID) {
		return empty, false, nil
	}

	progress, ok, err := a.BudgetProgress(ctx, u, companyID)
	if err != nil || !ok {
		return empty, ok, err
	}

	return &DashboardResponse{
		CompanyID: companyID,
		Summary:   Summarize(progress),
		Budgets:   progress,
	}, true, nil
}

func (a *Aggregator) load(ctx context.Context, companyID string) ([]Progress, error) {
	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	var (
		budgets  []*Budget
		expenses []*expense.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = a.budgets.List(gctx, companyID)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = a.expenses.ListByCompany(gctx, companyID)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		a.logger.ErrorContext(ctx, "failed to load budget progress", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to load budget progress", err)
	}

	return Compute(budgets, expenses), nil
}
