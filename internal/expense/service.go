package expense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// Repository interface defines the data access methods for expenses
type Repository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id string) error
}

// Service handles expense business logic
type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

// NewService creates a new expense service
func NewService(repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// ListExpenses returns the company's expenses, or nothing when the caller may
// not see them.
func (s *Service) ListExpenses(ctx context.Context, u *rbac.User, companyID string) ([]*Expense, error) {
	if companyID == "" || !s.guard.Allowed(ctx, u, rbac.CapViewExpenses, companyID) {
		return []*Expense{}, nil
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	expenses, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

func (s *Service) CreateExpense(ctx context.Context, u *rbac.User, companyID string, dto CreateExpenseDTO) (*Expense, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		s.logger.Warn("expense validation failed", "error", appErr, "company_id", companyID)
		return nil, appErr
	}

	if err := s.guard.Require(ctx, u, rbac.CapManageExpenses, companyID, internal.ErrCompanyNotFound); err != nil {
		return nil, err
	}

	exp := NewExpense(companyID, u.ID, dto)

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.Create(ctx, exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", exp.ID,
		"company_id", companyID,
		"user_id", u.ID,
		"category", exp.Category,
		"amount", exp.Amount.String())

	return exp, nil
}

func (s *Service) DeleteExpense(ctx context.Context, u *rbac.User, companyID, id string) error {
	if err := s.guard.Require(ctx, u, rbac.CapManageExpenses, companyID, internal.ErrExpenseNotFound); err != nil {
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.CompanyID != companyID {
		return internal.ErrExpenseNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return err
	}

	s.logger.Info("expense deleted", "expense_id", id, "company_id", companyID, "user_id", u.ID)
	return nil
}
