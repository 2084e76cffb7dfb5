package budget

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/core/events"
	"github.com/frahmantamala/expense-dashboard/internal/metrics"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// Repository interface defines the data access methods for budgets
type Repository interface {
	List(ctx context.Context, companyID string) ([]*Budget, error)
	GetByID(ctx context.Context, id string) (*Budget, error)
	Create(ctx context.Context, budget *Budget) error
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles budget CRUD. Every mutation is gated by manage_budgets.
type Service struct {
	repo      Repository
	guard     *access.Guard
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, guard *access.Guard, publisher EventPublisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		guard:     guard,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *Service) ListBudgets(ctx context.Context, u *rbac.User, companyID string) ([]*Budget, error) {
	if companyID == "" || !s.guard.Allowed(ctx, u, rbac.CapViewBudgets, companyID) {
		return []*Budget{}, nil
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	budgets, err := s.repo.List(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list budgets", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to list budgets", err)
	}
	return budgets, nil
}

func (s *Service) CreateBudget(ctx context.Context, u *rbac.User, dto CreateBudgetDTO) (b *Budget, err error) {
	defer func() { s.metrics.ObserveMutation("create", outcomeOf(err)) }()

	dto.Normalize()
	candidate := NewBudget("", dto)
	if appErr := candidate.Validate(); appErr != nil {
		s.logger.Warn("budget validation failed", "error", appErr, "company_id", dto.CompanyID)
		return nil, appErr
	}

	if err := s.guard.Require(ctx, u, rbac.CapManageBudgets, dto.CompanyID, internal.ErrCompanyNotFound); err != nil {
		return nil, err
	}
	candidate.CreatedBy = u.ID

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.Create(ctx, candidate); err != nil {
		s.logger.Error("failed to create budget", "error", err, "company_id", dto.CompanyID)
		return nil, internal.NewInternalError("failed to create budget", err)
	}

	s.logger.Info("budget created successfully",
		"budget_id", candidate.ID,
		"company_id", candidate.CompanyID,
		"user_id", u.ID,
		"category", candidate.Category,
		"amount", candidate.Amount.String())

	s.publish(ctx, events.EventTypeBudgetCreated, candidate, u.ID)
	return candidate, nil
}

func (s *Service) UpdateBudget(ctx context.Context, u *rbac.User, companyID, id string, patch UpdateBudgetDTO) (b *Budget, err error) {
	defer func() { s.metrics.ObserveMutation("update", outcomeOf(err)) }()

	existing, err := s.authorizedBudget(ctx, u, companyID, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(existing)
	if appErr := updated.Validate(); appErr != nil {
		s.logger.Warn("budget validation failed", "error", appErr, "budget_id", id)
		return nil, appErr
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("failed to update budget", "error", err, "budget_id", id)
		return nil, internal.NewInternalError("failed to update budget", err)
	}

	s.logger.Info("budget updated", "budget_id", id, "company_id", companyID, "user_id", u.ID)
	s.publish(ctx, events.EventTypeBudgetUpdated, updated, u.ID)
	return updated, nil
}

func (s *Service) DeleteBudget(ctx context.Context, u *rbac.User, companyID, id string) (err error) {
	defer func() { s.metrics.ObserveMutation("delete", outcomeOf(err)) }()

	existing, err := s.authorizedBudget(ctx, u, companyID, id)
	if err != nil {
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete budget", "error", err, "budget_id", id)
		return err
	}

	s.logger.Info("budget deleted", "budget_id", id, "company_id", companyID, "user_id", u.ID)
	s.publish(ctx, events.EventTypeBudgetDeleted, existing, u.ID)
	return nil
}

// authorizedBudget checks manage_budgets on companyID and loads the budget,
// which must belong to that company.
func (s *Service) authorizedBudget(ctx context.Context, u *rbac.User, companyID, id string) (*Budget, error) {
	if err := s.guard.Require(ctx, u, rbac.CapManageBudgets, companyID, internal.ErrBudgetNotFound); err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CompanyID != companyID {
		return nil, internal.ErrBudgetNotFound
	}
	return b, nil
}

func (s *Service) publish(ctx context.Context, eventType string, b *Budget, actorID string) {
	if s.publisher == nil {
		return
	}
	evt := events.NewBudgetEvent(eventType, b.ID, b.CompanyID, b.Category, b.Amount.StringFixed(2), actorID)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("failed to publish budget event", "error", err, "event_type", eventType, "budget_id", b.ID)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Type {
	case internal.ErrorTypeValidation:
		return "invalid"
	case internal.ErrorTypeForbidden:
		return "denied"
	case internal.ErrorTypeNotFound:
		return "not_found"
	default:
		return "error"
	}
}
