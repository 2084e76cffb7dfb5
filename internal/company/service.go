package company

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

type Repository interface {
	ListForUser(ctx context.Context, userID string) ([]*Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	CreateWithOwner(ctx context.Context, c *Company, owner *Member) error

	ListMembers(ctx context.Context, companyID string) ([]*Member, error)
	GetMember(ctx context.Context, companyID, userID string) (*Member, error)

	// AssignMember inserts or re-roles m and RemoveMember deletes the row.
	// Both check that the company keeps an owner in the same transaction as
	// the write, and return ErrLastOwner otherwise.
	AssignMember(ctx context.Context, m *Member) (*Member, error)
	RemoveMember(ctx context.Context, companyID, userID string) error

	// UserGlobalRole returns the stored global role of userID.
	UserGlobalRole(ctx context.Context, userID string) (rbac.GlobalRole, error)
}

type Service struct {
	repo   Repository
	guard  *access.Guard
	logger *slog.Logger
}

func NewService(repo Repository, guard *access.Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// ListCompanies returns the companies u holds an assignment in.
func (s *Service) ListCompanies(ctx context.Context, u *rbac.User) ([]*Company, error) {
	if u == nil || !s.guard.Allowed(ctx, u, rbac.CapViewCompanies, "") {
		return []*Company{}, nil
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	companies, err := s.repo.ListForUser(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to list companies", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to list companies", err)
	}
	return companies, nil
}

func (s *Service) GetCompany(ctx context.Context, u *rbac.User, id string) (*Company, error) {
	if !s.guard.Allowed(ctx, u, rbac.CapViewCompanies, id) {
		return nil, internal.ErrCompanyNotFound
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	return s.repo.GetByID(ctx, id)
}

// CreateCompany creates a company and makes the caller its owner.
func (s *Service) CreateCompany(ctx context.Context, u *rbac.User, dto CreateCompanyDTO) (*Company, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	if err := s.guard.Require(ctx, u, rbac.CapManageCompanies, "", nil); err != nil {
		return nil, err
	}

	c := NewCompany(u.ID, dto)
	owner := &Member{UserID: u.ID, CompanyID: c.ID, Role: rbac.CompanyRoleOwner, JoinedAt: c.CreatedAt}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.CreateWithOwner(ctx, c, owner); err != nil {
		s.logger.Error("failed to create company", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", c.ID, "user_id", u.ID, "currency", c.Currency)
	return c, nil
}

func (s *Service) ListMembers(ctx context.Context, u *rbac.User, companyID string) ([]*Member, error) {
	if companyID == "" || !s.guard.Allowed(ctx, u, rbac.CapViewUsers, companyID) {
		return []*Member{}, nil
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	members, err := s.repo.ListMembers(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to list members", "error", err, "company_id", companyID)
		return nil, internal.NewInternalError("failed to list members", err)
	}
	return members, nil
}

// AssignMember adds userID to the company or changes their role. Owner only.
func (s *Service) AssignMember(ctx context.Context, u *rbac.User, companyID, userID string, dto AssignMemberDTO) (*Member, error) {
	role, err := rbac.ParseCompanyRoleStrict(dto.Role)
	if err != nil {
		return nil, internal.NewValidationFieldError("role", err.Error(), internal.ErrCodeInvalidRole)
	}

	if err := s.guard.Require(ctx, u, rbac.CapManageUsers, companyID, internal.ErrCompanyNotFound); err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	global, err := s.repo.UserGlobalRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	if global == rbac.GlobalRoleSuperAdmin {
		s.logger.Warn("rejected company role for super admin", "company_id", companyID, "user_id", userID, "actor_id", u.ID)
		return nil, internal.ErrSuperAdminMember
	}

	m, err := s.repo.AssignMember(ctx, &Member{UserID: userID, CompanyID: companyID, Role: role})
	if err != nil {
		if internal.IsCode(err, internal.ErrCodeLastOwner) {
			s.logger.Warn("refused to demote last owner", "company_id", companyID, "user_id", userID, "actor_id", u.ID)
			return nil, err
		}
		s.logger.Error("failed to assign member", "error", err, "company_id", companyID, "user_id", userID)
		return nil, internal.NewInternalError("failed to assign member", err)
	}

	s.logger.Info("member role assigned", "company_id", companyID, "user_id", userID, "role", role, "actor_id", u.ID)
	return m, nil
}

func (s *Service) RemoveMember(ctx context.Context, u *rbac.User, companyID, userID string) error {
	if err := s.guard.Require(ctx, u, rbac.CapManageUsers, companyID, internal.ErrCompanyNotFound); err != nil {
		return err
	}

	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	if err := s.repo.RemoveMember(ctx, companyID, userID); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			s.logger.Warn("member not removed", "error", err, "company_id", companyID, "user_id", userID, "actor_id", u.ID)
			return err
		}
		s.logger.Error("failed to remove member", "error", err, "company_id", companyID, "user_id", userID)
		return internal.NewInternalError("failed to remove member", err)
	}

	s.logger.Info("member removed", "company_id", companyID, "user_id", userID, "actor_id", u.ID)
	return nil
}
