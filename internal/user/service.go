package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/access"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	ListAssignments(ctx context.Context, userID string) ([]rbac.CompanyAssignment, error)
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

// GetByID loads a user together with their company assignments.
func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	roles, err := s.repo.ListAssignments(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user company roles", err)
	}
	if roles == nil {
		roles = []rbac.CompanyAssignment{}
	}
	u.CompanyRoles = roles

	return u, nil
}

// Identity is the identity provider used by the auth middleware. Inactive
// accounts are refused.
func (s *Service) Identity(ctx context.Context, userID string) (*rbac.User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return u.Identity(), nil
}

// Profile returns the caller's own record.
func (s *Service) Profile(ctx context.Context, caller *rbac.User) (*User, error) {
	if !s.guard.Decide(ctx, caller, rbac.CapViewProfile, "").Allowed {
		return nil, internal.ErrAuthorizationDenied
	}
	return s.GetByID(ctx, caller.ID)
}

// Capabilities explains every capability of u for companyID.
func (s *Service) Capabilities(u *rbac.User, companyID string) CapabilitiesResponse {
	resp := CapabilitiesResponse{
		CompanyID: companyID,
		Matrix:    rbac.Matrix(u, companyID),
		Decisions: rbac.Explain(u, companyID),
	}
	if u != nil {
		resp.UserID = u.ID
	}
	return resp
}

// UserCapabilities is the operator view of another user's capabilities.
func (s *Service) UserCapabilities(ctx context.Context, caller *rbac.User, userID, companyID string) (CapabilitiesResponse, error) {
	if err := s.guard.Require(ctx, caller, rbac.CapViewSuperAdmin, "", nil); err != nil {
		return CapabilitiesResponse{}, err
	}

	target, err := s.GetByID(ctx, userID)
	if err != nil {
		return CapabilitiesResponse{}, err
	}

	s.logger.Info("capabilities inspected", "actor_id", caller.ID, "user_id", userID, "company_id", companyID)
	return s.Capabilities(target.Identity(), companyID), nil
}
