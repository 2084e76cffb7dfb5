package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// User represents the internal user model
type User struct {
	ID           string                   `json:"id" db:"id"`
	Email        string                   `json:"email" db:"email"`
	Name         string                   `json:"name" db:"name"`
	PasswordHash string                   `json:"-" db:"password_hash"` // Never expose password hash
	GlobalRole   rbac.GlobalRole          `json:"global_role" db:"global_role"`
	IsActive     bool                     `json:"is_active" db:"is_active"`
	CompanyRoles []rbac.CompanyAssignment `json:"company_roles" db:"-"`
	CreatedAt    time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at" db:"updated_at"`
}

// Identity projects the user onto the value the resolver evaluates.
func (u *User) Identity() *rbac.User {
	roles := make([]rbac.CompanyAssignment, len(u.CompanyRoles))
	copy(roles, u.CompanyRoles)
	return &rbac.User{
		ID:           u.ID,
		Email:        u.Email,
		GlobalRole:   rbac.ParseGlobalRole(string(u.GlobalRole)),
		CompanyRoles: roles,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		GlobalRole:   string(u.GlobalRole),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		GlobalRole:   rbac.ParseGlobalRole(u.GlobalRole),
		IsActive:     u.IsActive,
		CompanyRoles: []rbac.CompanyAssignment{},
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type CapabilitiesResponse struct {
	UserID    string                   `json:"user_id"`
	CompanyID string                   `json:"company_id,omitempty"`
	Matrix    map[rbac.Capability]bool `json:"matrix"`
	Decisions []rbac.Decision          `json:"decisions"`
}
