package rbac

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// GlobalRole is the account-wide role carried on every identity.
type GlobalRole string

const (
	GlobalRoleSuperAdmin   GlobalRole = "super_admin"
	GlobalRoleCompanyOwner GlobalRole = "company_owner"
	GlobalRoleCompanyAdmin GlobalRole = "company_admin"
	GlobalRoleMember       GlobalRole = "member"
)

// CompanyRole is the role a user holds inside one company.
type CompanyRole string

const (
	CompanyRoleOwner   CompanyRole = "owner"
	CompanyRoleAdmin   CompanyRole = "admin"
	CompanyRoleManager CompanyRole = "manager"
	CompanyRoleMember  CompanyRole = "member"
	CompanyRoleViewer  CompanyRole = "viewer"
)

// maxCompanyIDLength bounds company identifiers accepted as a scope.
const maxCompanyIDLength = 64

// CompanyAssignment links a user to a company with a role.
type CompanyAssignment struct {
	CompanyID string      `json:"company_id"`
	Role      CompanyRole `json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`
}

// User is the identity the resolver evaluates. A nil *User is valid input
// and evaluates as a member with no company assignments.
type User struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	GlobalRole   GlobalRole          `json:"global_role"`
	CompanyRoles []CompanyAssignment `json:"company_roles"`
}

// ParseGlobalRole normalizes a raw role string. Unknown values map to member.
func ParseGlobalRole(raw string) GlobalRole {
	switch GlobalRole(strings.ToLower(strings.TrimSpace(raw))) {
	case GlobalRoleSuperAdmin:
		return GlobalRoleSuperAdmin
	case GlobalRoleCompanyOwner:
		return GlobalRoleCompanyOwner
	case GlobalRoleCompanyAdmin:
		return GlobalRoleCompanyAdmin
	default:
		return GlobalRoleMember
	}
}

// ParseCompanyRole normalizes a raw company role. Unknown values map to viewer.
func ParseCompanyRole(raw string) CompanyRole {
	role, err := ParseCompanyRoleStrict(raw)
	if err != nil {
		return CompanyRoleViewer
	}
	return role
}

// ParseCompanyRoleStrict is the write-path variant of ParseCompanyRole and
// rejects anything outside the closed set.
func ParseCompanyRoleStrict(raw string) (CompanyRole, error) {
	switch r := CompanyRole(strings.ToLower(strings.TrimSpace(raw))); r {
	case CompanyRoleOwner, CompanyRoleAdmin, CompanyRoleManager, CompanyRoleMember, CompanyRoleViewer:
		return r, nil
	default:
		return "", fmt.Errorf("unknown company role %q", raw)
	}
}

// GlobalRoleOf returns the normalized global role of u.
func GlobalRoleOf(u *User) GlobalRole {
	if u == nil {
		return GlobalRoleMember
	}
	return ParseGlobalRole(string(u.GlobalRole))
}

// CompanyRoleOf returns u's role in companyID. The bool is false when u holds
// no assignment there.
func CompanyRoleOf(u *User, companyID string) (CompanyRole, bool) {
	if u == nil || companyID == "" {
		return "", false
	}
	for _, a := range u.CompanyRoles {
		if a.CompanyID == companyID {
			return ParseCompanyRole(string(a.Role)), true
		}
	}
	return "", false
}

// BelongsTo reports whether u holds any assignment in companyID.
func BelongsTo(u *User, companyID string) bool {
	if !ValidCompanyID(companyID) {
		return false
	}
	_, ok := CompanyRoleOf(u, companyID)
	return ok
}

// ValidCompanyID reports whether s is usable as a company scope. The empty
// string is not a scope and is reported as invalid here.
func ValidCompanyID(s string) bool {
	return s != "" && wellFormed(s)
}

// wellFormed accepts the empty string (no scope) and otherwise rejects
// padded, oversized or control-character identifiers.
func wellFormed(s string) bool {
	if s == "" {
		return true
	}
	if len(s) > maxCompanyIDLength || strings.TrimSpace(s) != s {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func hasCompanyRole(u *User, companyID string, roles ...CompanyRole) bool {
	role, ok := CompanyRoleOf(u, companyID)
	if !ok {
		return false
	}
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
