package rbac

// IsSuperAdmin reports the platform administrator. Super admins are excluded
// from every company-scoped capability.
func IsSuperAdmin(u *User) bool {
	return GlobalRoleOf(u) == GlobalRoleSuperAdmin
}

func IsCompanyOwner(u *User) bool {
	return GlobalRoleOf(u) == GlobalRoleCompanyOwner
}

// IsAdmin is kept for callers that still speak in terms of "admin"; it is
// the same check as IsCompanyOwner.
func IsAdmin(u *User) bool {
	return IsCompanyOwner(u)
}

// IsCompanyAdmin is true for global company admins, and for company owners
// either without a scope or when they hold owner/admin in companyID.
func IsCompanyAdmin(u *User, companyID string) bool {
	if !wellFormed(companyID) {
		return false
	}
	switch GlobalRoleOf(u) {
	case GlobalRoleCompanyAdmin:
		return true
	case GlobalRoleCompanyOwner:
		return companyID == "" || hasCompanyRole(u, companyID, CompanyRoleOwner, CompanyRoleAdmin)
	default:
		return false
	}
}

func IsMember(u *User) bool {
	return GlobalRoleOf(u) == GlobalRoleMember
}

// CanManageExpenses with a company id follows the per-company role only;
// without one it falls back to the global role families.
func CanManageExpenses(u *User, companyID string) bool {
	if !wellFormed(companyID) || IsSuperAdmin(u) || IsMember(u) {
		return false
	}
	if companyID != "" {
		return hasCompanyRole(u, companyID, CompanyRoleOwner, CompanyRoleAdmin)
	}
	return IsCompanyOwner(u) || IsCompanyAdmin(u, "")
}

func CanManageBudgets(u *User, companyID string) bool {
	return CanManageExpenses(u, companyID)
}

// CanManageUsers requires a company id. Company owners (global) may manage
// members of any company they are asked about; otherwise the per-company role
// must be owner.
func CanManageUsers(u *User, companyID string) bool {
	if !ValidCompanyID(companyID) || IsSuperAdmin(u) {
		return false
	}
	return IsCompanyOwner(u) || hasCompanyRole(u, companyID, CompanyRoleOwner)
}

func CanViewUsers(u *User, companyID string) bool {
	if !wellFormed(companyID) || IsSuperAdmin(u) {
		return false
	}
	return IsCompanyOwner(u) ||
		IsCompanyAdmin(u, companyID) ||
		hasCompanyRole(u, companyID, CompanyRoleOwner, CompanyRoleAdmin)
}

func CanViewDashboard(u *User) bool { return !IsSuperAdmin(u) }

func CanViewCompanies(u *User) bool { return !IsSuperAdmin(u) }

func CanViewExpenses(u *User) bool { return !IsSuperAdmin(u) }

func CanViewBudgets(u *User) bool { return !IsSuperAdmin(u) }

func CanViewAnalytics(u *User) bool { return !IsSuperAdmin(u) }

func CanManageCompanies(u *User) bool { return IsCompanyOwner(u) }

func CanViewSuperAdmin(u *User) bool { return IsSuperAdmin(u) }

func CanViewProfile(_ *User) bool { return true }

// Can evaluates capability c for u in the optional company scope.
func Can(u *User, c Capability, companyID string) bool {
	return Decide(u, c, companyID).Allowed
}
