package rbac

// Capability names a single action surface of the dashboard.
type Capability string

const (
	CapViewDashboard   Capability = "view_dashboard"
	CapViewCompanies   Capability = "view_companies"
	CapManageCompanies Capability = "manage_companies"
	CapViewExpenses    Capability = "view_expenses"
	CapManageExpenses  Capability = "manage_expenses"
	CapViewBudgets     Capability = "view_budgets"
	CapManageBudgets   Capability = "manage_budgets"
	CapViewAnalytics   Capability = "view_analytics"
	CapViewUsers       Capability = "view_users"
	CapManageUsers     Capability = "manage_users"
	CapViewSuperAdmin  Capability = "view_super_admin"
	CapViewProfile     Capability = "view_profile"
)

// AllCapabilities lists the closed capability set in display order.
var AllCapabilities = []Capability{
	CapViewDashboard,
	CapViewCompanies,
	CapManageCompanies,
	CapViewExpenses,
	CapManageExpenses,
	CapViewBudgets,
	CapManageBudgets,
	CapViewAnalytics,
	CapViewUsers,
	CapManageUsers,
	CapViewSuperAdmin,
	CapViewProfile,
}

type predicate func(u *User, companyID string) bool

var predicates = map[Capability]predicate{
	CapViewDashboard:   func(u *User, _ string) bool { return CanViewDashboard(u) },
	CapViewCompanies:   func(u *User, _ string) bool { return CanViewCompanies(u) },
	CapManageCompanies: func(u *User, _ string) bool { return CanManageCompanies(u) },
	CapViewExpenses:    func(u *User, _ string) bool { return CanViewExpenses(u) },
	CapManageExpenses:  CanManageExpenses,
	CapViewBudgets:     func(u *User, _ string) bool { return CanViewBudgets(u) },
	CapManageBudgets:   CanManageBudgets,
	CapViewAnalytics:   func(u *User, _ string) bool { return CanViewAnalytics(u) },
	CapViewUsers:       CanViewUsers,
	CapManageUsers:     CanManageUsers,
	CapViewSuperAdmin:  func(u *User, _ string) bool { return CanViewSuperAdmin(u) },
	CapViewProfile:     func(u *User, _ string) bool { return CanViewProfile(u) },
}

// ParseCapability maps a wire name onto the closed set.
func ParseCapability(raw string) (Capability, bool) {
	c := Capability(raw)
	_, ok := predicates[c]
	return c, ok
}

// Valid reports whether c belongs to the closed set.
func (c Capability) Valid() bool {
	_, ok := predicates[c]
	return ok
}

// companyScoped holds the capabilities whose predicate reads the company id.
var companyScoped = map[Capability]bool{
	CapManageExpenses: true,
	CapManageBudgets:  true,
	CapViewUsers:      true,
	CapManageUsers:    true,
}

// CompanyScoped reports whether c is evaluated against a company. Only these
// capabilities are denied for a malformed company id.
func (c Capability) CompanyScoped() bool {
	return companyScoped[c]
}

// RequiresScope reports whether c is meaningless without a target company.
func (c Capability) RequiresScope() bool {
	return c == CapManageUsers
}

func (c Capability) String() string {
	return string(c)
}
