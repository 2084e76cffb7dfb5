package rbac

// Reason explains a Decision. Every deny reason yields the same Allowed=false.
type Reason string

const (
	ReasonGranted            Reason = "granted"
	ReasonRoleDenied         Reason = "role_denied"
	ReasonSuperAdminExcluded Reason = "super_admin_excluded"
	ReasonInvalidScope       Reason = "invalid_scope"
	ReasonUnknownCapability  Reason = "unknown_capability"
)

// EffectiveRole is the pair of roles the resolver looked at.
type EffectiveRole struct {
	Global  GlobalRole  `json:"global"`
	Company CompanyRole `json:"company,omitempty"`
}

type Decision struct {
	Capability    Capability    `json:"capability"`
	CompanyID     string        `json:"company_id,omitempty"`
	Allowed       bool          `json:"allowed"`
	EffectiveRole EffectiveRole `json:"effective_role"`
	Reason        Reason        `json:"reason"`
}

// Decide evaluates c for u and records why. It never errors: unknown
// capabilities and malformed scopes on company-scoped capabilities are
// denials. Other capabilities ignore companyID.
func Decide(u *User, c Capability, companyID string) Decision {
	d := Decision{
		Capability:    c,
		CompanyID:     companyID,
		EffectiveRole: effectiveRole(u, companyID),
	}

	pred, ok := predicates[c]
	switch {
	case !ok:
		d.Reason = ReasonUnknownCapability
		return d
	case c.CompanyScoped() && !wellFormed(companyID), c.RequiresScope() && companyID == "":
		d.Reason = ReasonInvalidScope
		return d
	}

	if pred(u, companyID) {
		d.Allowed = true
		d.Reason = ReasonGranted
		return d
	}

	if IsSuperAdmin(u) {
		d.Reason = ReasonSuperAdminExcluded
	} else {
		d.Reason = ReasonRoleDenied
	}
	return d
}

// Matrix returns every capability's outcome for u in companyID.
func Matrix(u *User, companyID string) map[Capability]bool {
	m := make(map[Capability]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		m[c] = Can(u, c, companyID)
	}
	return m
}

// Explain is Matrix with reasons, in AllCapabilities order.
func Explain(u *User, companyID string) []Decision {
	out := make([]Decision, 0, len(AllCapabilities))
	for _, c := range AllCapabilities {
		out = append(out, Decide(u, c, companyID))
	}
	return out
}

func effectiveRole(u *User, companyID string) EffectiveRole {
	er := EffectiveRole{Global: GlobalRoleOf(u)}
	if role, ok := CompanyRoleOf(u, companyID); ok {
		er.Company = role
	}
	return er
}
