package rbac_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

func userWith(global rbac.GlobalRole, assignments ...rbac.CompanyAssignment) *rbac.User {
	return &rbac.User{ID: "u-1", Email: "u@example.com", GlobalRole: global, CompanyRoles: assignments}
}

func in(companyID string, role rbac.CompanyRole) rbac.CompanyAssignment {
	return rbac.CompanyAssignment{CompanyID: companyID, Role: role}
}

var companyScoped = []rbac.Capability{
	rbac.CapViewDashboard,
	rbac.CapViewCompanies,
	rbac.CapViewExpenses,
	rbac.CapManageExpenses,
	rbac.CapViewBudgets,
	rbac.CapManageBudgets,
	rbac.CapViewAnalytics,
	rbac.CapViewUsers,
	rbac.CapManageUsers,
}

var _ = Describe("Resolver", func() {
	Describe("super admin", func() {
		sa := userWith(rbac.GlobalRoleSuperAdmin, in("acme", rbac.CompanyRoleOwner))

		It("is excluded from every company-scoped capability, even when listed as owner", func() {
			for _, c := range companyScoped {
				Expect(rbac.Can(sa, c, "")).To(BeFalse(), string(c))
				Expect(rbac.Can(sa, c, "acme")).To(BeFalse(), string(c))
			}
			Expect(rbac.Can(sa, rbac.CapManageCompanies, "")).To(BeFalse())
		})

		It("can open the system console and its own profile", func() {
			Expect(rbac.CanViewSuperAdmin(sa)).To(BeTrue())
			Expect(rbac.Can(sa, rbac.CapViewProfile, "")).To(BeTrue())
		})

		It("reports the exclusion reason", func() {
			d := rbac.Decide(sa, rbac.CapViewBudgets, "acme")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(rbac.ReasonSuperAdminExcluded))
			Expect(d.EffectiveRole.Global).To(Equal(rbac.GlobalRoleSuperAdmin))
		})
	})

	Describe("company owner", func() {
		owner := userWith(rbac.GlobalRoleCompanyOwner, in("acme", rbac.CompanyRoleViewer))

		It("manages companies and users of any company regardless of the role table", func() {
			Expect(rbac.CanManageCompanies(owner)).To(BeTrue())
			for _, id := range []string{"acme", "globex", "initech"} {
				Expect(rbac.CanManageUsers(owner, id)).To(BeTrue())
				Expect(rbac.CanViewUsers(owner, id)).To(BeTrue())
			}
		})

		It("keeps the IsAdmin alias in line with IsCompanyOwner", func() {
			Expect(rbac.IsAdmin(owner)).To(Equal(rbac.IsCompanyOwner(owner)))
			Expect(rbac.IsAdmin(userWith(rbac.GlobalRoleCompanyAdmin))).To(BeFalse())
		})

		It("counts as company admin only without scope or with owner/admin in that company", func() {
			Expect(rbac.IsCompanyAdmin(owner, "")).To(BeTrue())
			Expect(rbac.IsCompanyAdmin(owner, "acme")).To(BeFalse())

			ownerAdmin := userWith(rbac.GlobalRoleCompanyOwner, in("acme", rbac.CompanyRoleAdmin))
			Expect(rbac.IsCompanyAdmin(ownerAdmin, "acme")).To(BeTrue())
		})

		It("follows the per-company role for expenses and budgets when scoped", func() {
			Expect(rbac.CanManageExpenses(owner, "acme")).To(BeFalse())
			Expect(rbac.CanManageBudgets(owner, "acme")).To(BeFalse())
			Expect(rbac.CanManageBudgets(owner, "")).To(BeTrue())

			scoped := userWith(rbac.GlobalRoleCompanyOwner, in("acme", rbac.CompanyRoleOwner))
			Expect(rbac.CanManageBudgets(scoped, "acme")).To(BeTrue())
		})
	})

	Describe("company admin", func() {
		admin := userWith(rbac.GlobalRoleCompanyAdmin, in("acme", rbac.CompanyRoleAdmin))

		It("manages expenses and budgets in its company but never users", func() {
			Expect(rbac.CanManageExpenses(admin, "acme")).To(BeTrue())
			Expect(rbac.CanManageBudgets(admin, "acme")).To(BeTrue())
			Expect(rbac.CanManageUsers(admin, "acme")).To(BeFalse())
			Expect(rbac.CanViewUsers(admin, "acme")).To(BeTrue())
		})

		It("cannot manage companies", func() {
			Expect(rbac.CanManageCompanies(admin)).To(BeFalse())
		})

		It("is denied in companies where it has no assignment", func() {
			Expect(rbac.CanManageBudgets(admin, "globex")).To(BeFalse())
		})
	})

	Describe("per-company admin property", func() {
		It("allows expense management and denies user management for every non-owner global role", func() {
			u := userWith(rbac.GlobalRoleCompanyAdmin, in("acme", rbac.CompanyRoleAdmin))
			Expect(rbac.CanManageExpenses(u, "acme")).To(BeTrue())
			Expect(rbac.CanManageUsers(u, "acme")).To(BeFalse())

			member := userWith(rbac.GlobalRoleMember, in("acme", rbac.CompanyRoleAdmin))
			Expect(rbac.CanManageUsers(member, "acme")).To(BeFalse())
		})
	})

	Describe("member", func() {
		It("scenario A: cannot manage budgets but can view them", func() {
			m := userWith(rbac.GlobalRoleMember)
			Expect(rbac.CanManageBudgets(m, "")).To(BeFalse())
			Expect(rbac.CanViewBudgets(m)).To(BeTrue())
		})

		It("stays read-only even when owner of a company", func() {
			m := userWith(rbac.GlobalRoleMember, in("acme", rbac.CompanyRoleOwner))
			Expect(rbac.CanManageExpenses(m, "acme")).To(BeFalse())
			Expect(rbac.CanManageUsers(m, "acme")).To(BeTrue())
		})

		It("treats a user with no role data as member", func() {
			Expect(rbac.Matrix(nil, "")).To(Equal(rbac.Matrix(userWith(""), "")))
			Expect(rbac.Can(nil, rbac.CapManageBudgets, "acme")).To(BeFalse())
			Expect(rbac.Can(nil, rbac.CapViewDashboard, "")).To(BeTrue())
		})
	})

	Describe("scope handling", func() {
		It("scenario D: manage users without a company is denied for every role", func() {
			for _, g := range []rbac.GlobalRole{
				rbac.GlobalRoleSuperAdmin, rbac.GlobalRoleCompanyOwner,
				rbac.GlobalRoleCompanyAdmin, rbac.GlobalRoleMember,
			} {
				u := userWith(g, in("acme", rbac.CompanyRoleOwner))
				Expect(rbac.CanManageUsers(u, "")).To(BeFalse(), string(g))
				d := rbac.Decide(u, rbac.CapManageUsers, "")
				Expect(d.Allowed).To(BeFalse())
				Expect(d.Reason).To(Equal(rbac.ReasonInvalidScope))
			}
		})

		It("denies malformed company ids on company-scoped capabilities", func() {
			owner := userWith(rbac.GlobalRoleCompanyOwner, in(" acme", rbac.CompanyRoleOwner))
			for _, c := range rbac.AllCapabilities {
				if !c.CompanyScoped() {
					continue
				}
				d := rbac.Decide(owner, c, " acme")
				Expect(d.Allowed).To(BeFalse(), string(c))
				Expect(d.Reason).To(Equal(rbac.ReasonInvalidScope))
			}
		})

		It("ignores malformed company ids on capabilities that are not company-scoped", func() {
			member := userWith(rbac.GlobalRoleMember)
			superAdmin := userWith(rbac.GlobalRoleSuperAdmin)
			owner := userWith(rbac.GlobalRoleCompanyOwner)

			Expect(rbac.Can(member, rbac.CapViewProfile, " acme")).To(BeTrue())
			Expect(rbac.Can(superAdmin, rbac.CapViewSuperAdmin, "acme\n")).To(BeTrue())
			Expect(rbac.Can(owner, rbac.CapManageCompanies, "ac me")).To(BeTrue())
			Expect(rbac.Can(member, rbac.CapViewDashboard, " acme")).To(BeTrue())

			m := rbac.Matrix(member, " acme")
			Expect(m[rbac.CapViewProfile]).To(BeTrue())
			Expect(m[rbac.CapManageBudgets]).To(BeFalse())
		})

		It("marks exactly the company-evaluated capabilities as scoped", func() {
			var scoped []rbac.Capability
			for _, c := range rbac.AllCapabilities {
				if c.CompanyScoped() {
					scoped = append(scoped, c)
				}
			}
			Expect(scoped).To(ConsistOf(rbac.CapManageExpenses, rbac.CapManageBudgets, rbac.CapViewUsers, rbac.CapManageUsers))
		})

		It("denies unknown capabilities", func() {
			d := rbac.Decide(userWith(rbac.GlobalRoleCompanyOwner), rbac.Capability("delete_everything"), "")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(rbac.ReasonUnknownCapability))

			_, ok := rbac.ParseCapability("delete_everything")
			Expect(ok).To(BeFalse())
			c, ok := rbac.ParseCapability("view_budgets")
			Expect(ok).To(BeTrue())
			Expect(c).To(Equal(rbac.CapViewBudgets))
		})
	})

	Describe("Decide", func() {
		It("records the effective company role", func() {
			u := userWith(rbac.GlobalRoleCompanyAdmin, in("acme", rbac.CompanyRoleManager))
			d := rbac.Decide(u, rbac.CapManageBudgets, "acme")
			Expect(d.Allowed).To(BeFalse())
			Expect(d.Reason).To(Equal(rbac.ReasonRoleDenied))
			Expect(d.EffectiveRole).To(Equal(rbac.EffectiveRole{
				Global:  rbac.GlobalRoleCompanyAdmin,
				Company: rbac.CompanyRoleManager,
			}))
		})

		It("agrees with the named predicates", func() {
			u := userWith(rbac.GlobalRoleCompanyOwner, in("acme", rbac.CompanyRoleAdmin))
			Expect(rbac.Can(u, rbac.CapManageBudgets, "acme")).To(Equal(rbac.CanManageBudgets(u, "acme")))
			Expect(rbac.Can(u, rbac.CapViewUsers, "acme")).To(Equal(rbac.CanViewUsers(u, "acme")))
			Expect(rbac.Can(u, rbac.CapManageUsers, "acme")).To(Equal(rbac.CanManageUsers(u, "acme")))
		})
	})

	Describe("Matrix and Explain", func() {
		It("cover the whole capability set in order", func() {
			u := userWith(rbac.GlobalRoleCompanyAdmin, in("acme", rbac.CompanyRoleAdmin))
			m := rbac.Matrix(u, "acme")
			Expect(m).To(HaveLen(len(rbac.AllCapabilities)))
			Expect(m[rbac.CapManageBudgets]).To(BeTrue())
			Expect(m[rbac.CapViewSuperAdmin]).To(BeFalse())

			decisions := rbac.Explain(u, "acme")
			Expect(decisions).To(HaveLen(len(rbac.AllCapabilities)))
			for i, d := range decisions {
				Expect(d.Capability).To(Equal(rbac.AllCapabilities[i]))
				Expect(d.Allowed).To(Equal(m[d.Capability]))
			}
		})

		It("is stable across repeated calls", func() {
			u := userWith(rbac.GlobalRoleCompanyOwner, in("acme", rbac.CompanyRoleOwner))
			Expect(rbac.Explain(u, "acme")).To(Equal(rbac.Explain(u, "acme")))
		})
	})
})
