package rbac_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

var _ = Describe("Role model", func() {
	DescribeTable("ParseGlobalRole",
		func(raw string, expected rbac.GlobalRole) {
			Expect(rbac.ParseGlobalRole(raw)).To(Equal(expected))
		},
		Entry("super admin", "super_admin", rbac.GlobalRoleSuperAdmin),
		Entry("mixed case owner", "Company_Owner", rbac.GlobalRoleCompanyOwner),
		Entry("padded admin", "  company_admin ", rbac.GlobalRoleCompanyAdmin),
		Entry("member", "member", rbac.GlobalRoleMember),
		Entry("empty", "", rbac.GlobalRoleMember),
		Entry("unknown", "root", rbac.GlobalRoleMember),
	)

	DescribeTable("ParseCompanyRole",
		func(raw string, expected rbac.CompanyRole) {
			Expect(rbac.ParseCompanyRole(raw)).To(Equal(expected))
		},
		Entry("owner", "OWNER", rbac.CompanyRoleOwner),
		Entry("manager", "manager", rbac.CompanyRoleManager),
		Entry("empty", "", rbac.CompanyRoleViewer),
		Entry("unknown", "superuser", rbac.CompanyRoleViewer),
	)

	It("rejects unknown roles on the strict path", func() {
		_, err := rbac.ParseCompanyRoleStrict("superuser")
		Expect(err).To(HaveOccurred())

		role, err := rbac.ParseCompanyRoleStrict(" Admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(role).To(Equal(rbac.CompanyRoleAdmin))
	})

	Describe("GlobalRoleOf", func() {
		It("treats a nil user as member", func() {
			Expect(rbac.GlobalRoleOf(nil)).To(Equal(rbac.GlobalRoleMember))
		})

		It("normalizes the stored value", func() {
			u := &rbac.User{GlobalRole: "SUPER_ADMIN"}
			Expect(rbac.GlobalRoleOf(u)).To(Equal(rbac.GlobalRoleSuperAdmin))
		})
	})

	Describe("CompanyRoleOf", func() {
		u := &rbac.User{
			ID:         "u-1",
			GlobalRole: rbac.GlobalRoleMember,
			CompanyRoles: []rbac.CompanyAssignment{
				{CompanyID: "acme", Role: rbac.CompanyRoleAdmin},
				{CompanyID: "globex", Role: "weird"},
			},
		}

		It("matches the company id exactly", func() {
			role, ok := rbac.CompanyRoleOf(u, "acme")
			Expect(ok).To(BeTrue())
			Expect(role).To(Equal(rbac.CompanyRoleAdmin))

			_, ok = rbac.CompanyRoleOf(u, "ACME")
			Expect(ok).To(BeFalse())
		})

		It("degrades unknown stored roles to viewer", func() {
			role, ok := rbac.CompanyRoleOf(u, "globex")
			Expect(ok).To(BeTrue())
			Expect(role).To(Equal(rbac.CompanyRoleViewer))
		})

		It("reports no assignment for empty ids and nil users", func() {
			_, ok := rbac.CompanyRoleOf(u, "")
			Expect(ok).To(BeFalse())
			_, ok = rbac.CompanyRoleOf(nil, "acme")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("ValidCompanyID", func() {
		It("rejects malformed identifiers", func() {
			Expect(rbac.ValidCompanyID("acme")).To(BeTrue())
			Expect(rbac.ValidCompanyID("")).To(BeFalse())
			Expect(rbac.ValidCompanyID(" acme")).To(BeFalse())
			Expect(rbac.ValidCompanyID("ac\nme")).To(BeFalse())
			Expect(rbac.ValidCompanyID(strings.Repeat("a", 65))).To(BeFalse())
		})
	})

	It("BelongsTo only for assigned companies", func() {
		u := &rbac.User{CompanyRoles: []rbac.CompanyAssignment{{CompanyID: "acme", Role: rbac.CompanyRoleViewer}}}
		Expect(rbac.BelongsTo(u, "acme")).To(BeTrue())
		Expect(rbac.BelongsTo(u, "globex")).To(BeFalse())
		Expect(rbac.BelongsTo(u, "")).To(BeFalse())
	})
})
