package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/budget"
	companyDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/company"
	expenseDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, companies, budgets and expenses for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		if err := seed(cmd.Context(), db, string(hash), clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Printf("Seed complete. Every seeded user logs in with %q\n", seedPassword)
	},
}

type seedMember struct {
	email string
	role  rbac.CompanyRole
}

type seedCompany struct {
	company  companyDatamodel.Company
	members  []seedMember
	budgets  []budgetDatamodel.Budget
	expenses []expenseDatamodel.Expense
}

func seedUsers(hash string) []userDatamodel.User {
	return []userDatamodel.User{
		{ID: "00000000-0000-0000-0000-000000000001", Email: "root@mail.com", Name: "Platform Admin", GlobalRole: string(rbac.GlobalRoleSuperAdmin)},
		{ID: "00000000-0000-0000-0000-000000000002", Email: "fadhil@mail.com", Name: "Fadhil", GlobalRole: string(rbac.GlobalRoleCompanyOwner)},
		{ID: "00000000-0000-0000-0000-000000000003", Email: "padil@mail.com", Name: "Padil Admin", GlobalRole: string(rbac.GlobalRoleCompanyAdmin)},
		{ID: "00000000-0000-0000-0000-000000000004", Email: "rina@mail.com", Name: "Rina", GlobalRole: string(rbac.GlobalRoleMember)},
	}
}

func seedCompanies(now time.Time) []seedCompany {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	day := func(d int) time.Time { return monthStart.AddDate(0, 0, d-1) }

	return []seedCompany{
		{
			company: companyDatamodel.Company{ID: "acme-logistics", Name: "Acme Logistics", Industry: "logistics", Currency: "IDR", CreatedBy: "00000000-0000-0000-0000-000000000002"},
			members: []seedMember{
				{"fadhil@mail.com", rbac.CompanyRoleOwner},
				{"padil@mail.com", rbac.CompanyRoleAdmin},
				{"rina@mail.com", rbac.CompanyRoleViewer},
			},
			budgets: []budgetDatamodel.Budget{
				{ID: "b0000000-0000-0000-0000-000000000001", Category: "rent", Amount: decimal.NewFromInt(15000000), Period: "monthly", StartDate: &monthStart, EndDate: &monthEnd, IsActive: true},
				{ID: "b0000000-0000-0000-0000-000000000002", Category: "electricity", Amount: decimal.NewFromInt(2000000), Period: "monthly", IsActive: true},
				{ID: "b0000000-0000-0000-0000-000000000003", Category: "marketing", Amount: decimal.NewFromInt(5000000), Period: "quarterly", IsActive: true},
			},
			expenses: []expenseDatamodel.Expense{
				{ID: "e0000000-0000-0000-0000-000000000001", Category: "rent", Amount: decimal.NewFromInt(15000000), Description: "Warehouse rent", ExpenseDate: day(1)},
				{ID: "e0000000-0000-0000-0000-000000000002", Category: "electricity", Amount: decimal.NewFromInt(1700000), Description: "PLN bill", ExpenseDate: day(5)},
				{ID: "e0000000-0000-0000-0000-000000000003", Category: "marketing", Amount: decimal.NewFromInt(1200000), Description: "Social ads", ExpenseDate: day(3)},
			},
		},
		{
			company: companyDatamodel.Company{ID: "nusantara-coffee", Name: "Nusantara Coffee", Industry: "food and beverage", Currency: "IDR", CreatedBy: "00000000-0000-0000-0000-000000000002"},
			members: []seedMember{
				{"fadhil@mail.com", rbac.CompanyRoleOwner},
				{"rina@mail.com", rbac.CompanyRoleManager},
			},
			budgets: []budgetDatamodel.Budget{
				{ID: "b0000000-0000-0000-0000-000000000004", Category: "supplies", Amount: decimal.NewFromInt(3000000), Period: "monthly", IsActive: true},
				{ID: "b0000000-0000-0000-0000-000000000005", Category: "water", Amount: decimal.NewFromInt(500000), Period: "monthly", IsActive: true},
			},
			expenses: []expenseDatamodel.Expense{
				{ID: "e0000000-0000-0000-0000-000000000004", Category: "supplies", Amount: decimal.NewFromInt(3400000), Description: "Beans restock", ExpenseDate: day(2)},
				{ID: "e0000000-0000-0000-0000-000000000005", Category: "water", Amount: decimal.NewFromInt(120000), Description: "PDAM bill", ExpenseDate: day(4)},
			},
		},
	}
}

// seed inserts the sample dataset. Existing rows are left untouched, so it
// is safe to run repeatedly.
func seed(ctx context.Context, db *gorm.DB, passwordHash string, clear bool) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, table := range []string{"expenses", "budgets", "company_members", "companies", "users"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		skipExisting := clause.OnConflict{DoNothing: true}

		userIDs := map[string]string{}
		for _, u := range seedUsers(passwordHash) {
			u.PasswordHash = passwordHash
			u.IsActive = true
			if err := tx.Clauses(skipExisting).Create(&u).Error; err != nil {
				return fmt.Errorf("insert user %s: %w", u.Email, err)
			}
			var stored userDatamodel.User
			if err := tx.Where("email = ?", u.Email).First(&stored).Error; err != nil {
				return fmt.Errorf("lookup user %s: %w", u.Email, err)
			}
			userIDs[u.Email] = stored.ID
			fmt.Println("Seeded user:", u.Email, "as", u.GlobalRole)
		}

		now := time.Now().UTC()
		for _, sc := range seedCompanies(now) {
			c := sc.company
			if err := tx.Clauses(skipExisting).Create(&c).Error; err != nil {
				return fmt.Errorf("insert company %s: %w", c.ID, err)
			}

			for i, m := range sc.members {
				row := companyDatamodel.Membership{
					ID:        fmt.Sprintf("m-%s-%d", c.ID, i),
					UserID:    userIDs[m.email],
					CompanyID: c.ID,
					Role:      string(m.role),
					JoinedAt:  now,
				}
				if err := tx.Clauses(skipExisting).Create(&row).Error; err != nil {
					return fmt.Errorf("insert member %s in %s: %w", m.email, c.ID, err)
				}
			}

			for _, b := range sc.budgets {
				b.CompanyID = c.ID
				b.CreatedBy = c.CreatedBy
				if err := tx.Clauses(skipExisting).Create(&b).Error; err != nil {
					return fmt.Errorf("insert budget %s: %w", b.ID, err)
				}
			}

			for _, e := range sc.expenses {
				e.CompanyID = c.ID
				e.CreatedBy = c.CreatedBy
				if err := tx.Clauses(skipExisting).Create(&e).Error; err != nil {
					return fmt.Errorf("insert expense %s: %w", e.ID, err)
				}
			}

			fmt.Printf("Seeded company %s with %d members, %d budgets, %d expenses\n",
				c.ID, len(sc.members), len(sc.budgets), len(sc.expenses))
		}

		return nil
	})
}
