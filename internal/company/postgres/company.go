package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/company"
	companyDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

// CompanyRepository implements company.Repository using GORM
type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) ListForUser(ctx context.Context, userID string) ([]*company.Company, error) {
	var rows []*companyDatamodel.Company
	err := r.db.WithContext(ctx).
		Joins("JOIN company_members ON company_members.company_id = companies.id").
		Where("company_members.user_id = ?", userID).
		Order("companies.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return company.FromDataModelSlice(rows), nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*company.Company, error) {
	var row companyDatamodel.Company
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCompanyNotFound
		}
		return nil, err
	}
	return company.FromDataModel(&row), nil
}

// CreateWithOwner inserts the company and its first owner atomically.
func (r *CompanyRepository) CreateWithOwner(ctx context.Context, c *company.Company, owner *company.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company.ToDataModel(c)).Error; err != nil {
			return err
		}
		return tx.Create(company.MembershipToDataModel(owner)).Error
	})
}

type memberRow struct {
	UserID    string
	CompanyID string
	Email     string
	Name      string
	Role      string
	JoinedAt  time.Time
}

func (m memberRow) toMember() *company.Member {
	return &company.Member{
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Email:     m.Email,
		Name:      m.Name,
		Role:      rbac.ParseCompanyRole(m.Role),
		JoinedAt:  m.JoinedAt,
	}
}

func (r *CompanyRepository) members(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("company_members").
		Select("company_members.user_id, company_members.company_id, company_members.role, company_members.joined_at, users.email, users.name").
		Joins("LEFT JOIN users ON users.id = company_members.user_id")
}

func (r *CompanyRepository) ListMembers(ctx context.Context, companyID string) ([]*company.Member, error) {
	var rows []memberRow
	err := r.members(ctx).
		Where("company_members.company_id = ?", companyID).
		Order("company_members.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]*company.Member, len(rows))
	for i, row := range rows {
		out[i] = row.toMember()
	}
	return out, nil
}

func (r *CompanyRepository) GetMember(ctx context.Context, companyID, userID string) (*company.Member, error) {
	var rows []memberRow
	err := r.members(ctx).
		Where("company_members.company_id = ? AND company_members.user_id = ?", companyID, userID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrMemberNotFound
	}
	return rows[0].toMember(), nil
}

// lockOwners returns the owner user ids of companyID and holds row locks on
// them until tx ends, so two demotions or removals of owners serialize.
func lockOwners(tx *gorm.DB, companyID string) ([]string, error) {
	var ids []string
	err := tx.Model(&companyDatamodel.Membership{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND role = ?", companyID, string(rbac.CompanyRoleOwner)).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// keepsAnOwner fails when userID is the only owner left.
func keepsAnOwner(owners []string, userID string) error {
	if len(owners) == 1 && owners[0] == userID {
		return internal.ErrLastOwner
	}
	return nil
}

// AssignMember inserts m or changes the role of an existing row, keeping its
// JoinedAt. The unique (user_id, company_id) index makes a racing insert an
// update.
func (r *CompanyRepository) AssignMember(ctx context.Context, m *company.Member) (*company.Member, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owners, err := lockOwners(tx, m.CompanyID)
		if err != nil {
			return err
		}
		if m.Role != rbac.CompanyRoleOwner {
			if err := keepsAnOwner(owners, m.UserID); err != nil {
				return err
			}
		}

		var existing companyDatamodel.Membership
		err = tx.Where("company_id = ? AND user_id = ?", m.CompanyID, m.UserID).Take(&existing).Error
		switch {
		case err == nil:
			return tx.Model(&existing).Update("role", string(m.Role)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if m.JoinedAt.IsZero() {
				m.JoinedAt = time.Now()
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "company_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"role"}),
			}).Create(company.MembershipToDataModel(m)).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return r.GetMember(ctx, m.CompanyID, m.UserID)
}

func (r *CompanyRepository) RemoveMember(ctx context.Context, companyID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owners, err := lockOwners(tx, companyID)
		if err != nil {
			return err
		}
		if err := keepsAnOwner(owners, userID); err != nil {
			return err
		}

		res := tx.Where("company_id = ? AND user_id = ?", companyID, userID).
			Delete(&companyDatamodel.Membership{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrMemberNotFound
		}
		return nil
	})
}

func (r *CompanyRepository) UserGlobalRole(ctx context.Context, userID string) (rbac.GlobalRole, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "global_role").Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", internal.ErrUserNotFound
		}
		return "", err
	}
	return rbac.ParseGlobalRole(row.GlobalRole), nil
}
