package company

import "time"

type Company struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"column:name;not null"`
	Industry  string    `gorm:"column:industry"`
	Currency  string    `gorm:"column:currency;type:char(3);not null"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(36)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}

// Membership is one row of the per-company role table. (user_id, company_id)
// is unique.
type Membership struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_company_members_user_company"`
	CompanyID string    `gorm:"column:company_id;type:varchar(36);not null;uniqueIndex:idx_company_members_user_company;index"`
	Role      string    `gorm:"column:role;not null"`
	JoinedAt  time.Time `gorm:"column:joined_at;not null"`
}

func (Membership) TableName() string {
	return "company_members"
}
