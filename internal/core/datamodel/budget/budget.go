package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)"`
	CompanyID string          `gorm:"column:company_id;type:varchar(36);not null;index"`
	Category  string          `gorm:"column:category;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	Period    string          `gorm:"column:period;not null"`
	StartDate *time.Time      `gorm:"column:start_date;type:date"`
	EndDate   *time.Time      `gorm:"column:end_date;type:date"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	CreatedBy string          `gorm:"column:created_by;type:varchar(36)"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}
