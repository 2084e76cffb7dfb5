package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	CompanyID   string          `gorm:"column:company_id;type:varchar(36);not null;index"`
	Category    string          `gorm:"column:category;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(15,2);not null"`
	Description string          `gorm:"column:description"`
	ExpenseDate time.Time       `gorm:"column:expense_date;type:date;not null"`
	CreatedBy   string          `gorm:"column:created_by;type:varchar(36)"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
