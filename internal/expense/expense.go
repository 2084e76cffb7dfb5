package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	expenseDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/expense"
)

type Expense struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"expense_date"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewExpense(companyID, createdBy string, dto CreateExpenseDTO) *Expense {
	now := time.Now()
	return &Expense{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Category:    dto.Category,
		Amount:      dto.Amount,
		Description: dto.Description,
		Date:        dto.ExpenseDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.ExpenseDate,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
