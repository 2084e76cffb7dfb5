package expense

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/category"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/validation"
)

// CreateExpenseDTO represents the request payload for creating an expense
type CreateExpenseDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	ExpenseDate time.Time       `json:"expense_date"`
}

// Normalize lower-cases the category before validation.
func (dto *CreateExpenseDTO) Normalize() {
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
	dto.Description = strings.TrimSpace(dto.Description)
}

func (dto CreateExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("amount", dto.Amount).Positive(errors.ErrCodeInvalidAmount).MaxPlaces(validation.MoneyPlaces, errors.ErrCodeInvalidAmount)
	v.Field("category", dto.Category).Required().OneOf(category.Names(), errors.ErrCodeInvalidCategory)
	v.Field("description", dto.Description).MaxLength(500)
	v.Field("expense_date", dto.ExpenseDate).Required().NotFuture()
	return v.Validate()
}

type ExpensesResponse struct {
	CompanyID string     `json:"company_id"`
	Expenses  []*Expense `json:"expenses"`
}
