package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/category"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/validation"
	budgetDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/budget"
)

type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

var periodNames = []string{string(PeriodMonthly), string(PeriodQuarterly), string(PeriodYearly)}

type Budget struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    Period          `json:"period"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewBudget(createdBy string, dto CreateBudgetDTO) *Budget {
	now := time.Now()
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return &Budget{
		ID:        uuid.NewString(),
		CompanyID: dto.CompanyID,
		Category:  dto.Category,
		Amount:    dto.Amount,
		Period:    Period(dto.Period),
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
		IsActive:  active,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate rejects malformed budgets. Every failure is reported under
// MALFORMED_BUDGET with per-field details.
func (b *Budget) Validate() *errors.AppError {
	v := validation.NewValidator().WithCode(errors.ErrCodeMalformedBudget)
	v.Field("company_id", b.CompanyID).Required()
	v.Field("amount", b.Amount).Positive(errors.ErrCodeInvalidAmount).MaxPlaces(validation.MoneyPlaces, errors.ErrCodeInvalidAmount)
	v.Field("category", b.Category).Required().OneOf(category.Names(), errors.ErrCodeInvalidCategory)
	v.Field("period", string(b.Period)).Required().OneOf(periodNames, errors.ErrCodeInvalidPeriod)
	v.Field("end_date", b.EndDate).NotBefore(b.StartDate, "start_date")
	return v.Validate()
}

// HasWindow reports whether both bounds of the spending window are set.
func (b *Budget) HasWindow() bool {
	return b.StartDate != nil && b.EndDate != nil
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Category:  b.Category,
		Amount:    b.Amount,
		Period:    string(b.Period),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		IsActive:  b.IsActive,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func FromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Category:  b.Category,
		Amount:    b.Amount,
		Period:    Period(b.Period),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		IsActive:  b.IsActive,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func FromDataModelSlice(budgets []*budgetDatamodel.Budget) []*Budget {
	result := make([]*Budget, len(budgets))
	for i, b := range budgets {
		result[i] = FromDataModel(b)
	}
	return result
}
