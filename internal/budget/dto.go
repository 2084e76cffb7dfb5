package budget

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreateBudgetDTO represents the request payload for creating a budget.
// CompanyID is taken from the URL by the handler.
type CreateBudgetDTO struct {
	CompanyID string          `json:"company_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	StartDate *time.Time      `json:"start_date,omitempty"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  *bool           `json:"is_active,omitempty"`
}

func (dto *CreateBudgetDTO) Normalize() {
	dto.CompanyID = strings.TrimSpace(dto.CompanyID)
	dto.Category = strings.ToLower(strings.TrimSpace(dto.Category))
	dto.Period = strings.ToLower(strings.TrimSpace(dto.Period))
	if dto.Period == "" {
		dto.Period = string(PeriodMonthly)
	}
}

// UpdateBudgetDTO is a partial update; nil fields are left untouched.
type UpdateBudgetDTO struct {
	Category       *string          `json:"category,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Period         *string          `json:"period,omitempty"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	ClearStartDate bool             `json:"clear_start_date,omitempty"`
	ClearEndDate   bool             `json:"clear_end_date,omitempty"`
}

// Apply returns a copy of b with the patch applied.
func (p UpdateBudgetDTO) Apply(b *Budget) *Budget {
	out := *b
	if p.Category != nil {
		out.Category = strings.ToLower(strings.TrimSpace(*p.Category))
	}
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Period != nil {
		out.Period = Period(strings.ToLower(strings.TrimSpace(*p.Period)))
	}
	if p.StartDate != nil {
		out.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		out.EndDate = p.EndDate
	}
	if p.ClearStartDate {
		out.StartDate = nil
	}
	if p.ClearEndDate {
		out.EndDate = nil
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	out.UpdatedAt = time.Now()
	return &out
}

type BudgetsResponse struct {
	CompanyID string    `json:"company_id"`
	Budgets   []*Budget `json:"budgets"`
}

type ProgressResponse struct {
	CompanyID string     `json:"company_id"`
	Budgets   []Progress `json:"budgets"`
}

type DashboardResponse struct {
	CompanyID string     `json:"company_id"`
	Summary   Summary    `json:"summary"`
	Budgets   []Progress `json:"budgets"`
}
