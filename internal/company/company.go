package company

import (
	"time"

	"github.com/google/uuid"

	companyDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/company"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
)

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Currency  string    `json:"currency"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is one entry of a company's role table, joined with the user's
// contact fields for display.
type Member struct {
	UserID    string           `json:"user_id"`
	CompanyID string           `json:"company_id"`
	Email     string           `json:"email,omitempty"`
	Name      string           `json:"name,omitempty"`
	Role      rbac.CompanyRole `json:"role"`
	JoinedAt  time.Time        `json:"joined_at"`
}

func NewCompany(createdBy string, dto CreateCompanyDTO) *Company {
	now := time.Now()
	return &Company{
		ID:        uuid.NewString(),
		Name:      dto.Name,
		Industry:  dto.Industry,
		Currency:  dto.Currency,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Currency:  c.Currency,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:        c.ID,
		Name:      c.Name,
		Industry:  c.Industry,
		Currency:  c.Currency,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModelSlice(companies []*companyDatamodel.Company) []*Company {
	result := make([]*Company, len(companies))
	for i, c := range companies {
		result[i] = FromDataModel(c)
	}
	return result
}

func MembershipToDataModel(m *Member) *companyDatamodel.Membership {
	return &companyDatamodel.Membership{
		ID:        uuid.NewString(),
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      string(m.Role),
		JoinedAt:  m.JoinedAt,
	}
}
