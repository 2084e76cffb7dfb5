package company

import (
	"fmt"
	"strings"

	errors "github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/core/common/validation"
)

type CreateCompanyDTO struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Currency string `json:"currency"`
}

func (dto *CreateCompanyDTO) Normalize() {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Industry = strings.TrimSpace(dto.Industry)
	dto.Currency = strings.ToUpper(strings.TrimSpace(dto.Currency))
}

func (dto CreateCompanyDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("industry", dto.Industry).MaxLength(100)
	v.Field("currency", dto.Currency).Required().Custom(currencyCode)
	return v.Validate()
}

// currencyCode accepts three upper-case ASCII letters.
func currencyCode(value interface{}) *errors.AppError {
	s, _ := value.(string)
	if len(s) != 3 {
		return errors.NewValidationFieldError("currency", fmt.Sprintf("currency %q is not an ISO-4217 code", s), errors.ErrCodeInvalidCurrency)
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return errors.NewValidationFieldError("currency", fmt.Sprintf("currency %q is not an ISO-4217 code", s), errors.ErrCodeInvalidCurrency)
		}
	}
	return nil
}

type AssignMemberDTO struct {
	Role string `json:"role"`
}

type CompaniesResponse struct {
	Companies []*Company `json:"companies"`
}

type MembersResponse struct {
	CompanyID string    `json:"company_id"`
	Members   []*Member `json:"members"`
}
