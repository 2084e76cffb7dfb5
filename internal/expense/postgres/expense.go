package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/expense-dashboard/internal"
	expenseDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-dashboard/internal/expense"
)

// ExpenseRepository implements expense.Repository using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ListByCompany returns every expense of a company, oldest first.
func (r *ExpenseRepository) ListByCompany(ctx context.Context, companyID string) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("expense_date ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&row), nil
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expense.Expense) error {
	return r.db.WithContext(ctx).Create(expense.ToDataModel(exp)).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&expenseDatamodel.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}
