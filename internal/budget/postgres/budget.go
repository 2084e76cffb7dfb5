package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/budget"
	budgetDatamodel "github.com/frahmantamala/expense-dashboard/internal/core/datamodel/budget"
)

// BudgetRepository implements budget.Repository using GORM
type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// List returns a company's budgets in creation order.
func (r *BudgetRepository) List(ctx context.Context, companyID string) ([]*budget.Budget, error) {
	var rows []*budgetDatamodel.Budget
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return budget.FromDataModelSlice(rows), nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	var row budgetDatamodel.Budget
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget.FromDataModel(&row), nil
}

func (r *BudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Create(budget.ToDataModel(b)).Error
}

func (r *BudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	res := r.db.WithContext(ctx).
		Model(&budgetDatamodel.Budget{}).
		Where("id = ?", b.ID).
		Select("category", "amount", "period", "start_date", "end_date", "is_active", "updated_at").
		Updates(budget.ToDataModel(b))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrBudgetNotFound
	}
	return nil
}

// Delete removes the row. There is no soft delete for budgets.
func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&budgetDatamodel.Budget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrBudgetNotFound
	}
	return nil
}
