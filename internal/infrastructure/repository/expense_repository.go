package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	domainRepo "github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/money"
)

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) domainRepo.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) List(ctx context.Context, params *domainRepo.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	var expenses []entity.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Expense{})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.StartDate != nil {
		query = query.Where("spent_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("spent_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("spent_at DESC").
		Find(&expenses).Error

	return expenses, total, err
}

func (r *expenseRepository) TotalForRange(ctx context.Context, start, end time.Time) (money.Amount, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Where("spent_at >= ? AND spent_at < ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return money.Amount(total), err
}
