package repository

import (
	"context"
	"time"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/pkg/money"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// ExpenseRepository defines the interface for expense data operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context, params *ExpenseFilterParams) ([]entity.Expense, int64, error)
	// TotalForRange sums expense amounts with spent_at in [start, end).
	TotalForRange(ctx context.Context, start, end time.Time) (money.Amount, error)
}

// ExpenseFilterParams contains filtering parameters for expense queries
type ExpenseFilterParams struct {
	Pagination *pagination.PaginationParams
	Category   string
	StartDate  *time.Time
	EndDate    *time.Time
}
