package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/money"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// ExpenseService handles shop expense tracking
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// CreateExpenseInput represents the create expense input
type CreateExpenseInput struct {
	Title       string
	Category    string
	Amount      float64
	SpentAt     time.Time
	RecordedBy  uuid.UUID
	Description *string
}

// CreateExpense records a shop expense
func (s *ExpenseService) CreateExpense(ctx context.Context, input *CreateExpenseInput) (*entity.Expense, error) {
	amount := money.FromFloat(input.Amount)
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	spentAt := input.SpentAt
	if spentAt.IsZero() {
		spentAt = time.Now()
	}

	expense := &entity.Expense{
		Title:       input.Title,
		Category:    input.Category,
		Amount:      amount,
		SpentAt:     spentAt,
		RecordedBy:  input.RecordedBy,
		Description: input.Description,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpenses lists expenses with filtering
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.PaginatedResult[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(expenses, pag), nil
}

// MonthlyExpenseSummary is the total spent in one calendar month
type MonthlyExpenseSummary struct {
	Year  int
	Month time.Month
	Total money.Amount
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (m MonthlyExpenseSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Year  int     `json:"year"`
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}{
		Year:  m.Year,
		Month: m.Month.String(),
		Total: m.Total.Float64(),
	})
}

// MonthlyTotal sums expenses for one calendar month
func (s *ExpenseService) MonthlyTotal(ctx context.Context, year int, month time.Month) (*MonthlyExpenseSummary, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	total, err := s.expenseRepo.TotalForRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &MonthlyExpenseSummary{Year: year, Month: month, Total: total}, nil
}
