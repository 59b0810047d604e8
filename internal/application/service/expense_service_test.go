package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/money"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// mockExpenseRepo records writes and range queries for inspection
type mockExpenseRepo struct {
	created    []entity.Expense
	rangeStart time.Time
	rangeEnd   time.Time
	rangeTotal money.Amount
}

func (m *mockExpenseRepo) Create(_ context.Context, expense *entity.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	m.created = append(m.created, *expense)
	return nil
}

func (m *mockExpenseRepo) List(_ context.Context, _ *repository.ExpenseFilterParams) ([]entity.Expense, int64, error) {
	return m.created, int64(len(m.created)), nil
}

func (m *mockExpenseRepo) TotalForRange(_ context.Context, start, end time.Time) (money.Amount, error) {
	m.rangeStart = start
	m.rangeEnd = end
	return m.rangeTotal, nil
}

func TestCreateExpense(t *testing.T) {
	recordedBy := uuid.New()

	t.Run("records the expense in paisa", func(t *testing.T) {
		repo := &mockExpenseRepo{}
		service := NewExpenseService(repo)

		spentAt := time.Date(2026, 8, 14, 0, 0, 0, 0, time.Local)
		expense, err := service.CreateExpense(context.Background(), &CreateExpenseInput{
			Title:      "Generator fuel",
			Category:   "utilities",
			Amount:     450.50,
			SpentAt:    spentAt,
			RecordedBy: recordedBy,
		})
		require.NoError(t, err)
		assert.Equal(t, money.FromRupees(450, 50), expense.Amount)
		assert.Equal(t, spentAt, expense.SpentAt)
		assert.Equal(t, recordedBy, expense.RecordedBy)
		require.Len(t, repo.created, 1)
	})

	t.Run("rejects a non-positive amount before any write", func(t *testing.T) {
		repo := &mockExpenseRepo{}
		service := NewExpenseService(repo)

		for _, amount := range []float64{0, -12.50} {
			_, err := service.CreateExpense(context.Background(), &CreateExpenseInput{
				Title:      "Bad entry",
				Amount:     amount,
				RecordedBy: recordedBy,
			})
			assert.ErrorIs(t, err, apperror.ErrInvalidAmount)
		}
		assert.Empty(t, repo.created)
	})

	t.Run("missing spend date defaults to today", func(t *testing.T) {
		repo := &mockExpenseRepo{}
		service := NewExpenseService(repo)

		expense, err := service.CreateExpense(context.Background(), &CreateExpenseInput{
			Title:      "Tea for the shop",
			Amount:     50,
			RecordedBy: recordedBy,
		})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), expense.SpentAt, 2*time.Second)
	})
}

func TestMonthlyTotal(t *testing.T) {
	t.Run("queries the half-open month window", func(t *testing.T) {
		repo := &mockExpenseRepo{rangeTotal: money.FromRupees(12300, 0)}
		service := NewExpenseService(repo)

		summary, err := service.MonthlyTotal(context.Background(), 2026, time.August)
		require.NoError(t, err)
		assert.Equal(t, 2026, summary.Year)
		assert.Equal(t, time.August, summary.Month)
		assert.Equal(t, money.FromRupees(12300, 0), summary.Total)

		assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local), repo.rangeStart)
		assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local), repo.rangeEnd)
	})

	t.Run("december rolls over to january", func(t *testing.T) {
		repo := &mockExpenseRepo{}
		service := NewExpenseService(repo)

		_, err := service.MonthlyTotal(context.Background(), 2026, time.December)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.Local), repo.rangeEnd)
	})
}

func TestListExpenses(t *testing.T) {
	repo := &mockExpenseRepo{}
	service := NewExpenseService(repo)

	_, err := service.CreateExpense(context.Background(), &CreateExpenseInput{
		Title:      "Shelf repair",
		Amount:     900,
		RecordedBy: uuid.New(),
	})
	require.NoError(t, err)

	result, err := service.ListExpenses(context.Background(), &repository.ExpenseFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 15},
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Pagination.Total)
}
