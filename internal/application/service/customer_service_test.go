package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

func TestCreateCustomer(t *testing.T) {
	repo := newMockCustomerRepo()
	service := NewCustomerService(repo)

	phone := "+923001234567"
	customer, err := service.CreateCustomer(context.Background(), &CreateCustomerInput{
		Name:  "Bashir Ahmed",
		Phone: &phone,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	assert.Equal(t, "Bashir Ahmed", customer.Name)
	require.NotNil(t, customer.Phone)
	assert.Equal(t, phone, *customer.Phone)
}

func TestGetCustomer(t *testing.T) {
	repo := newMockCustomerRepo()
	service := NewCustomerService(repo)

	t.Run("returns the stored customer", func(t *testing.T) {
		created, err := service.CreateCustomer(context.Background(), &CreateCustomerInput{Name: "Saima Bibi"})
		require.NoError(t, err)

		got, err := service.GetCustomer(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Saima Bibi", got.Name)
	})

	t.Run("unknown ID is not found", func(t *testing.T) {
		_, err := service.GetCustomer(context.Background(), uuid.New())
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestListCustomers(t *testing.T) {
	repo := newMockCustomerRepo()
	service := NewCustomerService(repo)

	for _, name := range []string{"Bashir Ahmed", "Saima Bibi"} {
		_, err := service.CreateCustomer(context.Background(), &CreateCustomerInput{Name: name})
		require.NoError(t, err)
	}

	result, err := service.ListCustomers(context.Background(), &pagination.PaginationParams{Page: 1, PerPage: 15}, "bashir")
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Pagination.Total)
	assert.Equal(t, "bashir", repo.lastSearch)
}
