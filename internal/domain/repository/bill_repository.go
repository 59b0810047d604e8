package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNumber(ctx context.Context, billNumber string) (*entity.Bill, error)
	GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// ListAll returns every matching bill without pagination, for the
	// dashboard fold. customerID narrows to one customer's ledger when set.
	ListAll(ctx context.Context, customerID *uuid.UUID) ([]entity.Bill, error)
	GetDueBills(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error)
	// SavePayment persists the updated bill totals and appends the payment
	// event in one transaction. The bill row is written with an optimistic
	// version check; a stale version returns apperror.ErrConflict and
	// nothing is written.
	SavePayment(ctx context.Context, bill *entity.Bill, payment *entity.Transaction) error
	// SavePaymentEdit persists the re-settled bill totals and the edited
	// payment event in one transaction, under the same version check.
	SavePaymentEdit(ctx context.Context, bill *entity.Bill, payment *entity.Transaction) error
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BillStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// TransactionRepository defines the interface for payment event data operations
type TransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	ListByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Transaction, error)
}
