package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	domainRepo "github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByBillNumber(ctx context.Context, billNumber string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).First(&bill, "bill_number = ?", billNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetWithPayments(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{})

	if params.Search != "" {
		query = query.Where("bill_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("bill_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListAll(ctx context.Context, customerID *uuid.UUID) ([]entity.Bill, error) {
	var bills []entity.Bill

	query := r.db.WithContext(ctx).Model(&entity.Bill{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	err := query.Find(&bills).Error
	return bills, err
}

func (r *billRepository) GetDueBills(ctx context.Context, params *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("amount_received < total_amount")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("bill_date ASC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) SavePayment(ctx context.Context, bill *entity.Bill, payment *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateBillChecked(tx, bill); err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

func (r *billRepository) SavePaymentEdit(ctx context.Context, bill *entity.Bill, payment *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateBillChecked(tx, bill); err != nil {
			return err
		}
		return tx.Model(&entity.Transaction{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"amount":        payment.Amount,
				"method":        payment.Method,
				"method_detail": payment.MethodDetail,
				"updated_at":    time.Now(),
			}).Error
	})
}

// updateBillChecked writes the bill totals guarded by the version column. A
// concurrent writer bumps the version first, the WHERE clause then matches no
// rows and the caller gets ErrConflict so it can reload and retry.
func (r *billRepository) updateBillChecked(tx *gorm.DB, bill *entity.Bill) error {
	result := tx.Model(&entity.Bill{}).
		Where("id = ? AND version = ?", bill.ID, bill.Version).
		Updates(map[string]interface{}{
			"amount_received": bill.AmountReceived,
			"status":          bill.Status,
			"version":         bill.Version + 1,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrConflict
	}
	bill.Version++
	return nil
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new payment event repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var txn entity.Transaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *transactionRepository) ListByBillID(ctx context.Context, billID uuid.UUID) ([]entity.Transaction, error) {
	var txns []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}
