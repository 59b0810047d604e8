package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/money"
	"github.com/dukaanly/dukaanly-api/pkg/notify"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
	"github.com/dukaanly/dukaanly-api/pkg/utils"
)

// BillingService handles bill and payment operations
type BillingService struct {
	billRepo     repository.BillRepository
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	notifier     notify.Notifier
}

// NewBillingService creates a new billing service
func NewBillingService(
	billRepo repository.BillRepository,
	txRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	notifier notify.Notifier,
) *BillingService {
	return &BillingService{
		billRepo:     billRepo,
		txRepo:       txRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
	}
}

// BillItemInput represents a line item in a bill
type BillItemInput struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Discount  float64
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	BillNumber    string
	CustomerID    *uuid.UUID
	InitialCredit float64
	Items         []BillItemInput
}

// CreateBill creates a new bill with its line items. The total is fixed here
// and never changes afterwards.
func (s *BillingService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	billNumber := strings.TrimSpace(input.BillNumber)
	if billNumber == "" {
		billNumber = utils.GenerateBillNumber()
	} else {
		existing, err := s.billRepo.GetByBillNumber(ctx, billNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Bill number already in use")
		}
	}

	items := make([]entity.BillItem, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be greater than zero")
		}
		items[i] = entity.BillItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money.FromFloat(item.UnitPrice),
			Discount:  money.FromFloat(item.Discount),
		}
	}

	bill, err := entity.NewBill(billNumber, input.CustomerID, items, money.FromFloat(input.InitialCredit))
	if err != nil {
		return nil, err
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return s.billRepo.GetWithPayments(ctx, bill.ID)
}

// RecordPaymentInput represents a payment against a bill
type RecordPaymentInput struct {
	BillID       uuid.UUID
	Amount       float64
	Method       enum.PaymentMethod
	MethodDetail string
}

// PaymentResult is returned after a payment is applied
type PaymentResult struct {
	Bill       *entity.Bill        `json:"bill"`
	Payment    *entity.Transaction `json:"payment"`
	ClearedNow bool                `json:"cleared_now"`
}

// RecordPayment validates and applies one payment against a bill. All
// validation happens before any write; the bill update and the payment event
// are persisted atomically. When the payment clears the bill the customer is
// notified fire-and-forget: a failed send is logged and never rolls back the
// payment.
func (s *BillingService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	if err := validateMethodDetail(input.Method, input.MethodDetail); err != nil {
		return nil, err
	}

	bill, err := s.billRepo.GetByID(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	amount := money.FromFloat(input.Amount)
	_, justCleared, err := bill.ApplyPayment(amount)
	if err != nil {
		return nil, err
	}

	payment := &entity.Transaction{
		BillID:       bill.ID,
		Amount:       amount,
		Method:       input.Method,
		MethodDetail: strings.TrimSpace(input.MethodDetail),
	}

	if err := s.billRepo.SavePayment(ctx, bill, payment); err != nil {
		return nil, err
	}

	if justCleared {
		s.notifyCleared(bill)
	}

	return &PaymentResult{
		Bill:       bill,
		Payment:    payment,
		ClearedNow: justCleared,
	}, nil
}

// EditPaymentInput represents an edit to a recorded payment
type EditPaymentInput struct {
	TransactionID uuid.UUID
	Amount        float64
	Method        enum.PaymentMethod
	MethodDetail  string
}

// EditPayment changes a recorded payment's amount or method. The bill's
// received total is rebuilt by re-summing the full payment ledger with the
// edit substituted in, and the new sum is validated against the bill total,
// so over-payment through the edit path is rejected server-side.
func (s *BillingService) EditPayment(ctx context.Context, input *EditPaymentInput) (*entity.Bill, error) {
	if err := validateMethodDetail(input.Method, input.MethodDetail); err != nil {
		return nil, err
	}

	amount := money.FromFloat(input.Amount)
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	payment, err := s.txRepo.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	bill, err := s.billRepo.GetByID(ctx, payment.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	ledger, err := s.txRepo.ListByBillID(ctx, bill.ID)
	if err != nil {
		return nil, err
	}

	payment.Amount = amount
	payment.Method = input.Method
	payment.MethodDetail = strings.TrimSpace(input.MethodDetail)
	for i := range ledger {
		if ledger[i].ID == payment.ID {
			ledger[i] = *payment
		}
	}

	if err := bill.Resettle(ledger); err != nil {
		return nil, err
	}

	if err := s.billRepo.SavePaymentEdit(ctx, bill, payment); err != nil {
		return nil, err
	}

	return bill, nil
}

// GetBill retrieves a bill with its items and payment history
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills with filtering
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// GetDueBills returns bills with an outstanding balance
func (s *BillingService) GetDueBills(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.GetDueBills(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// notifyCleared sends the bill-cleared notification when the customer has a
// phone on file. Absence of a contact channel is not an error.
func (s *BillingService) notifyCleared(bill *entity.Bill) {
	if bill.CustomerID == nil || bill.Customer == nil || bill.Customer.Phone == nil || *bill.Customer.Phone == "" {
		return
	}

	phone := *bill.Customer.Phone
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.BillCleared(ctx, phone, bill.BillNumber, bill.TotalAmount); err != nil {
			log.Printf("Warning: failed to send bill cleared notification for %s: %v", bill.BillNumber, err)
		}
	}()
}

// validateMethodDetail enforces the per-method required detail before any
// numeric validation or persistence happens.
func validateMethodDetail(method enum.PaymentMethod, detail string) error {
	if !method.IsValid() {
		return apperror.NewBadRequestError("Unknown payment method")
	}
	if !method.RequiresDetail() {
		return nil
	}

	if strings.TrimSpace(detail) == "" {
		if method == enum.PaymentMethodCash {
			return apperror.ErrMissingPayerIdentity
		}
		return apperror.ErrMissingTransactionReference
	}
	return nil
}
