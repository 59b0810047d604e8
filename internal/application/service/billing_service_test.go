package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/money"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// mockBillRepo is an in-memory BillRepository
type mockBillRepo struct {
	bills       map[uuid.UUID]*entity.Bill
	payments    map[uuid.UUID][]entity.Transaction
	saveErr     error
	savedCount  int
	editedCount int
}

func newMockBillRepo() *mockBillRepo {
	return &mockBillRepo{
		bills:    make(map[uuid.UUID]*entity.Bill),
		payments: make(map[uuid.UUID][]entity.Transaction),
	}
}

func (m *mockBillRepo) add(bill *entity.Bill) {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	m.bills[bill.ID] = bill
}

func (m *mockBillRepo) Create(_ context.Context, bill *entity.Bill) error {
	m.add(bill)
	return nil
}

func (m *mockBillRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	return m.bills[id], nil
}

func (m *mockBillRepo) GetByBillNumber(_ context.Context, billNumber string) (*entity.Bill, error) {
	for _, b := range m.bills {
		if b.BillNumber == billNumber {
			return b, nil
		}
	}
	return nil, nil
}

func (m *mockBillRepo) GetWithPayments(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill := m.bills[id]
	if bill != nil {
		bill.Payments = m.payments[id]
	}
	return bill, nil
}

func (m *mockBillRepo) List(_ context.Context, _ *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (m *mockBillRepo) ListAll(_ context.Context, customerID *uuid.UUID) ([]entity.Bill, error) {
	var out []entity.Bill
	for _, b := range m.bills {
		if customerID != nil && (b.CustomerID == nil || *b.CustomerID != *customerID) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBillRepo) GetDueBills(_ context.Context, _ *pagination.PaginationParams) ([]entity.Bill, int64, error) {
	return nil, 0, nil
}

func (m *mockBillRepo) SavePayment(_ context.Context, bill *entity.Bill, payment *entity.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	m.bills[bill.ID] = bill
	m.payments[bill.ID] = append(m.payments[bill.ID], *payment)
	m.savedCount++
	return nil
}

func (m *mockBillRepo) SavePaymentEdit(_ context.Context, bill *entity.Bill, payment *entity.Transaction) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bills[bill.ID] = bill
	ledger := m.payments[bill.ID]
	for i := range ledger {
		if ledger[i].ID == payment.ID {
			ledger[i] = *payment
		}
	}
	m.editedCount++
	return nil
}

// mockTxRepo is an in-memory TransactionRepository backed by the bill repo
type mockTxRepo struct {
	bills *mockBillRepo
}

func (m *mockTxRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for _, ledger := range m.bills.payments {
		for i := range ledger {
			if ledger[i].ID == id {
				txn := ledger[i]
				return &txn, nil
			}
		}
	}
	return nil, nil
}

func (m *mockTxRepo) ListByBillID(_ context.Context, billID uuid.UUID) ([]entity.Transaction, error) {
	return m.bills.payments[billID], nil
}

// mockCustomerRepo is an in-memory CustomerRepository
type mockCustomerRepo struct {
	customers  map[uuid.UUID]*entity.Customer
	lastSearch string
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (m *mockCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return m.customers[id], nil
}

func (m *mockCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	m.lastSearch = search
	customers := make([]entity.Customer, 0, len(m.customers))
	for _, customer := range m.customers {
		customers = append(customers, *customer)
	}
	return customers, int64(len(customers)), nil
}

// mockNotifier records bill-cleared sends on a channel so tests can wait for
// the fire-and-forget goroutine
type mockNotifier struct {
	sent chan string
	err  error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan string, 4)}
}

func (m *mockNotifier) BillCleared(_ context.Context, phone, billNumber string, _ money.Amount) error {
	m.sent <- billNumber
	return m.err
}

func (m *mockNotifier) waitForSend(t *testing.T) string {
	t.Helper()
	select {
	case billNumber := <-m.sent:
		return billNumber
	case <-time.After(2 * time.Second):
		t.Fatal("expected a bill cleared notification")
		return ""
	}
}

func (m *mockNotifier) assertNoSend(t *testing.T) {
	t.Helper()
	select {
	case billNumber := <-m.sent:
		t.Fatalf("unexpected notification for %s", billNumber)
	case <-time.After(100 * time.Millisecond):
	}
}

type billingFixture struct {
	service  *BillingService
	billRepo *mockBillRepo
	custRepo *mockCustomerRepo
	notifier *mockNotifier
}

func newBillingFixture() *billingFixture {
	billRepo := newMockBillRepo()
	custRepo := newMockCustomerRepo()
	notifier := newMockNotifier()
	return &billingFixture{
		service:  NewBillingService(billRepo, &mockTxRepo{bills: billRepo}, custRepo, notifier),
		billRepo: billRepo,
		custRepo: custRepo,
		notifier: notifier,
	}
}

func (f *billingFixture) seedBill(t *testing.T, total float64, customer *entity.Customer) *entity.Bill {
	t.Helper()
	var customerID *uuid.UUID
	if customer != nil {
		require.NoError(t, f.custRepo.Create(context.Background(), customer))
		customerID = &customer.ID
	}
	bill, err := entity.NewBill("BILL-"+uuid.New().String()[:8], customerID, []entity.BillItem{
		{Name: "Item", Quantity: 1, UnitPrice: money.FromFloat(total)},
	}, money.Zero)
	require.NoError(t, err)
	bill.Customer = customer
	f.billRepo.add(bill)
	return bill
}

func TestCreateBill(t *testing.T) {
	t.Run("creates bill from items", func(t *testing.T) {
		f := newBillingFixture()
		bill, err := f.service.CreateBill(context.Background(), &CreateBillInput{
			Items: []BillItemInput{
				{Name: "Rice 10kg", Quantity: 2, UnitPrice: 1500, Discount: 100},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, money.FromRupees(2900, 0), bill.TotalAmount)
		assert.NotEmpty(t, bill.BillNumber)
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		f := newBillingFixture()
		unknown := uuid.New()
		_, err := f.service.CreateBill(context.Background(), &CreateBillInput{
			CustomerID: &unknown,
			Items:      []BillItemInput{{Name: "Item", Quantity: 1, UnitPrice: 100}},
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})

	t.Run("rejects duplicate bill number", func(t *testing.T) {
		f := newBillingFixture()
		_, err := f.service.CreateBill(context.Background(), &CreateBillInput{
			BillNumber: "BILL-0001",
			Items:      []BillItemInput{{Name: "Item", Quantity: 1, UnitPrice: 100}},
		})
		require.NoError(t, err)

		_, err = f.service.CreateBill(context.Background(), &CreateBillInput{
			BillNumber: "BILL-0001",
			Items:      []BillItemInput{{Name: "Item", Quantity: 1, UnitPrice: 100}},
		})
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})
}

func TestRecordPayment(t *testing.T) {
	t.Run("cash payment without receiver name fails before any write", func(t *testing.T) {
		f := newBillingFixture()
		bill := f.seedBill(t, 1000, nil)

		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID,
			Amount: 200,
			Method: enum.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, apperror.ErrMissingPayerIdentity)
		assert.Zero(t, f.billRepo.savedCount)
	})

	t.Run("bank transfer without reference fails regardless of amount validity", func(t *testing.T) {
		f := newBillingFixture()
		bill := f.seedBill(t, 1000, nil)

		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID:       bill.ID,
			Amount:       200,
			Method:       enum.PaymentMethodBankTransfer,
			MethodDetail: "  ",
		})
		assert.ErrorIs(t, err, apperror.ErrMissingTransactionReference)
		assert.Equal(t, money.Zero, bill.AmountReceived, "bill state unchanged")
	})

	t.Run("partial payment does not clear or notify", func(t *testing.T) {
		f := newBillingFixture()
		phone := "+923001234567"
		bill := f.seedBill(t, 1000, &entity.Customer{Name: "Ahmed", Phone: &phone})

		result, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID:       bill.ID,
			Amount:       600,
			Method:       enum.PaymentMethodCash,
			MethodDetail: "Bilal",
		})
		require.NoError(t, err)
		assert.False(t, result.ClearedNow)
		assert.Equal(t, money.FromRupees(400, 0), result.Bill.Remaining())
		assert.Equal(t, money.FromRupees(600, 0), result.Payment.Amount)
		f.notifier.assertNoSend(t)
	})

	t.Run("clearing payment notifies the customer once", func(t *testing.T) {
		f := newBillingFixture()
		phone := "+923001234567"
		bill := f.seedBill(t, 1000, &entity.Customer{Name: "Ahmed", Phone: &phone})

		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 600, Method: enum.PaymentMethodJazzCash,
		})
		require.NoError(t, err)

		result, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 400, Method: enum.PaymentMethodEasyPaisa,
		})
		require.NoError(t, err)
		assert.True(t, result.ClearedNow)
		assert.True(t, result.Bill.IsCleared())

		assert.Equal(t, bill.BillNumber, f.notifier.waitForSend(t))
		f.notifier.assertNoSend(t)
	})

	t.Run("customer without phone is skipped, not an error", func(t *testing.T) {
		f := newBillingFixture()
		bill := f.seedBill(t, 500, &entity.Customer{Name: "Walk-in"})

		result, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 500, Method: enum.PaymentMethodJazzCash,
		})
		require.NoError(t, err)
		assert.True(t, result.ClearedNow)
		f.notifier.assertNoSend(t)
	})

	t.Run("notification failure does not fail the payment", func(t *testing.T) {
		f := newBillingFixture()
		f.notifier.err = assert.AnError
		phone := "+923001234567"
		bill := f.seedBill(t, 500, &entity.Customer{Name: "Ahmed", Phone: &phone})

		result, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 500, Method: enum.PaymentMethodJazzCash,
		})
		require.NoError(t, err)
		assert.True(t, result.ClearedNow)
		f.notifier.waitForSend(t)
	})

	t.Run("overshoot on a cleared bill fails with ExceedsRemaining", func(t *testing.T) {
		f := newBillingFixture()
		bill := f.seedBill(t, 1000, nil)

		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 1000, Method: enum.PaymentMethodJazzCash,
		})
		require.NoError(t, err)

		_, err = f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 0.01, Method: enum.PaymentMethodJazzCash,
		})
		assert.ErrorIs(t, err, apperror.ErrExceedsRemaining)
	})

	t.Run("persistence conflict propagates without notification", func(t *testing.T) {
		f := newBillingFixture()
		phone := "+923001234567"
		bill := f.seedBill(t, 500, &entity.Customer{Name: "Ahmed", Phone: &phone})
		f.billRepo.saveErr = apperror.ErrConflict

		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: 500, Method: enum.PaymentMethodJazzCash,
		})
		assert.ErrorIs(t, err, apperror.ErrConflict)
		f.notifier.assertNoSend(t)
	})

	t.Run("missing bill", func(t *testing.T) {
		f := newBillingFixture()
		_, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: uuid.New(), Amount: 100, Method: enum.PaymentMethodJazzCash,
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestEditPayment(t *testing.T) {
	seedWithPayment := func(t *testing.T, f *billingFixture, total, paid float64) (*entity.Bill, uuid.UUID) {
		bill := f.seedBill(t, total, nil)
		result, err := f.service.RecordPayment(context.Background(), &RecordPaymentInput{
			BillID: bill.ID, Amount: paid, Method: enum.PaymentMethodJazzCash,
		})
		require.NoError(t, err)
		return bill, result.Payment.ID
	}

	t.Run("edit re-sums the ledger", func(t *testing.T) {
		f := newBillingFixture()
		bill, paymentID := seedWithPayment(t, f, 1000, 400)

		updated, err := f.service.EditPayment(context.Background(), &EditPaymentInput{
			TransactionID: paymentID,
			Amount:        300,
			Method:        enum.PaymentMethodCash,
			MethodDetail:  "Bilal",
		})
		require.NoError(t, err)
		assert.Equal(t, money.FromRupees(300, 0), updated.AmountReceived)
		assert.Equal(t, money.FromRupees(700, 0), updated.Remaining())
		assert.Equal(t, bill.ID, updated.ID)
	})

	t.Run("edit cannot push the ledger past the total", func(t *testing.T) {
		f := newBillingFixture()
		_, paymentID := seedWithPayment(t, f, 1000, 400)

		_, err := f.service.EditPayment(context.Background(), &EditPaymentInput{
			TransactionID: paymentID,
			Amount:        1100,
			Method:        enum.PaymentMethodJazzCash,
		})
		assert.ErrorIs(t, err, apperror.ErrExceedsRemaining)
		assert.Zero(t, f.billRepo.editedCount)
	})

	t.Run("edit enforces method detail rules too", func(t *testing.T) {
		f := newBillingFixture()
		_, paymentID := seedWithPayment(t, f, 1000, 400)

		_, err := f.service.EditPayment(context.Background(), &EditPaymentInput{
			TransactionID: paymentID,
			Amount:        400,
			Method:        enum.PaymentMethodBankTransfer,
		})
		assert.ErrorIs(t, err, apperror.ErrMissingTransactionReference)
	})
}
