package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/money"
)

// Bill represents one invoice in the customer ledger. TotalAmount is fixed at
// creation; AmountReceived is a cached sum of the bill's payment history plus
// the initial credit and must always equal that sum. RemainingAmount is never
// stored, always derived.
type Bill struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillNumber     string          `gorm:"size:100;unique;not null" json:"bill_number"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	BillDate       time.Time       `gorm:"type:date;not null" json:"bill_date"`
	Status         enum.BillStatus `gorm:"default:0" json:"status"`
	TotalAmount    money.Amount    `gorm:"not null" json:"-"` // Stored in paisa, excluded from JSON
	AmountReceived money.Amount    `gorm:"default:0" json:"-"` // Stored in paisa, excluded from JSON
	InitialCredit  money.Amount    `gorm:"default:0" json:"-"` // Stored in paisa, excluded from JSON
	Version        int64           `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem    `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments []Transaction `gorm:"foreignKey:BillID" json:"payments,omitempty"`
}

// NewBill creates a bill from its line items. The total is the sum of the
// item totals (unit price after per-item discount times quantity) and is
// immutable afterwards. The initial credit is clamped to [0, total]; a fully
// credited bill is born cleared without any payment event.
func NewBill(billNumber string, customerID *uuid.UUID, items []BillItem, initialCredit money.Amount) (*Bill, error) {
	var total money.Amount
	for i := range items {
		items[i].Total = items[i].UnitPrice*money.Amount(items[i].Quantity) - items[i].Discount
		total += items[i].Total
	}

	if !total.IsPositive() {
		return nil, apperror.ErrInvalidAmount
	}

	if initialCredit.IsNegative() {
		initialCredit = money.Zero
	}
	if initialCredit > total {
		initialCredit = total
	}

	bill := &Bill{
		BillNumber:     billNumber,
		CustomerID:     customerID,
		BillDate:       time.Now(),
		TotalAmount:    total,
		AmountReceived: initialCredit,
		InitialCredit:  initialCredit,
		Items:          items,
	}
	if bill.IsCleared() {
		bill.Status = enum.BillStatusCleared
	}

	return bill, nil
}

// Remaining returns the outstanding balance, clamped at zero.
func (b *Bill) Remaining() money.Amount {
	remaining := b.TotalAmount - b.AmountReceived
	if remaining.IsNegative() {
		return money.Zero
	}
	return remaining
}

// IsCleared reports whether the bill has no outstanding balance.
func (b *Bill) IsCleared() bool {
	return b.Remaining() == money.Zero
}

// ApplyPayment is the only legal state transition on a bill. It fails with
// ErrInvalidAmount for non-positive amounts and ErrExceedsRemaining when the
// payment is larger than the outstanding balance; on failure the bill is left
// untouched. justCleared is true only on the open to cleared transition, so a
// caller can fire the clearing notification exactly once.
func (b *Bill) ApplyPayment(amount money.Amount) (remaining money.Amount, justCleared bool, err error) {
	if !amount.IsPositive() {
		return b.Remaining(), false, apperror.ErrInvalidAmount
	}
	if amount > b.Remaining() {
		return b.Remaining(), false, apperror.ErrExceedsRemaining
	}

	wasCleared := b.IsCleared()
	b.AmountReceived += amount
	if b.IsCleared() {
		b.Status = enum.BillStatusCleared
	}

	return b.Remaining(), !wasCleared && b.IsCleared(), nil
}

// Resettle recomputes AmountReceived from the authoritative payment ledger.
// Used after a payment edit: the cached sum is rebuilt by re-summing, never
// by delta patching, so edits can't drift. Fails with ErrExceedsRemaining if
// the new ledger would overshoot the total, leaving the bill untouched.
func (b *Bill) Resettle(payments []Transaction) error {
	sum := b.InitialCredit
	for i := range payments {
		sum += payments[i].Amount
	}

	if sum > b.TotalAmount {
		return apperror.ErrExceedsRemaining
	}

	b.AmountReceived = sum
	if b.IsCleared() {
		b.Status = enum.BillStatusCleared
	} else {
		b.Status = enum.BillStatusOpen
	}
	return nil
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		TotalAmount     float64 `json:"total_amount"`
		AmountReceived  float64 `json:"amount_received"`
		RemainingAmount float64 `json:"remaining_amount"`
	}{
		Alias:           Alias(b),
		TotalAmount:     b.TotalAmount.Float64(),
		AmountReceived:  b.AmountReceived.Float64(),
		RemainingAmount: b.Remaining().Float64(),
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem represents a line item on a bill. The unit price and per-item
// discount are fixed at bill creation.
type BillItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BillID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"bill_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice money.Amount   `gorm:"not null" json:"-"` // Stored in paisa, excluded from JSON
	Discount  money.Amount   `gorm:"default:0" json:"-"` // Stored in paisa, excluded from JSON
	Total     money.Amount   `gorm:"not null" json:"-"` // Stored in paisa, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(bi),
		UnitPrice: bi.UnitPrice.Float64(),
		Discount:  bi.Discount.Float64(),
		Total:     bi.Total.Float64(),
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
