package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/pkg/money"
)

// Transaction is one discrete payment applied against a bill. The bill's
// transactions are the authoritative ledger; the bill's AmountReceived is a
// cached sum over them.
type Transaction struct {
	ID     uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BillID uuid.UUID          `gorm:"type:uuid;not null;index" json:"bill_id"`
	Amount money.Amount       `gorm:"not null" json:"-"` // Stored in paisa, excluded from JSON
	Method enum.PaymentMethod `gorm:"not null" json:"method"`
	// MethodDetail is the receiver's name for cash payments and the bank
	// transaction reference for transfers; empty for other methods.
	MethodDetail string         `gorm:"size:255" json:"method_detail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(t),
		Amount: t.Amount.Float64(),
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
