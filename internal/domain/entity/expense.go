package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/pkg/money"
)

// Expense records one shop outgoing (rent, utilities, stock purchases paid
// outside the billing ledger).
type Expense struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Category    string         `gorm:"size:100" json:"category"`
	Amount      money.Amount   `gorm:"not null" json:"-"` // Stored in paisa, excluded from JSON
	SpentAt     time.Time      `gorm:"type:date;not null;index" json:"spent_at"`
	RecordedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (e Expense) MarshalJSON() ([]byte, error) {
	type Alias Expense
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: e.Amount.Float64(),
	})
}

// BeforeCreate generates a UUID before creating a new expense
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Expense model
func (Expense) TableName() string {
	return "expenses"
}
