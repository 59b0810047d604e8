package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/money"
)

// DashboardSummary holds the ledger totals shown on the dashboard. It is
// ephemeral: recomputed from the bill collection on every request, never
// cached across mutations.
type DashboardSummary struct {
	TotalBills     int64
	TotalBilled    money.Amount
	TotalReceived  money.Amount
	TotalRemaining money.Amount
}

// MarshalJSON custom marshaler to convert paisa to decimal for API responses
func (s DashboardSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		TotalBills     int64   `json:"total_bills"`
		TotalBilled    float64 `json:"total_billed"`
		TotalReceived  float64 `json:"total_received"`
		TotalRemaining float64 `json:"total_remaining"`
	}{
		TotalBills:     s.TotalBills,
		TotalBilled:    s.TotalBilled.Float64(),
		TotalReceived:  s.TotalReceived.Float64(),
		TotalRemaining: s.TotalRemaining.Float64(),
	})
}

// Summarize folds a bill collection into summary totals. Pure, single pass,
// no side effects: empty input yields the zero summary, and summaries of
// concatenated collections add field-wise.
func Summarize(bills []entity.Bill) DashboardSummary {
	var summary DashboardSummary
	for i := range bills {
		summary.TotalBills++
		summary.TotalBilled += bills[i].TotalAmount
		summary.TotalReceived += bills[i].AmountReceived
		summary.TotalRemaining += bills[i].Remaining()
	}
	return summary
}

// DashboardService provides ledger summary statistics
type DashboardService struct {
	billRepo repository.BillRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(billRepo repository.BillRepository) *DashboardService {
	return &DashboardService{billRepo: billRepo}
}

// GetSummary returns the ledger totals, optionally narrowed to one customer
func (s *DashboardService) GetSummary(ctx context.Context, customerID *uuid.UUID) (*DashboardSummary, error) {
	bills, err := s.billRepo.ListAll(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := Summarize(bills)
	return &summary, nil
}
