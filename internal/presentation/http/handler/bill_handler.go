package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/application/service"
	"github.com/dukaanly/dukaanly-api/internal/domain/enum"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/dto/response"
)

// BillHandler handles bill and payment HTTP requests
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// List handles listing bills with filtering
func (h *BillHandler) List(c *gin.Context) {
	params := &repository.BillFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.BillStatus(statusInt)
			params.Status = &status
		}
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Create handles creating a bill
func (h *BillHandler) Create(c *gin.Context) {
	var req struct {
		BillNumber    string     `json:"bill_number"`
		CustomerID    *uuid.UUID `json:"customer_id"`
		InitialCredit float64    `json:"initial_credit"`
		Items         []struct {
			Name      string  `json:"name" binding:"required"`
			Quantity  int     `json:"quantity" binding:"required"`
			UnitPrice float64 `json:"unit_price"`
			Discount  float64 `json:"discount"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BillItemInput{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		}
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		BillNumber:    req.BillNumber,
		CustomerID:    req.CustomerID,
		InitialCredit: req.InitialCredit,
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Get handles getting a single bill with its payment history
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// GetDueBills handles listing bills with an outstanding balance
func (h *BillHandler) GetDueBills(c *gin.Context) {
	result, err := h.billingService.GetDueBills(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Due bills retrieved successfully", result)
}

// RecordPayment handles recording a payment against a bill
func (h *BillHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Amount       float64             `json:"amount"`
		Method       *enum.PaymentMethod `json:"method"`
		MethodDetail string              `json:"method_detail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	// Amount validity is the aggregate's call; a missing method is not
	if req.Method == nil {
		response.BadRequest(c, "Payment method is required")
		return
	}

	result, err := h.billingService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		BillID:       id,
		Amount:       req.Amount,
		Method:       *req.Method,
		MethodDetail: req.MethodDetail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", result)
}

// EditPayment handles correcting a recorded payment
func (h *BillHandler) EditPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req struct {
		Amount       float64             `json:"amount"`
		Method       *enum.PaymentMethod `json:"method"`
		MethodDetail string              `json:"method_detail"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.Method == nil {
		response.BadRequest(c, "Payment method is required")
		return
	}

	bill, err := h.billingService.EditPayment(c.Request.Context(), &service.EditPaymentInput{
		TransactionID: id,
		Amount:        req.Amount,
		Method:        *req.Method,
		MethodDetail:  req.MethodDetail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", bill)
}
