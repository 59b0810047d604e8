package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dukaanly/dukaanly-api/internal/application/service"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/dto/response"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create handles recording an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Category    string  `json:"category"`
		Amount      float64 `json:"amount" binding:"required"`
		SpentAt     string  `json:"spent_at"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var spentAt time.Time
	if req.SpentAt != "" {
		parsed, err := time.Parse("2006-01-02", req.SpentAt)
		if err != nil {
			response.BadRequest(c, "Invalid spent_at date, expected YYYY-MM-DD")
			return
		}
		spentAt = parsed
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), &service.CreateExpenseInput{
		Title:       req.Title,
		Category:    req.Category,
		Amount:      req.Amount,
		SpentAt:     spentAt,
		RecordedBy:  *userID,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Expense recorded successfully", expense)
}

// List handles listing expenses with filtering
func (h *ExpenseHandler) List(c *gin.Context) {
	params := &repository.ExpenseFilterParams{
		Pagination: pageParams(c),
		Category:   c.Query("category"),
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

	result, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Expenses retrieved successfully", result)
}

// MonthlySummary handles the monthly expense total. Defaults to the current
// month when year and month are not given.
func (h *ExpenseHandler) MonthlySummary(c *gin.Context) {
	now := time.Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	monthInt, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))

	if monthInt < 1 || monthInt > 12 {
		response.BadRequest(c, "Month must be between 1 and 12")
		return
	}

	summary, err := h.expenseService.MonthlyTotal(c.Request.Context(), year, time.Month(monthInt))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly expense summary retrieved successfully", summary)
}
