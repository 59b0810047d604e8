package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/application/service"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary handles the dashboard summary, optionally scoped to one customer
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	var customerID *uuid.UUID
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		id, err := uuid.Parse(customerIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	summary, err := h.dashboardService.GetSummary(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard summary retrieved successfully", summary)
}
