package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/application/service"
	"github.com/dukaanly/dukaanly-api/internal/presentation/http/dto/response"
)

// AttendanceHandler handles attendance HTTP requests
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

type locationRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// CheckIn handles an employee check-in. The employee is taken from the
// authenticated user, the coordinates from the request body.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.attendanceService.CheckIn(c.Request.Context(), *userID, req.Lat, req.Lng)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checked in successfully", record)
}

// CheckOut handles an employee check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.attendanceService.CheckOut(c.Request.Context(), *userID, req.Lat, req.Lng)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Checked out successfully", record)
}

// List handles listing attendance history. Employees see their own records;
// the shop owner may pass employee_id to view another employee's.
func (h *AttendanceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	employeeID := *userID
	if employeeIDStr := c.Query("employee_id"); employeeIDStr != "" {
		parsed, err := uuid.Parse(employeeIDStr)
		if err != nil {
			response.BadRequest(c, "Invalid employee ID")
			return
		}
		if parsed != *userID && !IsOwner(c) {
			response.Forbidden(c, "Only the owner can view other employees' attendance")
			return
		}
		employeeID = parsed
	}

	result, err := h.attendanceService.ListAttendance(c.Request.Context(), employeeID, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Attendance retrieved successfully", result)
}
