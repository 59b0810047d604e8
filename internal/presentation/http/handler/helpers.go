package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// GetUserID extracts the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	return roles.([]string)
}

// IsOwner checks if the user has the owner role
func IsOwner(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == "owner" {
			return true
		}
	}
	return false
}

// pageParams reads page/per_page query parameters, falling back to defaults
func pageParams(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if perPage, err := strconv.Atoi(c.Query("per_page")); err == nil {
		params.PerPage = perPage
	}
	return params
}
