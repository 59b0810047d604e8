package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// AttendanceRepository defines the interface for attendance data operations
type AttendanceRepository interface {
	Create(ctx context.Context, record *entity.Attendance) error
	Update(ctx context.Context, record *entity.Attendance) error
	// GetForDay returns the employee's record for the given work date, or
	// nil when the employee has not checked in that day.
	GetForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (*entity.Attendance, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Attendance, int64, error)
}
