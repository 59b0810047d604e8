package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	domainRepo "github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) domainRepo.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *entity.Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) Update(ctx context.Context, record *entity.Attendance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *attendanceRepository) GetForDay(ctx context.Context, employeeID uuid.UUID, day time.Time) (*entity.Attendance, error) {
	var record entity.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, day).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams) ([]entity.Attendance, int64, error) {
	var records []entity.Attendance
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Attendance{}).
		Where("employee_id = ?", employeeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("work_date DESC").
		Find(&records).Error

	return records, total, err
}
