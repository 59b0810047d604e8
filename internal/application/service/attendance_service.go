package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/internal/domain/repository"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

const earthRadiusMeters = 6371000.0

// ShopLocation is the geofence center and radius for attendance check-ins
type ShopLocation struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
}

// AttendanceService handles geofenced employee check-in and check-out
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	location       ShopLocation
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(attendanceRepo repository.AttendanceRepository, location ShopLocation) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		location:       location,
		now:            time.Now,
	}
}

// CheckIn opens today's attendance record for the employee. The reported
// coordinates must fall inside the shop geofence, and an employee can only
// check in once per working day.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID uuid.UUID, lat, lng float64) (*entity.Attendance, error) {
	if !s.withinGeofence(lat, lng) {
		return nil, apperror.ErrOutsideGeofence
	}

	today := s.workDay()
	existing, err := s.attendanceRepo.GetForDay(ctx, employeeID, today)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Already checked in today")
	}

	record := &entity.Attendance{
		EmployeeID: employeeID,
		WorkDate:   today,
		CheckInAt:  s.now(),
		CheckInLat: lat,
		CheckInLng: lng,
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// CheckOut closes today's attendance record. Requires an open check-in; the
// closing coordinates are gated like the opening ones.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID uuid.UUID, lat, lng float64) (*entity.Attendance, error) {
	if !s.withinGeofence(lat, lng) {
		return nil, apperror.ErrOutsideGeofence
	}

	record, err := s.attendanceRepo.GetForDay(ctx, employeeID, s.workDay())
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewBadRequestError("No check-in recorded today")
	}
	if !record.IsOpen() {
		return nil, apperror.NewConflictError("Already checked out today")
	}

	checkedOut := s.now()
	record.CheckOutAt = &checkedOut
	if err := s.attendanceRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListAttendance returns an employee's attendance history
func (s *AttendanceService) ListAttendance(ctx context.Context, employeeID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Attendance], error) {
	records, total, err := s.attendanceRepo.ListByEmployee(ctx, employeeID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(records, pag), nil
}

func (s *AttendanceService) withinGeofence(lat, lng float64) bool {
	return haversineMeters(s.location.Lat, s.location.Lng, lat, lng) <= s.location.RadiusMeters
}

// workDay truncates the current time to the local calendar date
func (s *AttendanceService) workDay() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// haversineMeters returns the great-circle distance between two coordinates
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
