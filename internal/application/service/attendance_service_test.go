package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaanly/dukaanly-api/internal/domain/entity"
	"github.com/dukaanly/dukaanly-api/pkg/apperror"
	"github.com/dukaanly/dukaanly-api/pkg/pagination"
)

// mockAttendanceRepo keys records by employee and calendar day
type mockAttendanceRepo struct {
	records map[string]*entity.Attendance
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*entity.Attendance)}
}

func attendanceKey(employeeID uuid.UUID, day time.Time) string {
	return employeeID.String() + "/" + day.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Create(_ context.Context, record *entity.Attendance) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.records[attendanceKey(record.EmployeeID, record.WorkDate)] = record
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, record *entity.Attendance) error {
	m.records[attendanceKey(record.EmployeeID, record.WorkDate)] = record
	return nil
}

func (m *mockAttendanceRepo) GetForDay(_ context.Context, employeeID uuid.UUID, day time.Time) (*entity.Attendance, error) {
	return m.records[attendanceKey(employeeID, day)], nil
}

func (m *mockAttendanceRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, _ *pagination.PaginationParams) ([]entity.Attendance, int64, error) {
	var out []entity.Attendance
	for _, r := range m.records {
		if r.EmployeeID == employeeID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

// shopLocation centered on Karachi's Saddar area with a 150m radius
var testShop = ShopLocation{Lat: 24.8607, Lng: 67.0011, RadiusMeters: 150}

func newAttendanceFixture(at time.Time) (*AttendanceService, *mockAttendanceRepo) {
	repo := newMockAttendanceRepo()
	service := NewAttendanceService(repo, testShop)
	service.now = func() time.Time { return at }
	return service, repo
}

func TestCheckIn(t *testing.T) {
	morning := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	employeeID := uuid.New()

	t.Run("inside the geofence", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		record, err := service.CheckIn(context.Background(), employeeID, 24.8608, 67.0012)
		require.NoError(t, err)
		assert.Equal(t, morning, record.CheckInAt)
		assert.True(t, record.IsOpen())
	})

	t.Run("outside the geofence", func(t *testing.T) {
		service, repo := newAttendanceFixture(morning)
		// Lahore, roughly 1000km away
		_, err := service.CheckIn(context.Background(), employeeID, 31.5204, 74.3587)
		assert.ErrorIs(t, err, apperror.ErrOutsideGeofence)
		assert.Empty(t, repo.records)
	})

	t.Run("just past the radius", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		// ~0.002 degrees latitude is ~220m
		_, err := service.CheckIn(context.Background(), employeeID, 24.8627, 67.0011)
		assert.ErrorIs(t, err, apperror.ErrOutsideGeofence)
	})

	t.Run("second check-in on the same day conflicts", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		_, err := service.CheckIn(context.Background(), employeeID, 24.8607, 67.0011)
		require.NoError(t, err)

		_, err = service.CheckIn(context.Background(), employeeID, 24.8607, 67.0011)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})
}

func TestCheckOut(t *testing.T) {
	morning := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 9, 18, 30, 0, 0, time.UTC)
	employeeID := uuid.New()

	checkIn := func(t *testing.T, service *AttendanceService) {
		t.Helper()
		_, err := service.CheckIn(context.Background(), employeeID, 24.8607, 67.0011)
		require.NoError(t, err)
	}

	t.Run("closes the day's record", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		checkIn(t, service)
		service.now = func() time.Time { return evening }

		record, err := service.CheckOut(context.Background(), employeeID, 24.8607, 67.0011)
		require.NoError(t, err)
		require.NotNil(t, record.CheckOutAt)
		assert.Equal(t, evening, *record.CheckOutAt)
		assert.False(t, record.IsOpen())
	})

	t.Run("without a check-in", func(t *testing.T) {
		service, _ := newAttendanceFixture(evening)
		_, err := service.CheckOut(context.Background(), employeeID, 24.8607, 67.0011)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("second check-out conflicts", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		checkIn(t, service)

		_, err := service.CheckOut(context.Background(), employeeID, 24.8607, 67.0011)
		require.NoError(t, err)

		_, err = service.CheckOut(context.Background(), employeeID, 24.8607, 67.0011)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)
	})

	t.Run("must be inside the geofence", func(t *testing.T) {
		service, _ := newAttendanceFixture(morning)
		checkIn(t, service)

		_, err := service.CheckOut(context.Background(), employeeID, 31.5204, 74.3587)
		assert.ErrorIs(t, err, apperror.ErrOutsideGeofence)
	})
}

func TestHaversineMeters(t *testing.T) {
	assert.Zero(t, haversineMeters(24.8607, 67.0011, 24.8607, 67.0011))

	// Karachi to Lahore is roughly 1020km
	distance := haversineMeters(24.8607, 67.0011, 31.5204, 74.3587)
	assert.InDelta(t, 1_020_000, distance, 30_000)
}
