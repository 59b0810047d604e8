package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one employee's presence record for a working day. CheckOutAt
// is nil while the employee is still on premises; a day with a check-out is
// closed and cannot be reopened.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_employee_day" json:"employee_id"`
	WorkDate   time.Time `gorm:"type:date;not null;index:idx_attendance_employee_day" json:"work_date"`
	CheckInAt  time.Time `gorm:"not null" json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`
	// Coordinates reported at check-in, kept for audit
	CheckInLat float64        `json:"check_in_lat"`
	CheckInLng float64        `json:"check_in_lng"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsOpen reports whether the employee has checked in but not yet out
func (a *Attendance) IsOpen() bool {
	return a.CheckOutAt == nil
}

// BeforeCreate generates a UUID before creating a new attendance record
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Attendance model
func (Attendance) TableName() string {
	return "attendances"
}
