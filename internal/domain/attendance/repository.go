package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// (user_id, date) is unique.
type AttendanceRepository interface {
	// Create inserts a record with its check-in. Returns ErrAlreadyCheckedIn
	// when a record for (user_id, date) already exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// CreateIfMissing inserts a record without stamps unless one exists.
	CreateIfMissing(ctx context.Context, attendance Attendance) (bool, error)

	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// GetByUserAndDateForUpdate locks the record until the surrounding
	// transaction ends. Returns ErrAttendanceNotFound when absent.
	GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// Update persists the stamps and status of an existing record.
	Update(ctx context.Context, attendance Attendance) error

	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]Attendance, error)
}
