package attendance

import (
	"context"
	"time"
)

// AttendanceService decides check-in/check-out submissions.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckRequest) (CheckResult, error)
	CheckOut(ctx context.Context, req CheckRequest) (CheckResult, error)

	// Today reports the caller's record for the current work day.
	Today(ctx context.Context, userID string) (TodayResponse, error)
	ListMine(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// MarkAbsences fills absent/on_leave records for users without one on day.
	MarkAbsences(ctx context.Context, day time.Time) (int, error)
}
