package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckRequest struct {
	UserID         string   `json:"-"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	Override       bool     `json:"override,omitempty"`
	OverrideReason string   `json:"override_reason,omitempty"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}

	if !geo.ValidLatitude(r.Latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}

	if !geo.ValidLongitude(r.Longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}

	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs.Add("accuracy", "accuracy must not be negative")
	}

	if r.Override && validator.IsEmpty(r.OverrideReason) {
		errs.Add("override_reason", "override_reason is required when override is set")
	}

	return errs.Err()
}

func (r *CheckRequest) Point() geo.Point {
	return geo.Point{Latitude: r.Latitude, Longitude: r.Longitude}
}

// CheckResult is the decision returned for a check-in or check-out.
type CheckResult struct {
	Accepted       bool                `json:"accepted"`
	Reason         string              `json:"reason,omitempty"`
	Status         string              `json:"status,omitempty"`
	EventType      string              `json:"event_type"`
	DistanceMeters *float64            `json:"distance_meters,omitempty"`
	RadiusMeters   *float64            `json:"radius_meters,omitempty"`
	Override       bool                `json:"override,omitempty"`
	Attendance     *AttendanceResponse `json:"attendance,omitempty"`
}

// RejectedResult builds the response body for a rejected submission.
func RejectedResult(event EventType, err error) CheckResult {
	res := CheckResult{
		Accepted:  false,
		Reason:    Reason(err),
		EventType: string(event),
	}
	var geoErr *OutsideGeofenceError
	if ok := asOutsideGeofence(err, &geoErr); ok {
		res.DistanceMeters = &geoErr.DistanceMeters
		res.RadiusMeters = &geoErr.RadiusMeters
	}
	return res
}

type StampResponse struct {
	Time           string   `json:"time"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	DistanceMeters float64  `json:"distance_meters"`
	Override       bool     `json:"override,omitempty"`
	OverrideReason *string  `json:"override_reason,omitempty"`
}

type AttendanceResponse struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Date          string         `json:"date"`
	CheckIn       *StampResponse `json:"check_in,omitempty"`
	CheckOut      *StampResponse `json:"check_out,omitempty"`
	Status        string         `json:"status"`
	WorkedMinutes *int           `json:"worked_minutes,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Date:          a.Date.Format(dateLayout),
		CheckIn:       stampResponse(a.CheckIn),
		CheckOut:      stampResponse(a.CheckOut),
		Status:        string(a.Status),
		WorkedMinutes: a.WorkedMinutes(),
		CreatedAt:     a.CreatedAt.Format(timestampLayout),
		UpdatedAt:     a.UpdatedAt.Format(timestampLayout),
	}
}

func stampResponse(s *Stamp) *StampResponse {
	if s == nil {
		return nil
	}
	return &StampResponse{
		Time:           s.Time.Format(time.RFC3339),
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		Accuracy:       s.Accuracy,
		DistanceMeters: s.DistanceMeters,
		Override:       s.Override,
		OverrideReason: s.OverrideReason,
	}
}

type TodayResponse struct {
	Date        string              `json:"date"`
	CanCheckIn  bool                `json:"can_check_in"`
	CanCheckOut bool                `json:"can_check_out"`
	Attendance  *AttendanceResponse `json:"attendance,omitempty"`
}

type MyAttendanceFilter struct {
	UserID    string  `json:"-"`
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil && *f.StartDate != "" {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}
