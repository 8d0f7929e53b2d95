package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrNoCheckInFound     = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out today")
	ErrOutsideGeofence    = errors.New("you are outside the allowed radius")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutsideGeofenceError is returned when a fix lies outside the work site radius.
// It matches ErrOutsideGeofence with errors.Is.
type OutsideGeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("%s: %.1fm from work site, radius %.1fm", ErrOutsideGeofence, e.DistanceMeters, e.RadiusMeters)
}

func (e *OutsideGeofenceError) Is(target error) bool {
	return target == ErrOutsideGeofence
}

// Reason returns the machine-readable rejection reason for err, or "".
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrOutsideGeofence):
		return "outside_geofence"
	case errors.Is(err, ErrAlreadyCheckedIn):
		return "already_checked_in"
	case errors.Is(err, ErrNoCheckInFound):
		return "no_check_in_found"
	case errors.Is(err, ErrAlreadyCheckedOut):
		return "already_checked_out"
	}
	return ""
}

func asOutsideGeofence(err error, target **OutsideGeofenceError) bool {
	return errors.As(err, target)
}
