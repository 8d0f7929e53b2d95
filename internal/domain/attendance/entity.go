package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"
)

type EventType string

const (
	EventCheckIn  EventType = "check_in"
	EventCheckOut EventType = "check_out"
)

// Stamp is an accepted check-in or check-out.
type Stamp struct {
	Time           time.Time
	Latitude       float64
	Longitude      float64
	Accuracy       *float64
	DistanceMeters float64

	// Override marks a submission accepted outside the geofence after the
	// user explicitly confirmed it.
	Override       bool
	OverrideReason *string
}

type Attendance struct {
	ID         string
	UserID     string
	Date       time.Time // local work day, midnight UTC
	WorkSiteID *string
	CheckIn    *Stamp
	CheckOut   *Stamp
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkedMinutes returns minutes between check-in and check-out, or nil.
func (a *Attendance) WorkedMinutes() *int {
	if a.CheckIn == nil || a.CheckOut == nil {
		return nil
	}
	m := int(a.CheckOut.Time.Sub(a.CheckIn.Time).Minutes())
	return &m
}

// Shift is the configured working-day boundary used for lateness.
type Shift struct {
	Start              time.Duration // offset from local midnight
	GracePeriodMinutes int
	Location           *time.Location
}

// WorkDay returns the local calendar day of t as midnight UTC.
func (s Shift) WorkDay(t time.Time) time.Time {
	local := t.In(s.loc())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify returns present when t is at or before shift start plus grace,
// late otherwise.
func (s Shift) Classify(t time.Time) Status {
	local := t.In(s.loc())
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc())
	boundary := midnight.Add(s.Start).Add(time.Duration(s.GracePeriodMinutes) * time.Minute)
	if local.After(boundary) {
		return StatusLate
	}
	return StatusPresent
}

func (s Shift) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
