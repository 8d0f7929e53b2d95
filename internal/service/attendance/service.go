package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/geo"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/sse"
)

// EventOverride is published when a submission outside the geofence is
// accepted on the user's explicit confirmation.
const EventOverride = "attendance.override"

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	leaveRequests leave.LeaveRequestRepository
	users         user.UserRepository
	directory     user.Directory
	hub           *sse.Hub
	shift         attendance.Shift
	now           func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	userRepository user.UserRepository,
	directory user.Directory,
	hub *sse.Hub,
	shift attendance.Shift,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		leaveRequests:        leaveRequestRepository,
		users:                userRepository,
		directory:            directory,
		hub:                  hub,
		shift:                shift,
		now:                  time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error) {
	return s.check(ctx, attendance.EventCheckIn, req)
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error) {
	return s.check(ctx, attendance.EventCheckOut, req)
}

func (s *AttendanceServiceImpl) check(ctx context.Context, event attendance.EventType, req attendance.CheckRequest) (attendance.CheckResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckResult{}, err
	}

	site, err := s.directory.WorkSiteOf(ctx, req.UserID)
	if err != nil {
		return attendance.CheckResult{}, err
	}

	fence := geo.Circle{
		Center:       geo.Point{Latitude: site.Latitude, Longitude: site.Longitude},
		RadiusMeters: site.RadiusMeters,
	}
	inside, distance := fence.Contains(req.Point())
	if !inside && !req.Override {
		err := &attendance.OutsideGeofenceError{DistanceMeters: distance, RadiusMeters: site.RadiusMeters}
		return attendance.RejectedResult(event, err), err
	}

	now := s.now()
	stamp := &attendance.Stamp{
		Time:           now,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Accuracy:       req.Accuracy,
		DistanceMeters: distance,
	}
	if !inside {
		reason := strings.TrimSpace(req.OverrideReason)
		stamp.Override = true
		stamp.OverrideReason = &reason
	}

	var record attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if event == attendance.EventCheckIn {
			record, err = s.recordCheckIn(ctx, req.UserID, site.ID, stamp, now)
		} else {
			record, err = s.recordCheckOut(ctx, req.UserID, stamp, now)
		}
		return err
	})
	if err != nil {
		if reason := attendance.Reason(err); reason != "" {
			return attendance.RejectedResult(event, err), err
		}
		return attendance.CheckResult{}, err
	}

	slog.Info("attendance recorded",
		"user_id", req.UserID,
		"event", event,
		"status", record.Status,
		"distance_meters", distance,
		"override", stamp.Override,
	)

	resp := attendance.ToResponse(record)
	if stamp.Override {
		slog.Warn("attendance accepted outside geofence",
			"user_id", req.UserID,
			"event", event,
			"distance_meters", distance,
			"radius_meters", site.RadiusMeters,
			"reason", *stamp.OverrideReason,
		)
		if s.hub != nil {
			s.hub.Publish(sse.UserTopic(req.UserID), sse.Event{Event: EventOverride, Data: resp})
		}
	}

	radius := site.RadiusMeters
	result := attendance.CheckResult{
		Accepted:       true,
		EventType:      string(event),
		DistanceMeters: &distance,
		RadiusMeters:   &radius,
		Override:       stamp.Override,
		Attendance:     &resp,
	}
	if event == attendance.EventCheckIn {
		result.Status = string(record.Status)
	}
	return result, nil
}

func (s *AttendanceServiceImpl) recordCheckIn(ctx context.Context, userID, siteID string, stamp *attendance.Stamp, now time.Time) (attendance.Attendance, error) {
	day := s.shift.WorkDay(now)
	status := s.shift.Classify(now)

	existing, err := s.AttendanceRepository.GetByUserAndDateForUpdate(ctx, userID, day)
	switch {
	case err == nil:
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		// Placeholder left by the absence job.
		existing.CheckIn = stamp
		existing.Status = status
		existing.UpdatedAt = now
		if err := s.AttendanceRepository.Update(ctx, existing); err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		return existing, nil
	case errors.Is(err, attendance.ErrAttendanceNotFound):
	default:
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:     userID,
		Date:       day,
		WorkSiteID: &siteID,
		CheckIn:    stamp,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

func (s *AttendanceServiceImpl) recordCheckOut(ctx context.Context, userID string, stamp *attendance.Stamp, now time.Time) (attendance.Attendance, error) {
	day := s.shift.WorkDay(now)

	existing, err := s.AttendanceRepository.GetByUserAndDateForUpdate(ctx, userID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNoCheckInFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if existing.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	if existing.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	existing.CheckOut = stamp
	existing.UpdatedAt = now
	if err := s.AttendanceRepository.Update(ctx, existing); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return existing, nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (attendance.TodayResponse, error) {
	day := s.shift.WorkDay(s.now())
	resp := attendance.TodayResponse{Date: day.Format("2006-01-02")}

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			resp.CanCheckIn = true
			return resp, nil
		}
		return attendance.TodayResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	r := attendance.ToResponse(record)
	resp.Attendance = &r
	resp.CanCheckIn = record.CheckIn == nil
	resp.CanCheckOut = record.CheckIn != nil && record.CheckOut == nil
	return resp, nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	from := parseDay(filter.StartDate)
	to := parseDay(filter.EndDate)

	records, err := s.AttendanceRepository.ListByUser(ctx, filter.UserID, from, to)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		TotalCount:  len(records),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Attendances = append(resp.Attendances, attendance.ToResponse(r))
	}
	return resp, nil
}

// MarkAbsences implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsences(ctx context.Context, day time.Time) (int, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active users: %w", err)
	}

	now := s.now()
	marked := 0
	for _, u := range users {
		if u.WorkSiteID == nil {
			continue
		}

		onLeave, err := s.leaveRequests.HasApprovedCovering(ctx, u.ID, day)
		if err != nil {
			return marked, fmt.Errorf("failed to check leave for %s: %w", u.ID, err)
		}
		status := attendance.StatusAbsent
		if onLeave {
			status = attendance.StatusOnLeave
		}

		created, err := s.AttendanceRepository.CreateIfMissing(ctx, attendance.Attendance{
			UserID:     u.ID,
			Date:       day,
			WorkSiteID: u.WorkSiteID,
			Status:     status,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return marked, fmt.Errorf("failed to mark %s for %s: %w", status, u.ID, err)
		}
		if created {
			marked++
		}
	}
	return marked, nil
}

func parseDay(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
