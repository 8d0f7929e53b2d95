package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	location          *time.Location
	cutoffHour        int
	workDays          map[time.Weekday]bool
	now               func() time.Time
}

// NewAttendanceJobs creates attendance cron jobs. Days are computed in loc;
// today is only closed once the local clock passes cutoffHour. Days outside
// workDays are never marked; an empty workDays means every day.
func NewAttendanceJobs(attendanceService attendance.AttendanceService, loc *time.Location, cutoffHour int, workDays []time.Weekday) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	days := make(map[time.Weekday]bool, len(workDays))
	for _, d := range workDays {
		days[d] = true
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		location:          loc,
		cutoffHour:        cutoffHour,
		workDays:          days,
		now:               time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// MarkAbsentUsers fills absent/on_leave records for yesterday, and for today
// once past the cutoff. Records are created only when missing, so reruns are safe.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	nowLocal := j.now().In(j.location)

	days := []time.Time{nowLocal.AddDate(0, 0, -1)}
	if nowLocal.Hour() >= j.cutoffHour {
		days = append(days, nowLocal)
	}

	total := 0
	for _, day := range days {
		if len(j.workDays) > 0 && !j.workDays[day.Weekday()] {
			continue
		}
		marked, err := j.attendanceService.MarkAbsences(ctx, day)
		total += marked
		if err != nil {
			return fmt.Errorf("failed to mark absences for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	if total > 0 {
		slog.Info("Cron: Marked absent users", "count", total)
	}
	return nil
}
