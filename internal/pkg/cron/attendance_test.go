package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	attendance.AttendanceService
	days []string
	err  error
}

func (r *recordingService) MarkAbsences(ctx context.Context, day time.Time) (int, error) {
	r.days = append(r.days, day.Format("2006-01-02"))
	return 1, r.err
}

var wib = time.FixedZone("WIB", 7*3600)

func TestMarkAbsentUsers_BeforeCutoff(t *testing.T) {
	svc := &recordingService{}
	jobs := NewAttendanceJobs(svc, wib, 17, nil)
	jobs.now = func() time.Time { return time.Date(2025, 3, 3, 9, 0, 0, 0, wib) }

	require.NoError(t, jobs.MarkAbsentUsers(context.Background()))
	assert.Equal(t, []string{"2025-03-02"}, svc.days)
}

func TestMarkAbsentUsers_AfterCutoff(t *testing.T) {
	svc := &recordingService{}
	jobs := NewAttendanceJobs(svc, wib, 17, nil)
	// 10:30 UTC is 17:30 WIB
	jobs.now = func() time.Time { return time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC) }

	require.NoError(t, jobs.MarkAbsentUsers(context.Background()))
	assert.Equal(t, []string{"2025-03-02", "2025-03-03"}, svc.days)
}

func TestMarkAbsentUsers_UsesLocalDate(t *testing.T) {
	svc := &recordingService{}
	jobs := NewAttendanceJobs(svc, wib, 17, nil)
	// 18:00 UTC on the 3rd is 01:00 WIB on the 4th
	jobs.now = func() time.Time { return time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.MarkAbsentUsers(context.Background()))
	assert.Equal(t, []string{"2025-03-03"}, svc.days)
}

func TestMarkAbsentUsers_SkipsNonWorkDays(t *testing.T) {
	svc := &recordingService{}
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	jobs := NewAttendanceJobs(svc, wib, 17, weekdays)
	// Monday evening: yesterday was Sunday
	jobs.now = func() time.Time { return time.Date(2025, 3, 3, 18, 0, 0, 0, wib) }

	require.NoError(t, jobs.MarkAbsentUsers(context.Background()))
	assert.Equal(t, []string{"2025-03-03"}, svc.days)
}

func TestMarkAbsentUsers_PropagatesError(t *testing.T) {
	svc := &recordingService{err: errors.New("db down")}
	jobs := NewAttendanceJobs(svc, wib, 17, nil)

	err := jobs.MarkAbsentUsers(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		calls++
		return nil
	})
	s.AddJob("fail", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, calls)
}

func TestScheduler_RunOnceRecoversPanic(t *testing.T) {
	s := NewScheduler()
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		panic("nil map")
	})

	err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "panic in job panics")
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
