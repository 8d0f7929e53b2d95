package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := attendanceKey{userID: a.UserID, date: a.Date}
	if _, exists := r.s.attendances[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	if err := assignID(&a); err != nil {
		return attendance.Attendance{}, err
	}
	r.s.putAttendance(ctx, a)
	return a, nil
}

func (r *attendanceRepository) CreateIfMissing(ctx context.Context, a attendance.Attendance) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := attendanceKey{userID: a.UserID, date: a.Date}
	if _, exists := r.s.attendances[key]; exists {
		return false, nil
	}
	if err := assignID(&a); err != nil {
		return false, err
	}
	r.s.putAttendance(ctx, a)
	return true, nil
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.attendances[attendanceKey{userID: userID, date: date}]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	return r.GetByUserAndDate(ctx, userID, date)
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := attendanceKey{userID: a.UserID, date: a.Date}
	stored, ok := r.s.attendances[key]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored.CheckIn = a.CheckIn
	stored.CheckOut = a.CheckOut
	stored.Status = a.Status
	stored.UpdatedAt = a.UpdatedAt
	r.s.putAttendance(ctx, stored)
	return nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]attendance.Attendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Attendance
	for key, a := range r.s.attendances {
		if key.userID != userID {
			continue
		}
		if from != nil && key.date.Before(*from) {
			continue
		}
		if to != nil && key.date.After(*to) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func assignID(a *attendance.Attendance) error {
	if a.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	a.ID = id.String()
	return nil
}
