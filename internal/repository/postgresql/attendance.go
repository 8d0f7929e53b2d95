package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"

	attendanceColumns = `
		id, user_id, date, work_site_id,
		check_in_time, check_in_latitude, check_in_longitude, check_in_accuracy,
		check_in_distance_meters, check_in_override, check_in_override_reason,
		check_out_time, check_out_latitude, check_out_longitude, check_out_accuracy,
		check_out_distance_meters, check_out_override, check_out_override_reason,
		status, created_at, updated_at
	`
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// stampColumns holds the nullable columns of one stamp.
type stampColumns struct {
	Time           *time.Time
	Latitude       *float64
	Longitude      *float64
	Accuracy       *float64
	DistanceMeters *float64
	Override       bool
	OverrideReason *string
}

func (c stampColumns) stamp() *attendance.Stamp {
	if c.Time == nil {
		return nil
	}
	s := &attendance.Stamp{
		Time:           *c.Time,
		Accuracy:       c.Accuracy,
		Override:       c.Override,
		OverrideReason: c.OverrideReason,
	}
	if c.Latitude != nil {
		s.Latitude = *c.Latitude
	}
	if c.Longitude != nil {
		s.Longitude = *c.Longitude
	}
	if c.DistanceMeters != nil {
		s.DistanceMeters = *c.DistanceMeters
	}
	return s
}

func stampArgs(s *attendance.Stamp) []interface{} {
	if s == nil {
		return []interface{}{nil, nil, nil, nil, nil, false, nil}
	}
	return []interface{}{s.Time, s.Latitude, s.Longitude, s.Accuracy, s.DistanceMeters, s.Override, s.OverrideReason}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a       attendance.Attendance
		in, out stampColumns
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Date, &a.WorkSiteID,
		&in.Time, &in.Latitude, &in.Longitude, &in.Accuracy,
		&in.DistanceMeters, &in.Override, &in.OverrideReason,
		&out.Time, &out.Latitude, &out.Longitude, &out.Accuracy,
		&out.DistanceMeters, &out.Override, &out.OverrideReason,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.CheckIn = in.stamp()
	a.CheckOut = out.stamp()
	return a, nil
}

func insertArgs(a attendance.Attendance) []interface{} {
	args := []interface{}{a.UserID, a.Date, a.WorkSiteID}
	args = append(args, stampArgs(a.CheckIn)...)
	args = append(args, a.Status, a.CreatedAt, a.UpdatedAt)
	return args
}

const insertAttendance = `
	INSERT INTO attendances (
		id, user_id, date, work_site_id,
		check_in_time, check_in_latitude, check_in_longitude, check_in_accuracy,
		check_in_distance_meters, check_in_override, check_in_override_reason,
		status, created_at, updated_at
	) VALUES (
		uuidv7(), $1, $2, $3,
		$4, $5, $6, $7,
		$8, $9, $10,
		$11, $12, $13
	)
`

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	created, err := scanAttendance(q.QueryRow(ctx, insertAttendance+` RETURNING `+attendanceColumns, insertArgs(newAttendance)...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// CreateIfMissing implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfMissing(ctx context.Context, newAttendance attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	commandTag, err := q.Exec(ctx, insertAttendance+` ON CONFLICT (user_id, date) DO NOTHING`, insertArgs(newAttendance)...)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	return a.get(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE user_id = $1 AND date = $2`, userID, date)
}

// GetByUserAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDateForUpdate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	return a.get(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE user_id = $1 AND date = $2 FOR UPDATE`, userID, date)
}

func (a *attendanceRepository) get(ctx context.Context, query string, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_in_time = $1, check_in_latitude = $2, check_in_longitude = $3, check_in_accuracy = $4,
			check_in_distance_meters = $5, check_in_override = $6, check_in_override_reason = $7,
			check_out_time = $8, check_out_latitude = $9, check_out_longitude = $10, check_out_accuracy = $11,
			check_out_distance_meters = $12, check_out_override = $13, check_out_override_reason = $14,
			status = $15, updated_at = $16
		WHERE user_id = $17 AND date = $18
	`
	args := append(stampArgs(att.CheckIn), stampArgs(att.CheckOut)...)
	args = append(args, att.Status, att.UpdatedAt, att.UserID, att.Date)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		  AND ($2::date IS NULL OR date >= $2::date)
		  AND ($3::date IS NULL OR date <= $3::date)
		ORDER BY date DESC
	`
	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}
