package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, requester_id, leave_type, start_date, end_date, reason, supporting_file,
	chain, stage_index, outcome, comment, reviewed_by, reviewed_at, created_at, updated_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		lr    leave.LeaveRequest
		chain []string
	)
	err := row.Scan(
		&lr.ID,
		&lr.RequesterID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Reason,
		&lr.SupportingFile,
		&chain,
		&lr.StageIndex,
		&lr.Outcome,
		&lr.Comment,
		&lr.ReviewedBy,
		&lr.ReviewedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Chain = leave.ChainFromStrings(chain)
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) queryList(ctx context.Context, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, requester_id, leave_type, start_date, end_date, reason, supporting_file,
			chain, stage_index, outcome, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11
		)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		request.RequesterID,
		request.LeaveType,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.SupportingFile,
		request.Chain.Strings(),
		request.StageIndex,
		request.Outcome,
		request.CreatedAt,
		request.UpdatedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id)
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.get(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *leaveRequestRepositoryImpl) get(ctx context.Context, query string, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// UpdateReview implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateReview(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET stage_index = $1, outcome = $2, comment = $3, reviewed_by = $4, reviewed_at = $5, updated_at = $6
		WHERE id = $7
	`
	commandTag, err := q.Exec(ctx, query,
		request.StageIndex,
		request.Outcome,
		request.Comment,
		request.ReviewedBy,
		request.ReviewedAt,
		request.UpdatedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("leave request with id %s: %w", request.ID, leave.ErrLeaveRequestNotFound)
	}
	return nil
}

// ListPendingByRole implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPendingByRole(ctx context.Context, role user.Role) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE outcome = 'pending' AND chain[stage_index + 1] = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.queryList(ctx, query, string(role))
}

// ListByRequester implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByRequester(ctx context.Context, requesterID string) ([]leave.LeaveRequest, error) {
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryList(ctx, query, requesterID)
}

// HasApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasApprovedCovering(ctx context.Context, requesterID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE requester_id = $1
			  AND outcome = 'approved'
			  AND $2::date BETWEEN start_date AND end_date
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, requesterID, date).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type leaveReviewRepositoryImpl struct {
	db *database.DB
}

func NewLeaveReviewRepository(db *database.DB) leave.LeaveReviewRepository {
	return &leaveReviewRepositoryImpl{db: db}
}

// Create implements leave.LeaveReviewRepository.
func (r *leaveReviewRepositoryImpl) Create(ctx context.Context, review leave.LeaveReview) (leave.LeaveReview, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_request_reviews (id, request_id, stage_index, role, reviewer_id, outcome, comment, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := q.QueryRow(ctx, query,
		review.RequestID,
		review.StageIndex,
		review.Role,
		review.ReviewerID,
		review.Outcome,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return leave.LeaveReview{}, err
	}
	return review, nil
}

// ListByRequestID implements leave.LeaveReviewRepository.
func (r *leaveReviewRepositoryImpl) ListByRequestID(ctx context.Context, requestID string) ([]leave.LeaveReview, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, request_id, stage_index, role, reviewer_id, outcome, comment, created_at
		FROM leave_request_reviews
		WHERE request_id = $1
		ORDER BY stage_index ASC
	`
	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []leave.LeaveReview
	for rows.Next() {
		var rv leave.LeaveReview
		if err := rows.Scan(&rv.ID, &rv.RequestID, &rv.StageIndex, &rv.Role, &rv.ReviewerID, &rv.Outcome, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
