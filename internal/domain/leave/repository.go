package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate loads the request and locks it until the surrounding
	// transaction ends. Must be called inside Transactor.WithinTransaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateReview persists the stage, outcome and reviewer fields.
	UpdateReview(ctx context.Context, request LeaveRequest) error

	// ListPendingByRole returns requests whose current pending stage is role.
	ListPendingByRole(ctx context.Context, role user.Role) ([]LeaveRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]LeaveRequest, error)

	// HasApprovedCovering reports whether requesterID has a fully approved
	// request whose date range contains date.
	HasApprovedCovering(ctx context.Context, requesterID string, date time.Time) (bool, error)
}

// LeaveReviewRepository - interface for leave_request_reviews table
type LeaveReviewRepository interface {
	Create(ctx context.Context, review LeaveReview) (LeaveReview, error)
	ListByRequestID(ctx context.Context, requestID string) ([]LeaveReview, error)
}
