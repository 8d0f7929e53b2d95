package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

type LeaveService interface {
	// Submit creates a request in Pending(stage 0) of the requester's chain.
	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// Approve and Reject act on the current pending stage only.
	Approve(ctx context.Context, req ReviewRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (LeaveRequestResponse, error)

	// ListPendingFor returns requests waiting on role.
	ListPendingFor(ctx context.Context, role user.Role) (ListLeaveRequestResponse, error)

	// ListPendingForCaller returns requests waiting on any role the caller holds,
	// or on role only when given (the caller must hold it).
	ListPendingForCaller(ctx context.Context, callerID string, role *user.Role) (ListLeaveRequestResponse, error)

	// ListHistoryFor returns all of a user's requests, pending or terminal.
	ListHistoryFor(ctx context.Context, userID string) (ListLeaveRequestResponse, error)

	// GetLeaveRequest returns a request with its review trail. Visible to the
	// requester and to holders of any role in its chain.
	GetLeaveRequest(ctx context.Context, requestID string, callerID string) (LeaveRequestResponse, error)
}
