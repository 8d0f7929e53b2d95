package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/google/uuid"
)

type leaveRequestRepository struct {
	s *Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if request.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveRequest{}, err
		}
		request.ID = id.String()
	}
	request.Chain = append(leave.Chain(nil), request.Chain...)
	r.s.putRequest(ctx, request)
	return cloneRequest(request), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneRequest(req), nil
}

// GetByIDForUpdate relies on the transactor holding the store-wide
// transaction lock.
func (r *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *leaveRequestRepository) UpdateReview(ctx context.Context, request leave.LeaveRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	stored.StageIndex = request.StageIndex
	stored.Outcome = request.Outcome
	stored.Comment = request.Comment
	stored.ReviewedBy = request.ReviewedBy
	stored.ReviewedAt = request.ReviewedAt
	stored.UpdatedAt = request.UpdatedAt
	r.s.putRequest(ctx, stored)
	return nil
}

func (r *leaveRequestRepository) ListPendingByRole(ctx context.Context, role user.Role) ([]leave.LeaveRequest, error) {
	return r.list(func(req leave.LeaveRequest) bool {
		stage, ok := req.CurrentStage()
		return ok && stage == role
	}, false), nil
}

func (r *leaveRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]leave.LeaveRequest, error) {
	return r.list(func(req leave.LeaveRequest) bool {
		return req.RequesterID == requesterID
	}, true), nil
}

func (r *leaveRequestRepository) HasApprovedCovering(ctx context.Context, requesterID string, date time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, req := range r.s.requests {
		if req.RequesterID == requesterID && req.Outcome == leave.OutcomeApproved && req.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *leaveRequestRepository) list(match func(leave.LeaveRequest) bool, newestFirst bool) []leave.LeaveRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, req := range r.s.requests {
		if match(req) {
			out = append(out, cloneRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func cloneRequest(req leave.LeaveRequest) leave.LeaveRequest {
	req.Chain = append(leave.Chain(nil), req.Chain...)
	return req
}

type leaveReviewRepository struct {
	s *Store
}

func NewLeaveReviewRepository(s *Store) leave.LeaveReviewRepository {
	return &leaveReviewRepository{s: s}
}

func (r *leaveReviewRepository) Create(ctx context.Context, review leave.LeaveReview) (leave.LeaveReview, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveReview{}, err
	}
	review.ID = id.String()
	r.s.appendReview(ctx, review)
	return review, nil
}

func (r *leaveReviewRepository) ListByRequestID(ctx context.Context, requestID string) ([]leave.LeaveReview, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return append([]leave.LeaveReview(nil), r.s.reviews[requestID]...), nil
}
