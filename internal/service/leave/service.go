package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-presensi-go/internal/service/file"
	"golang.org/x/sync/errgroup"
)

// SSE event names
const (
	EventSubmitted = "leave.submitted"
	EventAdvanced  = "leave.advanced"
	EventApproved  = "leave.approved"
	EventRejected  = "leave.rejected"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	leave.LeaveReviewRepository
	directory   user.Directory
	fileService file.FileService
	hub         *sse.Hub
	now         func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepository leave.LeaveRequestRepository,
	leaveReviewRepository leave.LeaveReviewRepository,
	directory user.Directory,
	fileService file.FileService,
	hub *sse.Hub,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		LeaveReviewRepository:  leaveReviewRepository,
		directory:              directory,
		fileService:            fileService,
		hub:                    hub,
		now:                    time.Now,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	roles, err := s.directory.RolesOf(ctx, req.RequesterID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to resolve requester roles: %w", err)
	}
	chain, err := s.directory.ChainFor(ctx, roles)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	request, err := leave.NewLeaveRequest(req.RequesterID, leave.LeaveType(req.LeaveType), start, end, req.Reason, leave.Chain(chain), s.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if req.File != nil && req.FileHeader != nil {
		path, err := s.fileService.UploadLeaveAttachment(ctx, req.RequesterID, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		request.SupportingFile = &path
	}

	created, err := s.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		if request.SupportingFile != nil {
			if delErr := s.fileService.DeleteFile(ctx, *request.SupportingFile); delErr != nil {
				slog.Warn("failed to remove orphaned leave attachment", "path", *request.SupportingFile, "error", delErr)
			}
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request submitted", "request_id", created.ID, "requester_id", created.RequesterID, "chain", created.Chain.Strings())

	resp := s.toResponse(ctx, created, nil)
	first, _ := created.CurrentStage()
	s.publish(EventSubmitted, resp, sse.UserTopic(created.RequesterID), sse.RoleTopic(string(first)))

	return resp, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	return s.review(ctx, req, (*leave.LeaveRequest).Approve)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.ReviewRequest) (leave.LeaveRequestResponse, error) {
	return s.review(ctx, req, (*leave.LeaveRequest).Reject)
}

type decision func(r *leave.LeaveRequest, reviewerID string, roles []user.Role, comment string, now time.Time) (leave.LeaveReview, error)

// review applies one decision to the current stage under a row lock, and
// appends it to the review trail in the same transaction.
func (s *LeaveServiceImpl) review(ctx context.Context, req leave.ReviewRequest, decide decision) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	roles, err := s.directory.RolesOf(ctx, req.ReviewerID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrUserInactive) {
			return leave.LeaveRequestResponse{}, leave.ErrForbidden
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to resolve reviewer roles: %w", err)
	}

	var (
		request leave.LeaveRequest
		reviews []leave.LeaveReview
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.LeaveRequestRepository.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		review, err := decide(&request, req.ReviewerID, roles, req.Comment, s.now())
		if err != nil {
			return err
		}

		if err := s.LeaveRequestRepository.UpdateReview(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		if _, err := s.LeaveReviewRepository.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to record review: %w", err)
		}

		reviews, err = s.LeaveReviewRepository.ListByRequestID(ctx, request.ID)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	status := request.Status()
	slog.Info("leave request reviewed",
		"request_id", request.ID,
		"reviewer_id", req.ReviewerID,
		"status", status.String(),
	)

	resp := s.toResponse(ctx, request, reviews)
	switch {
	case status.Outcome == leave.OutcomeRejected:
		s.publish(EventRejected, resp, sse.UserTopic(request.RequesterID))
	case status.ChainComplete:
		s.publish(EventApproved, resp, sse.UserTopic(request.RequesterID))
	default:
		s.publish(EventAdvanced, resp, sse.UserTopic(request.RequesterID), sse.RoleTopic(string(status.Stage)))
	}

	return resp, nil
}

// ListPendingFor implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPendingFor(ctx context.Context, role user.Role) (leave.ListLeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListPendingByRole(ctx, role)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return s.toListResponse(ctx, requests), nil
}

// ListPendingForCaller implements leave.LeaveService.
func (s *LeaveServiceImpl) ListPendingForCaller(ctx context.Context, callerID string, role *user.Role) (leave.ListLeaveRequestResponse, error) {
	roles, err := s.directory.RolesOf(ctx, callerID)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to resolve caller roles: %w", err)
	}

	if role != nil {
		if !user.HasRole(roles, *role) {
			return leave.ListLeaveRequestResponse{}, user.ErrRoleNotHeld
		}
		return s.ListPendingFor(ctx, *role)
	}

	var (
		mu       sync.Mutex
		requests []leave.LeaveRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range roles {
		r := r
		g.Go(func() error {
			pending, err := s.LeaveRequestRepository.ListPendingByRole(gctx, r)
			if err != nil {
				return fmt.Errorf("failed to list pending leave requests for %s: %w", r, err)
			}
			mu.Lock()
			requests = append(requests, pending...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})

	return s.toListResponse(ctx, requests), nil
}

// ListHistoryFor implements leave.LeaveService.
func (s *LeaveServiceImpl) ListHistoryFor(ctx context.Context, userID string) (leave.ListLeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListByRequester(ctx, userID)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toListResponse(ctx, requests), nil
}

// GetLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string, callerID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.RequesterID != callerID {
		roles, err := s.directory.RolesOf(ctx, callerID)
		if err != nil {
			return leave.LeaveRequestResponse{}, leave.ErrNotVisible
		}
		visible := false
		for _, r := range request.Chain {
			if user.HasRole(roles, r) {
				visible = true
				break
			}
		}
		if !visible {
			return leave.LeaveRequestResponse{}, leave.ErrNotVisible
		}
	}

	reviews, err := s.LeaveReviewRepository.ListByRequestID(ctx, request.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get review trail: %w", err)
	}

	return s.toResponse(ctx, request, reviews), nil
}

func (s *LeaveServiceImpl) toResponse(ctx context.Context, r leave.LeaveRequest, reviews []leave.LeaveReview) leave.LeaveRequestResponse {
	resp := leave.ToResponse(r, reviews)

	// Generate attachment URL if exists
	if r.SupportingFile != nil && *r.SupportingFile != "" {
		if url, err := s.fileService.GetFileURL(ctx, *r.SupportingFile, 0); err == nil {
			resp.SupportingFile = &url
		}
	}
	return resp
}

func (s *LeaveServiceImpl) toListResponse(ctx context.Context, requests []leave.LeaveRequest) leave.ListLeaveRequestResponse {
	resp := leave.ListLeaveRequestResponse{
		TotalCount:    len(requests),
		LeaveRequests: make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.LeaveRequests = append(resp.LeaveRequests, s.toResponse(ctx, r, nil))
	}
	return resp
}

func (s *LeaveServiceImpl) publish(event string, data leave.LeaveRequestResponse, topics ...string) {
	if s.hub == nil {
		return
	}
	s.hub.PublishToMany(topics, sse.Event{Event: event, Data: data})
}
