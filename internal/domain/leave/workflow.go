package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
)

// NewLeaveRequest returns a request in Pending(stage 0) of chain.
func NewLeaveRequest(requesterID string, leaveType LeaveType, start, end time.Time, reason string, chain Chain, now time.Time) (LeaveRequest, error) {
	if len(chain) == 0 {
		return LeaveRequest{}, ErrEmptyChain
	}
	return LeaveRequest{
		RequesterID: requesterID,
		LeaveType:   leaveType,
		StartDate:   start,
		EndDate:     end,
		Reason:      reason,
		Chain:       append(Chain(nil), chain...),
		StageIndex:  0,
		Outcome:     OutcomePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Approve applies approve(stage_i). The last stage completes the chain;
// any other stage moves the request to the next reviewer.
func (r *LeaveRequest) Approve(reviewerID string, reviewerRoles []user.Role, comment string, now time.Time) (LeaveReview, error) {
	stage, err := r.authorize(reviewerRoles)
	if err != nil {
		return LeaveReview{}, err
	}

	review := r.record(stage, reviewerID, OutcomeApproved, comment, now)
	if r.Chain.IsLast(r.StageIndex) {
		r.Outcome = OutcomeApproved
	} else {
		r.StageIndex++
	}
	return review, nil
}

// Reject applies reject(stage_i). The request becomes terminal at stage_i.
func (r *LeaveRequest) Reject(reviewerID string, reviewerRoles []user.Role, comment string, now time.Time) (LeaveReview, error) {
	if validator.IsEmpty(comment) {
		return LeaveReview{}, validator.ValidationErrors{{
			Field:   "comment",
			Message: "comment is required when rejecting",
		}}
	}

	stage, err := r.authorize(reviewerRoles)
	if err != nil {
		return LeaveReview{}, err
	}

	review := r.record(stage, reviewerID, OutcomeRejected, comment, now)
	r.Outcome = OutcomeRejected
	return review, nil
}

func (r *LeaveRequest) authorize(reviewerRoles []user.Role) (user.Role, error) {
	stage, ok := r.CurrentStage()
	if !ok {
		return "", ErrInvalidTransition
	}
	if !user.HasRole(reviewerRoles, stage) {
		return "", ErrForbidden
	}
	return stage, nil
}

func (r *LeaveRequest) record(stage user.Role, reviewerID string, outcome Outcome, comment string, now time.Time) LeaveReview {
	var note *string
	if c := strings.TrimSpace(comment); c != "" {
		note = &c
	}

	r.Comment = note
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.UpdatedAt = now

	return LeaveReview{
		RequestID:  r.ID,
		StageIndex: r.StageIndex,
		Role:       stage,
		ReviewerID: reviewerID,
		Outcome:    outcome,
		Comment:    note,
		CreatedAt:  now,
	}
}
