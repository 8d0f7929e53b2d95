package leave

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
)

const (
	maxReasonLength   = 1000
	maxAttachmentSize = 10 << 20 // 10MB
	dateLayout        = "2006-01-02"
	timestampLayout   = "2006-01-02 15:04:05"
)

var allowedAttachmentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type CreateLeaveRequestRequest struct {
	RequesterID string                `json:"-"`
	LeaveType   string                `json:"leave_type"`
	StartDate   string                `json:"start_date"` // YYYY-MM-DD
	EndDate     string                `json:"end_date"`   // YYYY-MM-DD
	Reason      string                `json:"reason"`
	File        multipart.File        `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequesterID) {
		errs.Add("requester_id", "requester_id is required")
	}

	if !LeaveType(r.LeaveType).Valid() {
		types := make([]string, 0, len(AllLeaveTypes()))
		for _, t := range AllLeaveTypes() {
			types = append(types, string(t))
		}
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(types, ", "))
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if len(r.Reason) > maxReasonLength {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, allowedAttachmentExts) {
			errs.Add("attachment", "invalid file type: only jpg, jpeg, png, pdf allowed")
		} else if r.FileHeader.Size > maxAttachmentSize {
			errs.Add("attachment", "attachment size must not exceed 10MB")
		}
	}

	return errs.Err()
}

// ReviewRequest carries an approve or reject decision.
type ReviewRequest struct {
	RequestID  string `json:"-"`
	ReviewerID string `json:"-"`
	Comment    string `json:"comment"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs.Add("request_id", "request_id is required")
	}
	if validator.IsEmpty(r.ReviewerID) {
		errs.Add("reviewer_id", "reviewer_id is required")
	}
	if len(r.Comment) > maxReasonLength {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	return errs.Err()
}

type LeaveReviewResponse struct {
	StageIndex int     `json:"stage_index"`
	Role       string  `json:"role"`
	ReviewerID string  `json:"reviewer_id"`
	Outcome    string  `json:"outcome"`
	Comment    *string `json:"comment,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type LeaveRequestResponse struct {
	ID             string                `json:"id"`
	RequesterID    string                `json:"requester_id"`
	LeaveType      string                `json:"leave_type"`
	LeaveTypeLabel string                `json:"leave_type_label"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	Reason         string                `json:"reason,omitempty"`
	SupportingFile *string               `json:"supporting_file,omitempty"`
	Status         string                `json:"status"`
	Stage          string                `json:"stage"`
	StageIndex     int                   `json:"stage_index"`
	Outcome        string                `json:"outcome"`
	ChainComplete  bool                  `json:"chain_complete"`
	Chain          []string              `json:"chain"`
	Comment        *string               `json:"comment,omitempty"`
	ReviewedBy     *string               `json:"reviewed_by,omitempty"`
	ReviewedAt     *string               `json:"reviewed_at,omitempty"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
	Reviews        []LeaveReviewResponse `json:"reviews,omitempty"`
}

type ListLeaveRequestResponse struct {
	TotalCount    int                    `json:"total_count"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}

// ToResponse maps a LeaveRequest (and optional review trail) to its API form.
func ToResponse(r LeaveRequest, reviews []LeaveReview) LeaveRequestResponse {
	status := r.Status()

	var reviewedAt *string
	if r.ReviewedAt != nil {
		s := r.ReviewedAt.Format(timestampLayout)
		reviewedAt = &s
	}

	resp := LeaveRequestResponse{
		ID:             r.ID,
		RequesterID:    r.RequesterID,
		LeaveType:      string(r.LeaveType),
		LeaveTypeLabel: r.LeaveType.Label(),
		StartDate:      r.StartDate.Format(dateLayout),
		EndDate:        r.EndDate.Format(dateLayout),
		Reason:         r.Reason,
		SupportingFile: r.SupportingFile,
		Status:         status.String(),
		Stage:          string(status.Stage),
		StageIndex:     status.StageIndex,
		Outcome:        string(status.Outcome),
		ChainComplete:  status.ChainComplete,
		Chain:          r.Chain.Strings(),
		Comment:        r.Comment,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     reviewedAt,
		CreatedAt:      r.CreatedAt.Format(timestampLayout),
		UpdatedAt:      r.UpdatedAt.Format(timestampLayout),
	}

	for _, rv := range reviews {
		resp.Reviews = append(resp.Reviews, LeaveReviewResponse{
			StageIndex: rv.StageIndex,
			Role:       string(rv.Role),
			ReviewerID: rv.ReviewerID,
			Outcome:    string(rv.Outcome),
			Comment:    rv.Comment,
			CreatedAt:  rv.CreatedAt.Format(timestampLayout),
		})
	}

	return resp
}
