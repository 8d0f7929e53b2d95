package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-presensi-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateRequest accepts multipart form data: a "data" JSON field and an
// optional "attachment" file.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Requester always comes from the token
	req.RequesterID = middleware.UserID(r.Context())

	file, fileHeader, err := r.FormFile("attachment")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	if file != nil {
		defer file.Close()
	}

	req.File = file
	req.FileHeader = fileHeader
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", leaveRequest)
}

func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReview(w, r, true)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeReview(w, r, false)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leaveRequest)
}

// decodeReview reads an approve/reject body. Approve allows an empty body.
func decodeReview(w http.ResponseWriter, r *http.Request, allowEmpty bool) (leave.ReviewRequest, bool) {
	var req leave.ReviewRequest

	if r.ContentLength != 0 || !allowEmpty {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("review decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return req, false
		}
	}

	req.RequestID = chi.URLParam(r, "id")
	if !validator.IsValidUUID(req.RequestID) {
		response.NotFound(w, "Leave request not found")
		return req, false
	}
	req.ReviewerID = middleware.UserID(r.Context())

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return req, false
	}
	return req, true
}

func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.ListHistoryFor(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPending returns the queue for every role the caller holds, or for
// ?role= only.
func (l *LeaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	var role *user.Role
	if v := r.URL.Query().Get("role"); v != "" {
		rr := user.Role(v)
		role = &rr
	}

	result, err := l.leaveService.ListPendingForCaller(r.Context(), middleware.UserID(r.Context()), role)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	// IDs are UUIDv7; anything else cannot exist and would fail the uuid cast
	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.NotFound(w, "Leave request not found")
		return
	}

	leaveRequest, err := l.leaveService.GetLeaveRequest(r.Context(), requestID, middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveRequest)
}
