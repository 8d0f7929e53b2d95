package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, err.Error())

	// User / directory errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User is inactive")
	case errors.Is(err, user.ErrRoleNotHeld),
		errors.Is(err, user.ErrInsufficientPermission):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrNoApprovalChain):
		UnprocessableEntity(w, "NO_APPROVAL_CHAIN", err.Error())
	case errors.Is(err, user.ErrWorkSiteNotAssigned):
		UnprocessableEntity(w, "WORK_SITE_NOT_ASSIGNED", err.Error())
	case errors.Is(err, user.ErrWorkSiteNotFound):
		NotFound(w, "Work site not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrForbidden),
		errors.Is(err, leave.ErrNotVisible):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, leave.ErrEmptyChain):
		UnprocessableEntity(w, "NO_APPROVAL_CHAIN", err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrOutsideGeofence):
		UnprocessableEntity(w, reasonCode(err), err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNoCheckInFound):
		Conflict(w, reasonCode(err), err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

// HandleCheckError writes a refused check-in/check-out. The result is kept in
// the body so the client sees distance and radius alongside the error.
func HandleCheckError(w http.ResponseWriter, err error, result attendance.CheckResult) {
	reason := attendance.Reason(err)
	if reason == "" {
		HandleError(w, err)
		return
	}
	status := http.StatusConflict
	if errors.Is(err, attendance.ErrOutsideGeofence) {
		status = http.StatusUnprocessableEntity
	}
	Rejected(w, status, reasonCode(err), err.Error(), result)
}

func reasonCode(err error) string {
	return strings.ToUpper(attendance.Reason(err))
}
