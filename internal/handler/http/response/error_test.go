package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{validator.ValidationErrors{{Field: "comment", Message: "required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{jwt.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{leave.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{leave.ErrNotVisible, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrRoleNotHeld, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrUserInactive, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("lookup: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{leave.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{user.ErrNoApprovalChain, http.StatusUnprocessableEntity, "NO_APPROVAL_CHAIN"},
		{user.ErrWorkSiteNotAssigned, http.StatusUnprocessableEntity, "WORK_SITE_NOT_ASSIGNED"},
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "ALREADY_CHECKED_IN"},
		{attendance.ErrNoCheckInFound, http.StatusConflict, "NO_CHECK_IN_FOUND"},
		{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "ALREADY_CHECKED_OUT"},
		{&attendance.OutsideGeofenceError{DistanceMeters: 150, RadiusMeters: 100}, http.StatusUnprocessableEntity, "OUTSIDE_GEOFENCE"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.code+"/"+c.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.status, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, c.code, resp.Error.Code)
		})
	}
}

func TestHandleCheckError_KeepsResult(t *testing.T) {
	err := &attendance.OutsideGeofenceError{DistanceMeters: 150, RadiusMeters: 100}
	result := attendance.RejectedResult(attendance.EventCheckIn, err)

	rec := httptest.NewRecorder()
	HandleCheckError(rec, err, result)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Data  attendance.CheckResult `json:"data"`
		Error ErrorDetail            `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OUTSIDE_GEOFENCE", body.Error.Code)
	assert.Equal(t, "outside_geofence", body.Data.Reason)
	require.NotNil(t, body.Data.DistanceMeters)
	assert.Equal(t, 150.0, *body.Data.DistanceMeters)
}

func TestHandleCheckError_NonCheckErrorFallsThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleCheckError(rec, user.ErrWorkSiteNotAssigned, attendance.CheckResult{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "WORK_SITE_NOT_ASSIGNED", decodeResponse(t, rec).Error.Code)
}
