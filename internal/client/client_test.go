package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn_Accepted(t *testing.T) {
	var got attendance.CheckRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/attendance/check-in", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"accepted":true,"status":"present","event_type":"check_in"}}`))
	}))
	defer srv.Close()

	accuracy := 8.0
	res, err := New(srv.URL+"/", "tok").CheckIn(context.Background(), attendance.CheckRequest{
		Latitude: -6.2, Longitude: 106.8, Accuracy: &accuracy,
	})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "present", res.Status)
	assert.Equal(t, -6.2, got.Latitude)
	require.NotNil(t, got.Accuracy)
	assert.Equal(t, 8.0, *got.Accuracy)
}

func TestCheckIn_RejectedCarriesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"data":{"accepted":false,"reason":"outside_geofence","event_type":"check_in","distance_meters":250.5,"radius_meters":100},"error":{"code":"OUTSIDE_GEOFENCE","message":"you are outside the allowed radius"}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, "tok").CheckIn(context.Background(), attendance.CheckRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "OUTSIDE_GEOFENCE", apiErr.Code)

	assert.False(t, res.Accepted)
	assert.Equal(t, "outside_geofence", res.Reason)
	require.NotNil(t, res.DistanceMeters)
	assert.Equal(t, 250.5, *res.DistanceMeters)
}

func TestDo_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Today(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "server returned 502", apiErr.Error())
}

func TestToday(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"success":true,"data":{"date":"2025-03-03","can_check_in":false,"can_check_out":true}}`))
	}))
	defer srv.Close()

	today, err := New(srv.URL, "tok").Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", today.Date)
	assert.True(t, today.CanCheckOut)
}
