package attendance

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShift_Classify(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	shift := Shift{Start: 7 * time.Hour, GracePeriodMinutes: 15, Location: jakarta}

	day := time.Date(2025, 3, 3, 0, 0, 0, 0, jakarta)
	assert.Equal(t, StatusPresent, shift.Classify(day.Add(6*time.Hour+50*time.Minute)))
	assert.Equal(t, StatusPresent, shift.Classify(day.Add(7*time.Hour+15*time.Minute)))
	assert.Equal(t, StatusLate, shift.Classify(day.Add(7*time.Hour+15*time.Minute+time.Second)))
}

func TestShift_WorkDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	shift := Shift{Location: jakarta}

	// 20:00 UTC on the 2nd is 03:00 on the 3rd in Jakarta.
	got := shift.WorkDay(time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestAttendance_WorkedMinutes(t *testing.T) {
	in := time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)
	a := Attendance{CheckIn: &Stamp{Time: in}}
	assert.Nil(t, a.WorkedMinutes())

	a.CheckOut = &Stamp{Time: in.Add(8*time.Hour + 30*time.Minute)}
	require.NotNil(t, a.WorkedMinutes())
	assert.Equal(t, 510, *a.WorkedMinutes())
}

func TestOutsideGeofenceError(t *testing.T) {
	err := fmt.Errorf("check in: %w", &OutsideGeofenceError{DistanceMeters: 150, RadiusMeters: 100})

	assert.True(t, errors.Is(err, ErrOutsideGeofence))
	assert.Equal(t, "outside_geofence", Reason(err))

	res := RejectedResult(EventCheckIn, err)
	assert.False(t, res.Accepted)
	require.NotNil(t, res.DistanceMeters)
	assert.Equal(t, 150.0, *res.DistanceMeters)
	assert.Equal(t, 100.0, *res.RadiusMeters)
}

func TestCheckRequest_Validate(t *testing.T) {
	req := CheckRequest{UserID: "u1", Latitude: -6.2, Longitude: 106.8}
	assert.NoError(t, req.Validate())

	req.Override = true
	assert.Error(t, req.Validate())

	req.OverrideReason = "gps drift di gedung B"
	assert.NoError(t, req.Validate())

	req.Latitude = 91
	assert.Error(t, req.Validate())

	req.Latitude = -6.2
	req.Longitude = math.NaN()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Equal(t, "longitude", verrs[0].Field)
}
