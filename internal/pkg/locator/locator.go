// Package locator acquires a geolocation fix good enough to submit for
// attendance, within a bounded time budget.
package locator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrPermissionDenied     = errors.New("location permission denied")
	ErrPositionUnavailable  = errors.New("position unavailable")
	ErrTimeout              = errors.New("no position obtained within the sampling window")
	ErrConfirmationRequired = errors.New("fix accuracy exceeds tolerance, explicit confirmation required")
	ErrInvalidTolerance     = errors.New("tolerance must be one of 50, 100, 200, 500 meters")
)

// Fix is a single position sample. Accuracy is the error radius in meters.
type Fix struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Timestamp time.Time
}

// Provider is a source of fixes.
type Provider interface {
	// CurrentPosition returns one fix, which may be a cached one no older than maxAge.
	CurrentPosition(ctx context.Context, maxAge time.Duration) (Fix, error)

	// Watch streams high-accuracy fixes. The channel is closed when ctx is
	// done or the provider stops.
	Watch(ctx context.Context) (<-chan Fix, error)
}

// Tolerance is an accuracy threshold in meters.
type Tolerance float64

var Tiers = []Tolerance{50, 100, 200, 500}

const (
	DefaultTolerance       Tolerance = 100
	DefaultWindow                    = 8 * time.Second
	DefaultMaxAge                    = 60 * time.Second
	DefaultSnapshotTimeout           = 2 * time.Second
)

// ParseTolerance accepts only the configured tiers.
func ParseTolerance(meters int) (Tolerance, error) {
	for _, t := range Tiers {
		if Tolerance(meters) == t {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidTolerance, meters)
}

// State is a step of one acquisition pass.
type State string

const (
	StateSnapshot  State = "snapshot"
	StateSampling  State = "sampling"
	StateAccepted  State = "accepted"
	StateExhausted State = "exhausted"
)

// Reading is the result of an acquisition pass.
type Reading struct {
	Fix       Fix
	Tolerance Tolerance
	State     State // StateAccepted or StateExhausted
	Samples   int
}

// WithinTolerance reports whether the fix met the tolerance.
func (r Reading) WithinTolerance() bool {
	return r.Fix.Accuracy <= float64(r.Tolerance)
}

// Accept returns the fix for submission. A fix above tolerance is released
// only when confirmed is true.
func (r Reading) Accept(confirmed bool) (Fix, error) {
	if !r.WithinTolerance() && !confirmed {
		return Fix{}, fmt.Errorf("%w: accuracy %.0fm, tolerance %.0fm", ErrConfirmationRequired, r.Fix.Accuracy, float64(r.Tolerance))
	}
	return r.Fix, nil
}
