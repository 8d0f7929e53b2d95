package locator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns snapshot from CurrentPosition and streams stream
// from Watch, then blocks until the window closes.
type scriptedProvider struct {
	snapshot    *Fix
	snapshotErr error
	stream      []float64
	streamGap   time.Duration
	watchErr    error
	closeEarly  bool

	// hangSnapshot makes CurrentPosition wait for its context.
	hangSnapshot bool

	watches atomic.Int32
	gate    chan struct{}
}

func (p *scriptedProvider) CurrentPosition(ctx context.Context, maxAge time.Duration) (Fix, error) {
	if p.gate != nil {
		<-p.gate
	}
	if p.hangSnapshot {
		<-ctx.Done()
		return Fix{}, ctx.Err()
	}
	if p.snapshotErr != nil {
		return Fix{}, p.snapshotErr
	}
	if p.snapshot == nil {
		return Fix{}, ErrPositionUnavailable
	}
	return *p.snapshot, nil
}

func (p *scriptedProvider) Watch(ctx context.Context) (<-chan Fix, error) {
	p.watches.Add(1)
	if p.watchErr != nil {
		return nil, p.watchErr
	}
	ch := make(chan Fix)
	go func() {
		defer close(ch)
		for _, acc := range p.stream {
			select {
			case <-time.After(p.streamGap):
			case <-ctx.Done():
				return
			}
			select {
			case ch <- Fix{Latitude: -6.2, Longitude: 106.8, Accuracy: acc, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}
		}
		if !p.closeEarly {
			<-ctx.Done()
		}
	}()
	return ch, nil
}

func fixWith(acc float64) *Fix {
	return &Fix{Latitude: -6.2, Longitude: 106.8, Accuracy: acc, Timestamp: time.Now()}
}

func TestSampler_SnapshotWithinTolerance(t *testing.T) {
	p := &scriptedProvider{snapshot: fixWith(35)}
	s, err := NewSampler(p, Config{})
	require.NoError(t, err)

	r, err := s.Acquire(context.Background(), "session")
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, r.State)
	assert.Equal(t, 35.0, r.Fix.Accuracy)
	assert.Equal(t, int32(0), p.watches.Load())
}

func TestSampler_AcceptsFirstFixWithinTolerance(t *testing.T) {
	p := &scriptedProvider{
		snapshot:  fixWith(150),
		stream:    []float64{150, 150, 40, 10},
		streamGap: 10 * time.Millisecond,
	}
	s, err := NewSampler(p, Config{Tolerance: 100, Window: 5 * time.Second})
	require.NoError(t, err)

	start := time.Now()
	r, err := s.Acquire(context.Background(), "session")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StateAccepted, r.State)
	assert.Equal(t, 40.0, r.Fix.Accuracy)
	assert.Equal(t, 4, r.Samples)
	assert.True(t, r.WithinTolerance())
}

func TestSampler_WindowElapsesReturnsBest(t *testing.T) {
	p := &scriptedProvider{
		snapshot:  fixWith(400),
		stream:    []float64{300, 180, 250},
		streamGap: 5 * time.Millisecond,
	}
	var states []State
	s, err := NewSampler(p, Config{Tolerance: 100, Window: 100 * time.Millisecond, OnState: func(st State) { states = append(states, st) }})
	require.NoError(t, err)

	r, err := s.Acquire(context.Background(), "session")
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, r.State)
	assert.Equal(t, 180.0, r.Fix.Accuracy)
	assert.False(t, r.WithinTolerance())
	assert.Equal(t, []State{StateSnapshot, StateSampling, StateExhausted}, states)

	_, err = r.Accept(false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	fix, err := r.Accept(true)
	require.NoError(t, err)
	assert.Equal(t, 180.0, fix.Accuracy)
}

func TestSampler_Timeout(t *testing.T) {
	p := &scriptedProvider{snapshotErr: ErrTimeout}
	s, err := NewSampler(p, Config{Window: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = s.Acquire(context.Background(), "session")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSampler_HungSnapshotFallsThroughToSampling(t *testing.T) {
	p := &scriptedProvider{hangSnapshot: true, stream: []float64{300, 40}, streamGap: 10 * time.Millisecond}
	s, err := NewSampler(p, Config{Window: 2 * time.Second, SnapshotTimeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	r, err := s.Acquire(context.Background(), "session")
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, r.State)
	assert.Equal(t, 40.0, r.Fix.Accuracy)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSampler_HungSnapshotStillEndsByDeadline(t *testing.T) {
	p := &scriptedProvider{hangSnapshot: true}
	s, err := NewSampler(p, Config{Window: 200 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Acquire(context.Background(), "session")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSampler_PositionUnavailable(t *testing.T) {
	p := &scriptedProvider{closeEarly: true}
	s, err := NewSampler(p, Config{Window: time.Second})
	require.NoError(t, err)

	_, err = s.Acquire(context.Background(), "session")
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestSampler_PermissionDenied(t *testing.T) {
	p := &scriptedProvider{snapshotErr: ErrPermissionDenied}
	s, err := NewSampler(p, Config{})
	require.NoError(t, err)

	_, err = s.Acquire(context.Background(), "session")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, int32(0), p.watches.Load())

	p = &scriptedProvider{snapshot: fixWith(300), watchErr: ErrPermissionDenied}
	s, err = NewSampler(p, Config{})
	require.NoError(t, err)
	_, err = s.Acquire(context.Background(), "session")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSampler_SingleFlightPerSession(t *testing.T) {
	p := &scriptedProvider{
		snapshot:  fixWith(150),
		stream:    []float64{60},
		streamGap: 20 * time.Millisecond,
		gate:      make(chan struct{}),
	}
	s, err := NewSampler(p, Config{Window: time.Second})
	require.NoError(t, err)

	var wg sync.WaitGroup
	readings := make([]Reading, 3)
	for i := range readings {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			readings[i], _ = s.Acquire(context.Background(), "session")
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	assert.Equal(t, int32(1), p.watches.Load())
	for _, r := range readings {
		assert.Equal(t, 60.0, r.Fix.Accuracy)
	}
}

func TestSampler_Cancelled(t *testing.T) {
	p := &scriptedProvider{snapshot: fixWith(300)}
	s, err := NewSampler(p, Config{Window: 5 * time.Second})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = s.Acquire(ctx, "session")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestParseTolerance(t *testing.T) {
	for _, m := range []int{50, 100, 200, 500} {
		tol, err := ParseTolerance(m)
		require.NoError(t, err)
		assert.Equal(t, Tolerance(m), tol)
	}
	_, err := ParseTolerance(75)
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = NewSampler(&scriptedProvider{}, Config{Tolerance: 75})
	assert.ErrorIs(t, err, ErrInvalidTolerance)
}

func TestStaticProvider(t *testing.T) {
	s, err := NewSampler(StaticProvider{Latitude: -6.2, Longitude: 106.8, Accuracy: 5}, Config{})
	require.NoError(t, err)

	r, err := s.Acquire(context.Background(), "kiosk")
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, r.State)
	assert.Equal(t, -6.2, r.Fix.Latitude)
}
