package locator

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

type Config struct {
	Tolerance Tolerance
	Window    time.Duration
	MaxAge    time.Duration

	// SnapshotTimeout bounds the fast snapshot. It never exceeds Window, so a
	// pass takes at most twice the window.
	SnapshotTimeout time.Duration

	// OnState, when set, is called on every state change of a pass.
	OnState func(State)
}

// Sampler runs acquisition passes. At most one pass runs per session; a
// second Acquire for a session with a pass in flight waits for that pass.
type Sampler struct {
	provider Provider
	cfg      Config
	group    singleflight.Group
}

func NewSampler(provider Provider, cfg Config) (*Sampler, error) {
	if cfg.Tolerance == 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if _, err := ParseTolerance(int(cfg.Tolerance)); err != nil {
		return nil, err
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = DefaultSnapshotTimeout
	}
	if cfg.SnapshotTimeout > cfg.Window {
		cfg.SnapshotTimeout = cfg.Window
	}
	return &Sampler{provider: provider, cfg: cfg}, nil
}

// Acquire returns the best fix obtainable for sessionID. The pass runs under
// the context of the caller that started it.
func (s *Sampler) Acquire(ctx context.Context, sessionID string) (Reading, error) {
	ch := s.group.DoChan(sessionID, func() (interface{}, error) {
		return s.run(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Reading{}, res.Err
		}
		return res.Val.(Reading), nil
	case <-ctx.Done():
		return Reading{}, ctx.Err()
	}
}

func (s *Sampler) run(ctx context.Context) (Reading, error) {
	reading := Reading{Tolerance: s.cfg.Tolerance}
	var best *Fix

	s.enter(StateSnapshot)
	snapCtx, cancelSnap := context.WithTimeout(ctx, s.cfg.SnapshotTimeout)
	fix, err := s.provider.CurrentPosition(snapCtx, s.cfg.MaxAge)
	cancelSnap()
	switch {
	case err == nil:
		reading.Samples++
		best = &fix
		if s.within(fix) {
			return s.finish(reading, fix, StateAccepted), nil
		}
	case errors.Is(err, ErrPermissionDenied):
		return Reading{}, err
	case ctx.Err() != nil:
		return Reading{}, ctx.Err()
	}

	s.enter(StateSampling)
	windowCtx, cancel := context.WithTimeout(ctx, s.cfg.Window)
	defer cancel()

	fixes, err := s.provider.Watch(windowCtx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || best == nil {
			return Reading{}, err
		}
		return s.finish(reading, *best, StateExhausted), nil
	}

	streamEnded := false
sampling:
	for {
		select {
		case f, ok := <-fixes:
			if !ok {
				streamEnded = true
				break sampling
			}
			reading.Samples++
			if best == nil || f.Accuracy < best.Accuracy {
				best = &f
			}
			if s.within(f) {
				return s.finish(reading, f, StateAccepted), nil
			}
		case <-windowCtx.Done():
			break sampling
		}
	}

	if ctx.Err() != nil {
		return Reading{}, ctx.Err()
	}
	if best == nil {
		if streamEnded && windowCtx.Err() == nil {
			return Reading{}, ErrPositionUnavailable
		}
		return Reading{}, ErrTimeout
	}
	return s.finish(reading, *best, StateExhausted), nil
}

func (s *Sampler) within(f Fix) bool {
	return f.Accuracy <= float64(s.cfg.Tolerance)
}

func (s *Sampler) finish(r Reading, f Fix, state State) Reading {
	r.Fix = f
	r.State = state
	s.enter(state)
	return r
}

func (s *Sampler) enter(state State) {
	if s.cfg.OnState != nil {
		s.cfg.OnState(state)
	}
}
