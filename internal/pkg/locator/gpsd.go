package locator

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"sync"
	"time"
)

const (
	DefaultGPSDAddr = "localhost:2947"
	gpsdWatch       = `?WATCH={"enable":true,"json":true}` + "\n"
)

// GPSDProvider reads TPV reports from a gpsd daemon.
type GPSDProvider struct {
	Addr string

	mu   sync.Mutex
	last *Fix
}

func NewGPSDProvider(addr string) *GPSDProvider {
	if addr == "" {
		addr = DefaultGPSDAddr
	}
	return &GPSDProvider{Addr: addr}
}

// tpv is the subset of a gpsd TPV report used here.
type tpv struct {
	Class string    `json:"class"`
	Mode  int       `json:"mode"`
	Time  time.Time `json:"time"`
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
	Eph   float64   `json:"eph"`
	Epx   float64   `json:"epx"`
	Epy   float64   `json:"epy"`
}

// parseTPV returns a fix for a 2D/3D TPV line that carries an error estimate.
func parseTPV(line []byte) (Fix, bool) {
	var r tpv
	if err := json.Unmarshal(line, &r); err != nil || r.Class != "TPV" || r.Mode < 2 {
		return Fix{}, false
	}

	accuracy := r.Eph
	if accuracy <= 0 {
		accuracy = math.Max(r.Epx, r.Epy)
	}
	if accuracy <= 0 {
		return Fix{}, false
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return Fix{Latitude: r.Lat, Longitude: r.Lon, Accuracy: accuracy, Timestamp: ts}, true
}

func (p *GPSDProvider) CurrentPosition(ctx context.Context, maxAge time.Duration) (Fix, error) {
	p.mu.Lock()
	if p.last != nil && time.Since(p.last.Timestamp) <= maxAge {
		fix := *p.last
		p.mu.Unlock()
		return fix, nil
	}
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fixes, err := p.Watch(ctx)
	if err != nil {
		return Fix{}, err
	}
	select {
	case fix, ok := <-fixes:
		if !ok {
			if ctx.Err() != nil {
				return Fix{}, ErrTimeout
			}
			return Fix{}, ErrPositionUnavailable
		}
		return fix, nil
	case <-ctx.Done():
		return Fix{}, ctx.Err()
	}
}

func (p *GPSDProvider) Watch(ctx context.Context) (<-chan Fix, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial gpsd %s: %v", ErrPositionUnavailable, p.Addr, err)
	}
	if _, err := conn.Write([]byte(gpsdWatch)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: enable gpsd watch: %v", ErrPositionUnavailable, err)
	}

	ch := make(chan Fix)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()

	go func() {
		defer close(ch)
		defer close(stop)

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fix, ok := parseTPV(scanner.Bytes())
			if !ok {
				continue
			}
			p.mu.Lock()
			p.last = &fix
			p.mu.Unlock()

			select {
			case ch <- fix:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
			slog.Warn("gpsd stream ended", "addr", p.Addr, "error", err)
		}
	}()

	return ch, nil
}
