package locator

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTPV(t *testing.T) {
	tests := []struct {
		name string
		line string
		acc  float64
		ok   bool
	}{
		{"3d fix with eph", `{"class":"TPV","mode":3,"lat":-6.2,"lon":106.8,"eph":12.5,"time":"2025-03-03T00:00:00Z"}`, 12.5, true},
		{"2d fix with epx/epy", `{"class":"TPV","mode":2,"lat":-6.2,"lon":106.8,"epx":8,"epy":14}`, 14, true},
		{"no fix", `{"class":"TPV","mode":1}`, 0, false},
		{"no error estimate", `{"class":"TPV","mode":3,"lat":-6.2,"lon":106.8}`, 0, false},
		{"sky report", `{"class":"SKY","satellites":[]}`, 0, false},
		{"garbage", `not json`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix, ok := parseTPV([]byte(tt.line))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.acc, fix.Accuracy)
			}
		})
	}
}

// fakeGPSD checks each client's WATCH command, then writes lines to it.
func fakeGPSD(t *testing.T, lines ...string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	serve := func(conn net.Conn) {
		defer conn.Close()

		cmd, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil || !strings.HasPrefix(cmd, "?WATCH=") {
			return
		}
		for _, l := range lines {
			if _, err := conn.Write([]byte(l + "\n")); err != nil {
				return
			}
		}
		time.Sleep(time.Second)
	}
	return listen(t, ln, serve)
}

// noFixGPSD behaves like a receiver without a lock: it keeps sending mode 1
// reports until the client hangs up.
func noFixGPSD(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	serve := func(conn net.Conn) {
		defer conn.Close()

		if _, err := bufio.NewReader(conn).ReadString('\n'); err != nil {
			return
		}
		for {
			if _, err := conn.Write([]byte(`{"class":"TPV","mode":1}` + "\n")); err != nil {
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
	return listen(t, ln, serve)
}

func listen(t *testing.T, ln net.Listener, serve func(net.Conn)) string {
	t.Helper()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serve(conn)
		}
	}()
	return ln.Addr().String()
}

func TestGPSDProvider_Sampling(t *testing.T) {
	addr := fakeGPSD(t,
		`{"class":"VERSION","release":"3.25"}`,
		`{"class":"TPV","mode":2,"lat":-6.2,"lon":106.8,"eph":250}`,
		`{"class":"TPV","mode":3,"lat":-6.2001,"lon":106.8001,"eph":30}`,
	)

	s, err := NewSampler(NewGPSDProvider(addr), Config{Window: 2 * time.Second})
	require.NoError(t, err)

	r, err := s.Acquire(context.Background(), "cli")
	require.NoError(t, err)
	assert.Equal(t, StateAccepted, r.State)
	assert.Equal(t, 30.0, r.Fix.Accuracy)
}

func TestGPSDProvider_NoLockTimesOut(t *testing.T) {
	s, err := NewSampler(NewGPSDProvider(noFixGPSD(t)), Config{Window: 500 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Acquire(context.Background(), "cli")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGPSDProvider_Unavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewGPSDProvider(addr).Watch(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}
