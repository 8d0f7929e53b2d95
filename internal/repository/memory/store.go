// Package memory keeps every repository in process. It backs the "memory"
// storage driver and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/pkg/database"
)

type attendanceKey struct {
	userID string
	date   time.Time
}

type Store struct {
	txMu sync.Mutex // one transaction at a time
	mu   sync.RWMutex

	users       map[string]user.User
	workSites   map[string]user.WorkSite
	requests    map[string]leave.LeaveRequest
	reviews     map[string][]leave.LeaveReview
	attendances map[attendanceKey]attendance.Attendance
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		workSites:   make(map[string]user.WorkSite),
		requests:    make(map[string]leave.LeaveRequest),
		reviews:     make(map[string][]leave.LeaveReview),
		attendances: make(map[attendanceKey]attendance.Attendance),
	}
}

// AddUser inserts or replaces u.
func (s *Store) AddUser(u user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Roles = append([]user.Role(nil), u.Roles...)
	s.users[u.ID] = u
}

func (s *Store) AddWorkSite(ws user.WorkSite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workSites[ws.ID] = ws
}

type txKey struct{}

// txLog collects undo steps for the writes made inside one transaction.
type txLog struct {
	undo []func()
}

type transactor struct {
	s *Store
}

// NewTransactor returns a Transactor that serializes transactions. When fn
// fails only the keys it wrote are reverted; writes made outside the
// transaction in the meantime are kept.
func NewTransactor(s *Store) database.Transactor {
	return &transactor{s: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		t.s.rollback(log)
		return err
	}
	return nil
}

func (s *Store) rollback(log *txLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(log.undo) - 1; i >= 0; i-- {
		log.undo[i]()
	}
}

// The write helpers below must be called with s.mu held.

func (s *Store) onRollback(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, undo)
	}
}

func (s *Store) putRequest(ctx context.Context, req leave.LeaveRequest) {
	prev, had := s.requests[req.ID]
	s.onRollback(ctx, func() {
		if had {
			s.requests[req.ID] = prev
		} else {
			delete(s.requests, req.ID)
		}
	})
	s.requests[req.ID] = req
}

func (s *Store) appendReview(ctx context.Context, review leave.LeaveReview) {
	prev, had := s.reviews[review.RequestID]
	s.onRollback(ctx, func() {
		if had {
			s.reviews[review.RequestID] = prev
		} else {
			delete(s.reviews, review.RequestID)
		}
	})
	s.reviews[review.RequestID] = append(prev[:len(prev):len(prev)], review)
}

func (s *Store) putAttendance(ctx context.Context, a attendance.Attendance) {
	key := attendanceKey{userID: a.UserID, date: a.Date}
	prev, had := s.attendances[key]
	s.onRollback(ctx, func() {
		if had {
			s.attendances[key] = prev
		} else {
			delete(s.attendances, key)
		}
	})
	s.attendances[key] = a
}
