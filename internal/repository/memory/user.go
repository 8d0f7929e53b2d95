package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Roles = append([]user.Role(nil), u.Roles...)
	return u, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []user.User
	for _, u := range r.s.users {
		if u.Active {
			u.Roles = append([]user.Role(nil), u.Roles...)
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type workSiteRepository struct {
	s *Store
}

func NewWorkSiteRepository(s *Store) user.WorkSiteRepository {
	return &workSiteRepository{s: s}
}

func (r *workSiteRepository) GetByID(ctx context.Context, id string) (user.WorkSite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ws, ok := r.s.workSites[id]
	if !ok {
		return user.WorkSite{}, user.ErrWorkSiteNotFound
	}
	return ws, nil
}
