package directory

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-presensi-go/internal/config"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

// DirectoryService resolves roles and work sites from the user store and
// reviewer chains from configuration.
type DirectoryService struct {
	user.UserRepository
	user.WorkSiteRepository
	chains config.ChainTable
}

func NewDirectoryService(userRepository user.UserRepository, workSiteRepository user.WorkSiteRepository, chains config.ChainTable) user.Directory {
	return &DirectoryService{
		UserRepository:     userRepository,
		WorkSiteRepository: workSiteRepository,
		chains:             chains,
	}
}

func (s *DirectoryService) RolesOf(ctx context.Context, userID string) ([]user.Role, error) {
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Roles, nil
}

func (s *DirectoryService) ChainFor(ctx context.Context, roles []user.Role) ([]user.Role, error) {
	for _, role := range roles {
		chain, ok := s.chains[string(role)]
		if !ok || len(chain) == 0 {
			continue
		}
		out := make([]user.Role, len(chain))
		for i, r := range chain {
			out[i] = user.Role(r)
		}
		return out, nil
	}
	return nil, user.ErrNoApprovalChain
}

func (s *DirectoryService) WorkSiteOf(ctx context.Context, userID string) (user.WorkSite, error) {
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return user.WorkSite{}, err
	}
	if u.WorkSiteID == nil {
		return user.WorkSite{}, user.ErrWorkSiteNotAssigned
	}

	site, err := s.WorkSiteRepository.GetByID(ctx, *u.WorkSiteID)
	if err != nil {
		return user.WorkSite{}, fmt.Errorf("failed to get work site: %w", err)
	}
	return site, nil
}

func (s *DirectoryService) activeUser(ctx context.Context, userID string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.Active {
		return user.User{}, user.ErrUserInactive
	}
	return u, nil
}
