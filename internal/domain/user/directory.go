package user

import "context"

// Directory answers who holds which role, which reviewer chain a requester's
// leave goes through, and where a user is expected to check in.
type Directory interface {
	// RolesOf returns the roles held by userID.
	RolesOf(ctx context.Context, userID string) ([]Role, error)

	// ChainFor returns the ordered reviewer chain for a requester holding roles.
	// The first role with a configured chain wins.
	ChainFor(ctx context.Context, roles []Role) ([]Role, error)

	// WorkSiteOf returns the geofence assigned to userID.
	WorkSiteOf(ctx context.Context, userID string) (WorkSite, error)
}
