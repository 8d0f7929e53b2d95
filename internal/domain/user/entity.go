package user

import "time"

// Role is a reviewer/requester role token, e.g. "guru", "kepala sekolah", "dirpen".
// The set of roles is configuration, not code.
type Role string

type User struct {
	ID         string
	Name       string
	Email      string
	Roles      []Role
	WorkSiteID *string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRole checks if the user holds role r
func (u *User) HasRole(r Role) bool {
	return HasRole(u.Roles, r)
}

func HasRole(roles []Role, r Role) bool {
	for _, role := range roles {
		if role == r {
			return true
		}
	}
	return false
}

// WorkSite is the geofence a user checks in against.
type WorkSite struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}
