// Package fixtures holds the demo data loaded when the server runs on the
// in-memory store.
package fixtures

import (
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
)

func strPtr(s string) *string { return &s }

const (
	DemoSiteID = "0192f5a0-7c2e-7a41-9b6e-3f1d2c4b5a60"

	DemoGuruID          = "0192f5a0-7c2e-7b10-8a01-000000000001"
	DemoStafID          = "0192f5a0-7c2e-7b10-8a01-000000000002"
	DemoKepalaSekolahID = "0192f5a0-7c2e-7b10-8a01-000000000003"
	DemoDirpenID        = "0192f5a0-7c2e-7b10-8a01-000000000004"
)

// Seeder receives demo records. memory.Store satisfies it.
type Seeder interface {
	AddWorkSite(ws user.WorkSite)
	AddUser(u user.User)
}

// DemoWorkSites returns the work sites of the demo school.
func DemoWorkSites() []user.WorkSite {
	return []user.WorkSite{
		{
			ID:           DemoSiteID,
			Name:         "SD Harapan Bangsa",
			Latitude:     -6.175392,
			Longitude:    106.827153,
			RadiusMeters: 100,
		},
	}
}

// DemoUsers returns one user per role of the default approval chains.
// The foundation director works off-site and has no geofence.
func DemoUsers() []user.User {
	return []user.User{
		{ID: DemoGuruID, Name: "Siti Rahmawati", Email: "siti@harapan.sch.id", Roles: []user.Role{"guru"}, WorkSiteID: strPtr(DemoSiteID), Active: true},
		{ID: DemoStafID, Name: "Budi Santoso", Email: "budi@harapan.sch.id", Roles: []user.Role{"staf"}, WorkSiteID: strPtr(DemoSiteID), Active: true},
		{ID: DemoKepalaSekolahID, Name: "Agus Wijaya", Email: "agus@harapan.sch.id", Roles: []user.Role{"kepala sekolah", "guru"}, WorkSiteID: strPtr(DemoSiteID), Active: true},
		{ID: DemoDirpenID, Name: "Dewi Lestari", Email: "dewi@harapan.or.id", Roles: []user.Role{"dirpen"}, Active: true},
	}
}

// Seed loads the demo work sites and users into s.
func Seed(s Seeder) []user.User {
	for _, ws := range DemoWorkSites() {
		s.AddWorkSite(ws)
	}
	users := DemoUsers()
	for _, u := range users {
		s.AddUser(u)
	}
	return users
}
