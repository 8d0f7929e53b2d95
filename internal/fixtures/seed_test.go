package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-presensi-go/internal/config"
	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-presensi-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-presensi-go/internal/service/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_EveryRequesterHasAChain(t *testing.T) {
	store := memory.NewStore()
	users := Seed(store)

	dir := directory.NewDirectoryService(memory.NewUserRepository(store), memory.NewWorkSiteRepository(store), config.DefaultChains())
	ctx := context.Background()

	for _, u := range users {
		roles, err := dir.RolesOf(ctx, u.ID)
		require.NoError(t, err, u.Name)

		if user.HasRole(roles, "dirpen") {
			continue
		}
		chain, err := dir.ChainFor(ctx, roles)
		require.NoError(t, err, u.Name)
		assert.NotEmpty(t, chain)
	}
}

func TestSeed_WorkSites(t *testing.T) {
	store := memory.NewStore()
	Seed(store)

	dir := directory.NewDirectoryService(memory.NewUserRepository(store), memory.NewWorkSiteRepository(store), config.DefaultChains())

	site, err := dir.WorkSiteOf(context.Background(), DemoGuruID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, site.RadiusMeters)

	_, err = dir.WorkSiteOf(context.Background(), DemoDirpenID)
	assert.ErrorIs(t, err, user.ErrWorkSiteNotAssigned)
}
