package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/testutil"
)

func TestEnsureAdminConfigIsIdempotent(t *testing.T) {
	repos := testutil.NewRepositories(t)
	hasher := testutil.Hasher()
	svc := services.NewAdminConfigService(repos.AdminConfig, hasher, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, EnsureAdminConfig(ctx, svc, "first-secret", zerolog.Nop()))
	require.NoError(t, EnsureAdminConfig(ctx, svc, "second-secret", zerolog.Nop()))

	cfg, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, hasher.Verify(cfg.SecretHash, "first-secret"))
	assert.False(t, hasher.Verify(cfg.SecretHash, "second-secret"))
	assert.False(t, cfg.AnonymousReviews)
	assert.False(t, cfg.HideTeacherImages)
}

func TestCreateDemoData(t *testing.T) {
	repos := testutil.NewRepositories(t)
	catalog := services.NewCatalogService(repos.Schools, repos.Classes, zerolog.Nop())
	teachers := services.NewTeacherService(repos.Teachers, repos.Classes, nil, zerolog.Nop())
	ctx := context.Background()

	created, err := CreateDemoData(ctx, catalog, teachers, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, created)

	schools, err := catalog.ListSchools(ctx)
	require.NoError(t, err)
	assert.Len(t, schools, len(demoCatalog))

	listing, err := teachers.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Len(t, listing, 5)

	created, err = CreateDemoData(ctx, catalog, teachers, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, created, "a populated catalog is left alone")

	listing, err = teachers.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Len(t, listing, 5)
}
