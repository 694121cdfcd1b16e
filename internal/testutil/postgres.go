package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yigit/ratemyteacher/internal/app/migrations"
	"github.com/yigit/ratemyteacher/internal/config"
	"github.com/yigit/ratemyteacher/internal/db"
)

// NewPostgresDB starts a disposable PostgreSQL container and applies the
// migrations. The test is skipped under -short or without a container runtime.
func NewPostgresDB(t *testing.T) *db.PostgresDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ratemyteacher_test"),
		postgres.WithUsername("ratemyteacher"),
		postgres.WithPassword("ratemyteacher"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.URL = connStr
	cfg.Database.MaxOpenConns = 10
	cfg.Database.ConnectTimeout = "10s"
	cfg.Database.IdleTimeout = "45s"
	cfg.Database.ConnMaxLifetime = "1h"

	database, err := db.NewPostgresDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	_, err = migrations.NewMigrator(database.Pool).Migrate(ctx)
	require.NoError(t, err)

	return database
}
