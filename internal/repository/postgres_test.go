package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vancomm/minesweeper-arcade/internal/database"
)

func checkDockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

// setupTestDB starts a migrated Postgres container. Skips when Docker is
// not available.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	if testing.Short() {
		t.Skip("integration test")
	}
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("mines"),
		postgres.WithUsername("mines"),
		postgres.WithPassword("mines"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := database.Migrate(url, database.Migrations)
	require.NoError(t, err)
	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 2, version)
	migrator.Close()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestPostgres(t *testing.T) {
	pool := setupTestDB(t)

	testStore(t, func(t *testing.T) Store {
		_, err := pool.Exec(
			context.Background(),
			"TRUNCATE player, score, purchase, round RESTART IDENTITY CASCADE",
		)
		require.NoError(t, err)
		return New(pool)
	})
}
