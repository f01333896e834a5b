package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// setupPostgres starts a PostgreSQL container and returns its connection string.
func setupPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL container in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("btc_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		tcpostgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{"test": "btc-store", "test-name": t.Name()}),
	)
	if err != nil {
		t.Skipf("cannot start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate test container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return url
}

func TestPostgres(t *testing.T) {
	url := setupPostgres(t)
	require.NoError(t, Migrate(url, quietLogger()))
	// migrating twice is a no-op.
	require.NoError(t, Migrate(url, quietLogger()))

	s, err := NewPostgres(context.Background(), url, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	testStore(t, s)
}
