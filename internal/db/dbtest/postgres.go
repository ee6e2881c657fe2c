// Package dbtest starts a throwaway PostgreSQL for integration tests.
//
// Integration tests are opt-in:
//
//	GO_TEST_INTEGRATION=1 go test ./... -race -count=1
package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-forum-auth/internal/db"
	"github.com/jrsteele09/go-forum-auth/internal/db/migrate"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const IntegrationEnvVar = "GO_TEST_INTEGRATION"

// StartPostgres runs postgres:16-alpine, applies the migrations and returns a
// connected pool. The container is terminated when the test ends.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv(IntegrationEnvVar) == "" {
		t.Skipf("integration tests are disabled (set %s=1)", IntegrationEnvVar)
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "forum", "POSTGRES_PASSWORD": "forum", "POSTGRES_DB": "forum"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://forum:forum@%s:%s/forum?sslmode=disable", host, port.Port())

	require.NoError(t, migrate.Run(dsn, migrate.DirectionUp))

	pool, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
