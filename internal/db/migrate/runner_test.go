package migrate_test

import (
	"io/fs"
	"testing"

	"github.com/jrsteele09/go-forum-auth/internal/db"
	"github.com/jrsteele09/go-forum-auth/internal/db/migrate"
	"github.com/stretchr/testify/require"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		err := migrate.Run(dsn, migrate.DirectionUp)
		require.Error(t, err)
		require.Contains(t, err.Error(), "DATABASE_URL is not set")
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		t.Run(direction, func(t *testing.T) {
			err := migrate.Run("postgres://localhost/test", direction)
			require.Error(t, err)
			require.Contains(t, err.Error(), "direction must be up or down")
		})
	}
}

func TestMigrationFS_PairsUpAndDown(t *testing.T) {
	ups, err := fs.Glob(db.MigrationFS, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(db.MigrationFS, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	require.Len(t, downs, len(ups))
}
