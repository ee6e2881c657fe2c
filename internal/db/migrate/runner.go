// Package migrate applies the embedded SQL migrations with golang-migrate.
package migrate

import (
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jrsteele09/go-forum-auth/internal/db"
	"github.com/pkg/errors"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// ErrNoChange is returned by golang-migrate when already at the target version
var ErrNoChange = migrate.ErrNoChange

// Run applies migrations in direction against dsn. Being already at the
// target version is not an error.
func Run(dsn, direction string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("[migrate.Run] DATABASE_URL is not set")
	}
	if direction != DirectionUp && direction != DirectionDown {
		return errors.Errorf("[migrate.Run] direction must be up or down, got %q", direction)
	}

	source, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "[migrate.Run] migration source")
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return errors.Wrap(err, "[migrate.Run] migrate.NewWithSourceInstance")
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case DirectionUp:
		err = m.Up()
	case DirectionDown:
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "[migrate.Run] %s", direction)
	}
	return nil
}
