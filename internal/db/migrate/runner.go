// Package migrate applies the embedded schema migrations with golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"blog-platform/backend/internal/db"
)

// ErrNoChange reports that the schema is already at the target version.
var ErrNoChange = migrate.ErrNoChange

func open(dsn string) (*migrate.Migrate, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is empty")
	}
	src, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return m, nil
}

// Run migrates the schema in the given direction, "up" or "down". Returns
// ErrNoChange when there is nothing to apply so callers can treat an
// already-migrated database as success.
func Run(dsn, direction string) error {
	m, err := open(dsn)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	default:
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}
}

// Version returns the current schema version and whether the database is in a
// dirty state from an interrupted migration.
func Version(dsn string) (uint, bool, error) {
	m, err := open(dsn)
	if err != nil {
		return 0, false, err
	}
	defer func() { _, _ = m.Close() }()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}
