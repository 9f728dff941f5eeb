package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// RunMigrations applies all up migrations for driver. target is a file path
// for sqlite and a postgres:// URL for postgres.
func RunMigrations(driver Driver, target string) error {
	m, err := newMigrate(driver, target)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// SchemaVersion reports the applied migration version.
func SchemaVersion(driver Driver, target string) (uint, bool, error) {
	m, err := newMigrate(driver, target)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func newMigrate(driver Driver, target string) (*migrate.Migrate, error) {
	var dir, url string
	switch driver {
	case SQLite, "":
		dir, url = "migrations/sqlite", "sqlite3://"+target+"?_foreign_keys=on"
	case Postgres:
		dir, url = "migrations/postgres", target
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("migrate %s: %w", driver, err)
	}
	return m, nil
}
