package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Dialects with their own migration directory under files/.
const (
	SQLite   = "sqlite"
	Postgres = "postgres"
)

//go:embed files/sqlite/*.sql files/postgres/*.sql
var migrationFiles embed.FS

// Status describes the schema version of a database relative to the
// migrations compiled into the binary.
type Status struct {
	Version uint
	Latest  uint
	Dirty   bool
}

// CheckDBMigrationStatus verifies that the database schema is up-to-date.
// Returns nil if the database is at the latest version.
func CheckDBMigrationStatus(db *sql.DB, dialect string) error {
	st, err := GetStatus(db, dialect)
	if err != nil {
		return err
	}
	if st.Version == 0 {
		return fmt.Errorf("database has no schema version (needs migration)")
	}
	if st.Dirty {
		return fmt.Errorf("database is in dirty state at version %d (migration failed previously)", st.Version)
	}
	if st.Version < st.Latest {
		return fmt.Errorf("database is at version %d but latest is %d (%d migrations behind)",
			st.Version, st.Latest, st.Latest-st.Version)
	}
	if st.Version > st.Latest {
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)",
			st.Version, st.Latest)
	}
	return nil
}

// GetStatus reports the current and latest schema versions. A database
// without any applied migration has Version 0.
func GetStatus(db *sql.DB, dialect string) (*Status, error) {
	m, err := newMigrate(db, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m is not closed: closing it would close db, which the caller owns.

	st := &Status{}
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return nil, fmt.Errorf("failed to get database version: %w", err)
	default:
		st.Version, st.Dirty = version, dirty
	}

	src, err := newSource(dialect)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if st.Latest, err = getLatestVersion(src); err != nil {
		return nil, fmt.Errorf("failed to determine latest version: %w", err)
	}
	return st, nil
}

// MigrateUp runs all pending migrations to bring database to latest version.
func MigrateUp(db *sql.DB, dialect string) error {
	m, err := newMigrate(db, dialect)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func newSource(dialect string) (source.Driver, error) {
	switch dialect {
	case SQLite, Postgres:
	default:
		return nil, fmt.Errorf("unknown migration dialect: %s", dialect)
	}
	src, err := iofs.New(migrationFiles, "files/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}
	return src, nil
}

func newMigrate(db *sql.DB, dialect string) (*migrate.Migrate, error) {
	src, err := newSource(dialect)
	if err != nil {
		return nil, err
	}

	var (
		driver     database.Driver
		driverName string
	)
	switch dialect {
	case SQLite:
		driverName = "sqlite3"
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case Postgres:
		driverName = "pgx5"
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	}
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// getLatestVersion returns the highest version number available in the source.
func getLatestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			// Next fails once there are no more migrations.
			break
		}
		version = next
	}
	return version, nil
}
