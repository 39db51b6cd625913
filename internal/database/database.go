package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver ("pgx")
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"docflow/internal/database/migrations"
	"docflow/internal/database/sqlc"
	"docflow/internal/docflow"
)

// sqliteParams makes every transaction BEGIN IMMEDIATE, so a transaction
// holds the database write lock from its first statement. Waiting writers
// retry for up to five seconds.
const sqliteParams = "_txlock=immediate&_busy_timeout=5000&_foreign_keys=1"

// dialect captures what differs between the supported SQL backends.
type dialect struct {
	name       string // migrations dialect
	driverName string
	// lockDocument loads a document row and locks it until the
	// transaction completes.
	lockDocument func(q *sqlc.Queries, ctx context.Context, id string) (sqlc.Document, error)
}

var (
	// SQLite has no row locks; the IMMEDIATE transaction already holds
	// the database write lock, so a plain read is enough.
	sqliteDialect = dialect{
		name:         migrations.SQLite,
		driverName:   "sqlite3",
		lockDocument: (*sqlc.Queries).GetDocument,
	}
	postgresDialect = dialect{
		name:         migrations.Postgres,
		driverName:   "pgx",
		lockDocument: (*sqlc.Queries).GetDocumentForUpdate,
	}
)

// SQLDatabase implements docflow.Store on top of database/sql.
type SQLDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	dialect dialect
}

var _ docflow.Store = (*SQLDatabase)(nil)

// OpenSQLite opens a SQLite database. path can be a file path or ":memory:".
func OpenSQLite(path string) (*SQLDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return newSQLDatabase(db, sqliteDialect), nil
}

// OpenPostgres opens a Postgres database from a pgx connection string.
func OpenPostgres(ctx context.Context, dsn string) (*SQLDatabase, error) {
	db, err := sql.Open(postgresDialect.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return newSQLDatabase(db, postgresDialect), nil
}

// OpenConnection opens and configures a SQLite connection pool. It is
// exported for tools and tests that need a raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDialect.driverName, path+"?"+sqliteParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func newSQLDatabase(db *sql.DB, d dialect) *SQLDatabase {
	return &SQLDatabase{
		db:      db,
		queries: sqlc.New(db),
		dialect: d,
	}
}

// Dialect returns the migrations dialect of the database.
func (s *SQLDatabase) Dialect() string {
	return s.dialect.name
}

// MigrateUp applies all pending schema migrations.
func (s *SQLDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db, s.dialect.name)
}

// CheckMigrations returns an error unless the schema is at the latest version.
func (s *SQLDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db, s.dialect.name)
}

// MigrationStatus reports the applied and latest schema versions.
func (s *SQLDatabase) MigrationStatus() (*migrations.Status, error) {
	return migrations.GetStatus(s.db, s.dialect.name)
}

func (s *SQLDatabase) Close() error {
	return s.db.Close()
}
