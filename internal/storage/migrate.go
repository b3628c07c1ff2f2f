package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	// kvTable holds one row per stored key.
	kvTable = "kv_entries"
	// kvMigrationsTable records the applied schema version of kvTable.
	kvMigrationsTable = "kv_schema_migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrateKVSchema brings the key-value schema of the database at dbPath to
// the newest embedded version and returns that version. It uses its own
// connection because closing the migrator closes the database it was given.
func migrateKVSchema(dbPath string) (uint, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open %s for migration: %w", dbPath, err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: kvMigrationsTable})
	if err != nil {
		return 0, fmt.Errorf("prepare %s migrations: %w", kvTable, err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load %s migrations: %w", kvTable, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("prepare %s migrations: %w", kvTable, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate %s schema: %w", kvTable, err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read %s schema version: %w", kvTable, err)
	}
	if dirty {
		return version, fmt.Errorf("%s schema version %d is dirty", kvTable, version)
	}
	return version, nil
}
