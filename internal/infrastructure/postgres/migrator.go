package postgres

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// RunMigrations applies all pending migrations. A non-empty schema scopes
// the run to that tenant schema, including the schema_migrations
// bookkeeping table.
func RunMigrations(databaseURL, migrationsPath, schema string) error {
	m, err := newMigrator(databaseURL, migrationsPath, schema)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("schema", schema).Msg("database migrations: no change")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Str("schema", schema).Msg("database migrations: applied successfully")
	return nil
}

// RunMigrationsDown rolls back the last migration.
func RunMigrationsDown(databaseURL, migrationsPath, schema string) error {
	m, err := newMigrator(databaseURL, migrationsPath, schema)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	log.Info().Str("schema", schema).Msg("database migrations: rolled back successfully")
	return nil
}

func newMigrator(databaseURL, migrationsPath, schema string) (*migrate.Migrate, error) {
	if schema != "" {
		scoped, err := schemaScopedURL(databaseURL, schema)
		if err != nil {
			return nil, err
		}
		databaseURL = scoped
	}

	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

// schemaScopedURL pins the connection's search_path so migrations create
// their objects (and the schema_migrations table) inside one tenant
// schema.
func schemaScopedURL(databaseURL, schema string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
