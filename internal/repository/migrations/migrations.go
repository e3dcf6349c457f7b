// Package migrations applies the versioned schema of the SQL slot stores.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

//go:embed sql
var files embed.FS

// Dialects with an embedded migration set
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Up applies every pending migration of dialect against databaseURL.
// databaseURL uses the golang-migrate scheme of the dialect
// (postgres://, mysql://, sqlite://).
func Up(dialect, databaseURL string) error {
	src, err := iofs.New(files, "sql/"+dialect)
	if err != nil {
		return fmt.Errorf("failed to open %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug().Str("dialect", dialect).Msg("Storage migration: no changes")
			return nil
		}
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	log.Info().Str("dialect", dialect).Msg("Storage migration: success")
	return nil
}

// MySQLURL turns a go-sql-driver DSN into a migrate URL
func MySQLURL(dsn string) string {
	return "mysql://" + dsn
}

// SQLiteURL turns a database file path into a migrate URL
func SQLiteURL(path string) string {
	return "sqlite://" + path
}
