// Package migrations aplica el esquema embebido con goose, un directorio por dialecto.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// UpSQLite aplica las migraciones pendientes sobre SQLite.
func UpSQLite(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	return up(ctx, db, goose.DialectSQLite3, "sqlite", log)
}

// UpPostgres aplica las migraciones pendientes sobre PostgreSQL.
func UpPostgres(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	return up(ctx, db, goose.DialectPostgres, "postgres", log)
}

func up(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string, log zerolog.Logger) error {
	fsys, err := fs.Sub(embedded, dir)
	if err != nil {
		return fmt.Errorf("migraciones %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migraciones %s: %w", dir, err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migraciones %s: %w", dir, err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("migración aplicada")
	}
	return nil
}
