package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsDir is the directory inside MigrationFS holding the SQL files.
const MigrationsDir = "migrations"

// MigrationFS returns the embedded migration files.
func MigrationFS() embed.FS {
	return migrationFS
}

// Migrate applies a goose command (up, down, status, version, reset)
// to db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, MigrationsDir)
	case "down":
		return goose.DownContext(ctx, db, MigrationsDir)
	case "status":
		return goose.StatusContext(ctx, db, MigrationsDir)
	case "version":
		return goose.VersionContext(ctx, db, MigrationsDir)
	case "reset":
		return goose.ResetContext(ctx, db, MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
}
