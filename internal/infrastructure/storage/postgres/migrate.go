package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// MigrateCommand is a goose command supported by Migrate.
type MigrateCommand string

const (
	MigrateUp     MigrateCommand = "up"
	MigrateDown   MigrateCommand = "down"
	MigrateStatus MigrateCommand = "status"
)

// ParseMigrateCommand validates a command name given on the command line.
func ParseMigrateCommand(s string) (MigrateCommand, error) {
	switch cmd := MigrateCommand(s); cmd {
	case MigrateUp, MigrateDown, MigrateStatus:
		return cmd, nil
	}
	return "", fmt.Errorf("unknown migrate command %q", s)
}

// Migrate runs an embedded goose migration command against the pool.
func Migrate(ctx context.Context, pool *Pool, cmd MigrateCommand) error {
	if _, err := ParseMigrateCommand(string(cmd)); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool.Pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	var err error
	switch cmd {
	case MigrateUp:
		err = goose.UpContext(ctx, db, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, migrationsDir)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", cmd, err)
	}
	return nil
}
