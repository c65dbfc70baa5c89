// Package main applies, rolls back or reports the embedded schema migrations.
//
// Usage:
//
//	migrate [-config config.yaml] up|down|status
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stockbook/internal/config"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cmd, err := postgres.ParseMigrateCommand(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: migrate [-config file] up|down|status\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, cmd); err != nil {
		pool.Close()
		log.Fatalw("migration failed", "command", cmd, "error", err)
	}
	log.Infow("migration finished", "command", cmd)
}
