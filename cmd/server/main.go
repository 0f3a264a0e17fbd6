// Package main implements the entry point for the case-watch API server,
// a multi-tenant task management service with categories, assignment,
// collaboration, and derived reporting.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/g-celente/case-watch-back/internal/config"
	"github.com/g-celente/case-watch-back/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command instead of the server (up, down, status, version, create)")
	migrationName := flag.String("migration-name", "",
		"name for a new migration (used with -migrate create)")
	flag.Parse()

	if err := run(*migrateCmd, *migrationName); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(migrateCmd, migrationName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if migrateCmd != "" {
		return runMigrations(cfg, appLogger, migrateCmd, migrationName)
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := logger.WithLogger(context.Background(), appLogger)
	if err := app.Run(ctx); err != nil {
		appLogger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	return nil
}
