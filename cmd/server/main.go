// Package main implements the entry point for the library API server,
// which handles reader accounts, the book catalog, and the loan ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/stadsbieb/bibliotheek-api/internal/config"
	"github.com/stadsbieb/bibliotheek-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run loads configuration, wires the application, and either runs the
// requested migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		migrateErr := runMigrations(db, migrateCmd, appLogger)
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database connection", "error", err)
		}
		return migrateErr
	}

	app, err := newApplication(cfg, db, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
