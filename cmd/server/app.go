package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/stadsbieb/bibliotheek-api/internal/config"
	"github.com/stadsbieb/bibliotheek-api/internal/platform/postgres"
	"github.com/stadsbieb/bibliotheek-api/internal/service"
	"github.com/stadsbieb/bibliotheek-api/internal/service/auth"
	"github.com/stadsbieb/bibliotheek-api/internal/store"
)

// application holds all initialized components and their dependencies.
// It is assembled once at startup; nothing in it changes afterwards.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	bookStore store.BookStore
	loanStore store.LoanStore

	loanService      service.LoanService
	sessionService   auth.SessionService
	passwordVerifier auth.PasswordVerifier
}

// newApplication wires up all application components from the given
// configuration and an open database connection.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	bookStore := postgres.NewPostgresBookStore(db, logger)
	loanStore := postgres.NewPostgresLoanStore(db, logger)

	sessionService, err := auth.NewSessionService(auth.Config{
		Secret:        cfg.Auth.SessionSecret,
		TokenLifetime: time.Duration(cfg.Auth.SessionLifetimeMinutes) * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}

	loanService, err := service.NewLoanService(store.NewSQLTxRunner(db), bookStore, loanStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan service: %w", err)
	}

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		bookStore:        bookStore,
		loanStore:        loanStore,
		loanService:      loanService,
		sessionService:   sessionService,
		passwordVerifier: auth.NewBcryptVerifier(),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
