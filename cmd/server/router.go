package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stadsbieb/bibliotheek-api/internal/api"
	apiMiddleware "github.com/stadsbieb/bibliotheek-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.sessionService, app.passwordVerifier)
	bookHandler := api.NewBookHandler(app.bookStore)
	loanHandler := api.NewLoanHandler(app.loanService)

	sessionMiddleware := apiMiddleware.NewSessionMiddleware(app.sessionService)
	adminMiddleware := apiMiddleware.NewAdminMiddleware(app.config.Auth.AdminToken)

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Endpoints for authenticated readers
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.Authenticate)

		r.Get("/me", authHandler.Me)
		r.Get("/books", bookHandler.ListBooks)

		r.Post("/borrow", loanHandler.Borrow)
		r.Delete("/return/{isbn}", loanHandler.Return)
		r.Get("/borrowed", loanHandler.ListBorrowed)
	})

	// Catalog management, guarded by the admin token
	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware.Require)

		r.Post("/books", bookHandler.CreateBooks)
		r.Put("/books/{isbn}", bookHandler.UpdateBook)
		r.Delete("/books/{isbn}", bookHandler.DeleteBook)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
