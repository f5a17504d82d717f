// Package server wires handlers, middleware, and routes together and owns
// the HTTP server lifecycle. This is the composition root: every
// dependency chain (DB → repository → service → handler) is assembled in
// New, so the rest of the codebase never constructs its own collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/devsnippet/internal/auth"
	"github.com/sakif/devsnippet/internal/config"
	"github.com/sakif/devsnippet/internal/handler"
	"github.com/sakif/devsnippet/internal/highlight"
	"github.com/sakif/devsnippet/internal/middleware"
	sqliteRepo "github.com/sakif/devsnippet/internal/repository/sqlite"
	"github.com/sakif/devsnippet/internal/service"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// Dirs locates the on-disk assets the server renders and serves.
type Dirs struct {
	Templates string
	Static    string
}

// New opens the database, builds the dependency graph, and registers all
// routes. The returned server owns the DB connection and closes it when
// Start returns.
func New(cfg *config.Config, dirs Dirs, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(dirs); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
//	POST   /api/auth/register            → register (no auth)
//	POST   /api/auth/login               → login (no auth)
//	GET    /api/snippets                 → list with q/language/tag filters
//	POST   /api/snippets                 → create
//	PUT    /api/snippets/{id}            → wholesale update
//	PATCH  /api/snippets/{id}/favorite   → toggle favorite
//	DELETE /api/snippets/{id}            → delete
//	POST   /api/highlight                → render code to highlighted HTML
//	GET    /, /login, /register          → HTML views
//	GET    /static/*                     → JS/CSS assets
func (s *Server) setupRoutes(dirs Dirs) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)
	renderer := highlight.New("monokai")

	authHandler := handler.NewAuthHandler(authService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	highlightHandler := handler.NewHighlightHandler(renderer, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/snippets", snippetHandler.HandleList)
			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Patch("/snippets/{id}/favorite", snippetHandler.HandleToggleFavorite)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)

			r.Post("/highlight", highlightHandler.HandleHighlight)
		})
	})

	pageHandler, err := handler.NewPageHandler(dirs.Templates, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleDashboard)
	s.router.Get("/login", pageHandler.HandleLogin)
	s.router.Get("/register", pageHandler.HandleRegister)

	fileServer := http.FileServer(http.Dir(dirs.Static))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", s.cfg.Addr),
			slog.String("database", s.cfg.StoragePath),
			slog.String("env", s.cfg.Env),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
