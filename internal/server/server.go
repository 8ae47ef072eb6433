// Package server wires the HTTP router, middleware, and all route
// definitions. It is the composition root: the database, services, and
// handlers are all assembled here, so main stays minimal.
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

	"github.com/saorim/flashcard-api/internal/auth"
	"github.com/saorim/flashcard-api/internal/handler"
	"github.com/saorim/flashcard-api/internal/middleware"
	sqliteRepo "github.com/saorim/flashcard-api/internal/repository/sqlite"
	"github.com/saorim/flashcard-api/internal/service"
)

// Config holds everything the server needs to run.
type Config struct {
	Port       int
	DBPath     string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds the service and handler layers, and
// registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the assembled router. For tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start closes it on shutdown;
// this is for callers that never reach Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes registers global middleware and the route tree.
//
// /api/auth/* is public. Everything else under /api requires a valid
// bearer token: Authenticate runs globally and only populates the request
// context, RequireUser is the gate that returns 401.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.db.Users, tokens, passwords, s.logger)
	userService := service.NewUserService(s.db.Users, s.db.Categories, s.db.Flashcards, passwords, s.logger)
	categoryService := service.NewCategoryService(s.db.Categories, s.db.Users, s.logger)
	flashcardService := service.NewFlashcardService(s.db.Flashcards, s.db.Categories, s.db.Users, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	flashcardHandler := handler.NewFlashcardHandler(flashcardService, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.Authenticate(tokens))

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/profile", userHandler.HandleProfile)
			r.Put("/profile", userHandler.HandleUpdateProfile)
			r.Delete("/profile", userHandler.HandleDeleteAccount)
			r.Put("/password", userHandler.HandleUpdatePassword)
			r.Get("/stats", userHandler.HandleStats)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/", categoryHandler.HandleList)
			r.Post("/", categoryHandler.HandleCreate)
			r.Get("/{id}", categoryHandler.HandleGet)
			r.Put("/{id}", categoryHandler.HandleUpdate)
			r.Delete("/{id}", categoryHandler.HandleDelete)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/", flashcardHandler.HandleList)
			r.Post("/", flashcardHandler.HandleCreate)

			// Fixed segments before the {id} wildcard.
			r.Get("/random", flashcardHandler.HandleRandom)
			r.Get("/random/category/{categoryId}", flashcardHandler.HandleRandomByCategory)
			r.Get("/category/{categoryId}", flashcardHandler.HandleListByCategory)
			r.Get("/due-for-review", flashcardHandler.HandleDueForReview)
			r.Get("/due-for-review/category/{categoryId}", flashcardHandler.HandleDueForReviewByCategory)
			r.Get("/search", flashcardHandler.HandleSearch)
			r.Get("/stats", flashcardHandler.HandleStats)

			r.Get("/{id}", flashcardHandler.HandleGet)
			r.Put("/{id}", flashcardHandler.HandleUpdate)
			r.Delete("/{id}", flashcardHandler.HandleDelete)
			r.Post("/{id}/review", flashcardHandler.HandleMarkReviewed)
			r.Post("/{id}/reset-review", flashcardHandler.HandleResetReview)
			r.Post("/{id}/duplicate", flashcardHandler.HandleDuplicate)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s) and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
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
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
