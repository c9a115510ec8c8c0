// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This is the "wiring" layer — the composition root where the whole
// dependency graph is assembled in one place:
//
//	main.go builds Config → Server.New() builds:
//	    sqlite.Slot → store.Store → AuthService / TrackerService
//	    TokenService, PasswordService
//	    Gemini analyzer (optional — skipped without an API key)
//	    handlers → routes
//
// Keeping this out of main.go means tests can stand up a complete server
// without running the binary.
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

	"github.com/nhasan/nutriai/internal/analyzer"
	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/config"
	"github.com/nhasan/nutriai/internal/handler"
	"github.com/nhasan/nutriai/internal/middleware"
	"github.com/nhasan/nutriai/internal/service"
	"github.com/nhasan/nutriai/internal/store"
	sqliteslot "github.com/nhasan/nutriai/internal/store/sqlite"
)

// Server owns the router and the resources that must be released on
// shutdown: the SQLite slot (file lock) and the analyzer (API client).
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	slot     *sqliteslot.Slot
	analyzer analyzer.Analyzer
}

// New creates a Server with its entire dependency chain wired.
//
// The analyzer is optional: without GEMINI_API_KEY the server still runs —
// manual meal logging works fully — and the analyze endpoints report the
// missing configuration instead.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	slot, err := sqliteslot.New(cfg.DBPath, store.SlotKey)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	st := store.New(slot)
	if err := st.Load(context.Background()); err != nil {
		slot.Close()
		return nil, fmt.Errorf("loading state: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		slot.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	var az analyzer.Analyzer
	if cfg.GeminiAPIKey != "" {
		gemini, err := analyzer.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			slot.Close()
			return nil, fmt.Errorf("creating analyzer: %w", err)
		}
		az = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set — meal analysis endpoints will report a configuration error")
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		slot:     slot,
		analyzer: az,
	}

	s.setupRoutes(st, tokens)
	return s, nil
}

// setupRoutes wires middleware, services, and handlers to URL patterns.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register        → create account
//	POST   /api/auth/login           → start session, set JWT cookie
//	POST   /api/auth/logout          → end session, clear cookie
//	GET    /api/auth/me              → current user          (auth)
//	GET    /api/meals                → full ledger            (auth)
//	POST   /api/meals                → log a meal             (auth)
//	DELETE /api/meals/{id}           → delete a meal          (auth)
//	GET    /api/meals/today          → today's entries        (auth)
//	GET    /api/meals/totals         → today's macro sums     (auth)
//	GET    /api/meals/history        → calories per day       (auth)
//	GET    /api/goals                → goal profile           (auth)
//	PUT    /api/goals                → merge goal updates     (auth)
//	POST   /api/analyze/image        → AI photo analysis      (auth)
//	POST   /api/analyze/text         → AI text analysis       (auth)
func (s *Server) setupRoutes(st *store.Store, tokens *auth.TokenService) {
	// Global middleware — runs on every request, in order.
	s.router.Use(chimiddleware.RequestID) // X-Request-ID for tracing
	s.router.Use(chimiddleware.RealIP)    // client IP from proxy headers
	s.router.Use(chimiddleware.Recoverer) // panics become 500s, not crashes
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewPasswordService()
	authSvc := service.NewAuthService(st, passwords, s.logger)
	tracker := service.NewTrackerService(st, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, tokens, s.logger)
	mealHandler := handler.NewMealHandler(tracker, s.logger)
	goalHandler := handler.NewGoalHandler(tracker, s.logger)
	analyzeHandler := handler.NewAnalyzeHandler(s.analyzer, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Everything below requires a valid session token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/meals", mealHandler.HandleList)
			r.Post("/meals", mealHandler.HandleCreate)
			r.Delete("/meals/{id}", mealHandler.HandleDelete)
			r.Get("/meals/today", mealHandler.HandleToday)
			r.Get("/meals/totals", mealHandler.HandleTotals)
			r.Get("/meals/history", mealHandler.HandleHistory)

			r.Get("/goals", goalHandler.HandleGet)
			r.Put("/goals", goalHandler.HandleUpdate)

			r.Post("/analyze/image", analyzeHandler.HandleImage)
			r.Post("/analyze/text", analyzeHandler.HandleText)
		})
	})
}

// Router exposes the configured router. Test hook: httptest.NewServer
// wants an http.Handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server and handles graceful shutdown.
//
// On SIGINT/SIGTERM: stop accepting connections, give in-flight requests
// 30 seconds to finish, then close the SQLite slot (releases the file
// lock) and the analyzer client.
func (s *Server) Start() error {
	defer s.slot.Close()
	if s.analyzer != nil {
		defer s.analyzer.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // analyzer calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.Bool("analyzer", s.analyzer != nil),
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
