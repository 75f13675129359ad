// Package server is the composition root: it builds sessions, services and
// handlers on top of a repository.Store, mounts the routes and runs the HTTP
// server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/sportshub/internal/auth"
	"github.com/sakif/sportshub/internal/config"
	"github.com/sakif/sportshub/internal/handler"
	"github.com/sakif/sportshub/internal/metrics"
	"github.com/sakif/sportshub/internal/middleware"
	"github.com/sakif/sportshub/internal/news"
	"github.com/sakif/sportshub/internal/repository"
	"github.com/sakif/sportshub/internal/scheduler"
	"github.com/sakif/sportshub/internal/service"
	"github.com/sakif/sportshub/internal/validate"
)

const shutdownTimeout = 30 * time.Second

// Server owns the store and everything built on it.
type Server struct {
	router    *chi.Mux
	config    config.Config
	logger    *slog.Logger
	store     repository.Store
	sessions  *auth.SessionStore
	limiter   *middleware.RateLimiter
	metrics   *metrics.Metrics
	scheduler *scheduler.Scheduler

	passwords     *auth.PasswordService
	fetcher       service.Fetcher
	github        *auth.GitHubProvider
	notifications *service.NotificationService
}

// Option overrides a collaborator New would otherwise build from the config.
type Option func(*Server)

// WithPasswords replaces the bcrypt settings; tests pass a low cost.
func WithPasswords(p *auth.PasswordService) Option {
	return func(s *Server) { s.passwords = p }
}

// WithNewsFetcher replaces the upstream news client.
func WithNewsFetcher(f service.Fetcher) Option {
	return func(s *Server) { s.fetcher = f }
}

// WithGitHub enables GitHub sign-in with the given provider.
func WithGitHub(p *auth.GitHubProvider) Option {
	return func(s *Server) { s.github = p }
}

// New wires the application on top of store. The server takes ownership of
// store and closes it when Start returns.
//
// cfg.SessionSecret must already be set; main generates one when the
// environment does not provide it.
func New(cfg config.Config, store repository.Store, logger *slog.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		sessions: auth.NewSessionStore(cfg.SessionTTL),
		limiter:  middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
		metrics:  metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.passwords == nil {
		s.passwords = auth.NewPasswordService()
	}
	if s.fetcher == nil {
		s.fetcher = news.NewClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsTimeout)
	}
	if s.github == nil && cfg.GitHubEnabled() {
		s.github = auth.NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubCallbackURL)
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("server: setting up routes: %w", err)
	}
	if err := s.setupJobs(); err != nil {
		return nil, fmt.Errorf("server: setting up jobs: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes mounts every endpoint.
//
// Middleware order: request id and real IP first so the logger and the rate
// limiter see them; Recoverer inside Logger so a panic is still logged as a
// 500; Identify last so every handler can read the current user.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(s.sessions, tokens, s.store, s.config.SecureCookies, s.logger)
	v := validate.New()

	accounts := service.NewAccountService(s.store, s.passwords, s.metrics, s.logger)
	matches := service.NewMatchService(s.store, s.logger)
	favorites := service.NewFavoriteService(s.store, s.store)
	s.notifications = service.NewNotificationService(s.store, s.metrics, s.logger)
	feedback := service.NewFeedbackService(s.store, s.logger)
	newsService := service.NewNewsService(s.store, s.fetcher, s.metrics, s.logger)

	authHandler := handler.NewAuthHandler(accounts, sessions, s.github, v, s.logger)
	userHandler := handler.NewUserHandler(accounts, sessions, v, s.logger)
	matchHandler := handler.NewMatchHandler(matches, v, s.logger)
	favoriteHandler := handler.NewFavoriteHandler(favorites, v, s.logger)
	notificationHandler := handler.NewNotificationHandler(s.notifications, s.logger)
	feedbackHandler := handler.NewFeedbackHandler(feedback, v, s.logger)
	newsHandler := handler.NewNewsHandler(newsService, v, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.Recoverer(s.logger))
	r.Use(sessions.Identify)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/healthz", healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Auth
	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Handler)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
	})
	r.Post("/logout", authHandler.HandleLogout)
	r.Get("/auth/user", authHandler.HandleCurrentUser)
	if s.github != nil {
		r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	// Public
	r.Get("/matches", matchHandler.HandleList)
	r.Get("/matches/{id}", matchHandler.HandleGet)
	r.Get("/sports-news", newsHandler.HandleList)
	r.Post("/feedback", feedbackHandler.HandleSubmit)

	// Signed in
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Put("/users/profile", userHandler.HandleUpdateProfile)
		r.Delete("/users/account", userHandler.HandleDeleteAccount)

		r.Get("/favorites", favoriteHandler.HandleList)
		r.Post("/favorites", favoriteHandler.HandleAdd)
		r.Delete("/favorites/{matchId}", favoriteHandler.HandleRemove)

		r.Get("/notifications", notificationHandler.HandleList)
		r.Put("/notifications/{id}/read", notificationHandler.HandleMarkRead)
		r.Post("/notifications/check-upcoming", notificationHandler.HandleCheckUpcoming)
		r.Delete("/notifications/{id}", notificationHandler.HandleDelete)
	})

	// Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin)

		r.Post("/matches", matchHandler.HandleCreate)
		r.Put("/matches/{id}", matchHandler.HandleUpdate)
		r.Delete("/matches/{id}", matchHandler.HandleDelete)

		r.Post("/news", newsHandler.HandleCreate)
		r.Delete("/news/{id}", newsHandler.HandleDelete)

		r.Get("/feedback", feedbackHandler.HandleList)
		r.Delete("/feedback/{id}", feedbackHandler.HandleDelete)
	})

	return nil
}

func (s *Server) setupJobs() error {
	s.scheduler = scheduler.New(s.logger)

	if s.config.SessionPrune != "" {
		job := scheduler.PruneSessions(s.sessions, s.limiter, s.metrics, s.logger)
		if err := s.scheduler.Add("prune-sessions", s.config.SessionPrune, job); err != nil {
			return err
		}
	}
	if s.config.ReminderSweep != "" {
		job := scheduler.SweepReminders(s.notifications, s.logger)
		if err := s.scheduler.Add("reminder-sweep", s.config.ReminderSweep, job); err != nil {
			return err
		}
	}
	return nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds, stops the scheduler and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

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

	s.scheduler.Start()
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
			slog.Bool("github", s.github != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.stopScheduler(ctx)
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.stopScheduler(ctx)
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) stopScheduler(ctx context.Context) {
	if err := s.scheduler.Stop(ctx); err != nil {
		s.logger.Warn("scheduler did not stop cleanly", slog.String("error", err.Error()))
	}
}
