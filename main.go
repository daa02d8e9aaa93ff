package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"goatmeter-be/internal/config"
	"goatmeter-be/internal/container"
	"goatmeter-be/internal/handler"
	"goatmeter-be/internal/middleware"
	"goatmeter-be/pkg/logger"
)

// Resources holds everything that needs cleanup on shutdown.
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup shuts the server down first so no request observes a closed
// pool, then releases connections. Safe to call more than once.
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.log.Info("starting graceful shutdown")

	var shutdownErr error
	if r.server != nil {
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("failed to shutdown http server")
			shutdownErr = fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if r.container != nil {
		r.container.Close()
	}

	if shutdownErr != nil {
		return shutdownErr
	}
	r.log.Info("graceful shutdown complete")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("starting goatmeter-be server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("server listening on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown completed with errors")
		os.Exit(1)
	}
}

// setupRouter configures and returns the HTTP router.
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.Config
	log := c.Logger

	r := chi.NewRouter()

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	healthHandler := handler.NewHealthHandler(c.DB, c.CacheService)
	profileHandler := handler.NewProfileHandler(c.ProfileService)
	voteHandler := handler.NewVoteHandler(c.VoteService)
	accountHandler := handler.NewAccountHandler(c.AccountService)
	summaryHandler := handler.NewSummaryHandler(c.SummaryService)
	stanceHandler := handler.NewStanceHandler()

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Public aggregate endpoints. A bearer token is accepted but not
		// required, so authenticated clients poll with one set of headers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(c.AuthService, log))

			r.Get("/summary", summaryHandler.GetGlobalSummary)
			r.Get("/ticker", summaryHandler.GetTicker)
			r.Get("/stances", stanceHandler.GetStances)
			r.Get("/warzones/{warzoneId}/stats", summaryHandler.GetWarzoneStats)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(c.AuthService, log))

			r.Put("/profile", profileHandler.UpsertProfile)
			r.Get("/profile/me", profileHandler.GetMyProfile)

			r.Route("/voting", func(r chi.Router) {
				r.Post("/vote", voteHandler.SubmitVote)
				r.Post("/revoke", voteHandler.RevokeVote)
				r.Get("/me", voteHandler.GetMyStatus)
			})

			r.Delete("/account", accountHandler.DeleteAccount)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"not_found","message":"Endpoint not found"}}`))
	})

	log.Info("router configured")
	return r
}
