package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/ems/api/internal/config"
	"github.com/forgo/ems/api/internal/database"
	"github.com/forgo/ems/api/internal/handler"
	"github.com/forgo/ems/api/internal/jobs"
	"github.com/forgo/ems/api/internal/middleware"
	"github.com/forgo/ems/api/internal/repository"
	"github.com/forgo/ems/api/internal/service"
	"github.com/forgo/ems/api/internal/telemetry"
	"github.com/forgo/ems/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Tracing
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		slog.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT verification
	jwtService, err := jwt.NewService(jwt.Config{
		PublicKeyPath:   cfg.JWT.PublicKeyPath,
		Issuer:          cfg.JWT.Issuer,
		ExpirationMins:  cfg.JWT.ExpirationMins,
		AllowUnverified: cfg.JWT.AllowUnverified,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.JWT.AllowUnverified {
		slog.Warn("bearer tokens are decoded without signature verification")
	}

	// Event platform client
	remote, err := repository.NewRemoteRepository(repository.RemoteConfig{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		UserAgent: cfg.Upstream.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		slog.Error("failed to initialize upstream client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var (
		backend service.EventRepository = remote
		pinger  handler.Pinger
	)

	// Direct store, when configured
	if cfg.UsesStore() {
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Store.Database.Host,
			Port:      cfg.Store.Database.Port,
			User:      cfg.Store.Database.User,
			Password:  cfg.Store.Database.Password,
			Namespace: cfg.Store.Database.Namespace,
			Database:  cfg.Store.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		store := repository.NewStoreRepository(repository.StoreConfig{
			DB:       db,
			Accounts: remote,
			Logger:   logger,
		})
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("failed to apply schema", slog.String("error", err.Error()))
			os.Exit(1)
		}

		slog.Info("connected to database",
			slog.String("host", cfg.Store.Database.Host),
			slog.String("database", cfg.Store.Database.Database),
		)
		backend = store
		pinger = db
	}

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		Repo:     backend,
		Verifier: jwtService,
		Logger:   logger,
	})
	eventService := service.NewEventService(backend, logger)

	validator, err := service.NewDraftValidator()
	if err != nil {
		slog.Error("failed to compile draft schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	registry := service.NewViewRegistry(service.ViewRegistryConfig{
		Repo:      backend,
		Validator: validator,
		Logger:    logger,
		TTL:       cfg.Views.TTL,
	})

	// Background jobs
	sweeper := jobs.NewViewSweeper(jobs.ViewSweeperConfig{
		Views:    registry,
		Interval: cfg.Views.SweepInterval,
		Logger:   logger,
	})
	sweeper.Start()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(pinger, registry.Len)
	authHandler := handler.NewAuthHandler(authService, logger)
	eventHandler := handler.NewEventHandler(eventService)
	viewHandler := handler.NewViewHandler(handler.ViewHandlerConfig{
		Views:  registry,
		Logger: logger,
	})

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /v1/auth/register", authHandler.Register)

	// Event endpoints (protected)
	authMiddleware := middleware.Auth(authService)
	mux.Handle("GET /v1/events", authMiddleware(http.HandlerFunc(eventHandler.List)))
	mux.Handle("DELETE /v1/events/{id}", authMiddleware(http.HandlerFunc(eventHandler.Delete)))

	// View endpoints (protected)
	viewHandler.RegisterRoutes(mux, authMiddleware)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Trace,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("backend", cfg.Store.Backend),
			slog.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	sweeper.Stop()
	slog.Info("closed open views", slog.Int("count", registry.CloseAll()))

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
