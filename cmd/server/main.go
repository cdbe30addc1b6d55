package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coursetracker/internal/config"
	"coursetracker/internal/database"
	"coursetracker/internal/handlers"
	"coursetracker/internal/logger"
	"coursetracker/internal/repository/sqlstore"
	"coursetracker/internal/security"
	"coursetracker/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "coursetracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("database connection established", zap.String("type", cfg.DatabaseType))

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("migrations completed")

	// Initialize services
	deps := service.Deps{Store: sqlstore.New(db), Logger: log}
	rights := service.NewRightsService(deps)
	archive := service.NewArchiveService(deps)
	svc := handlers.Services{
		Auth:    service.NewAuthService(deps, security.NewHasher(cfg.PasswordIterations), cfg.SessionTTL),
		Users:   service.NewUserService(deps, archive),
		Rights:  rights,
		Catalog: service.NewCatalogService(deps, rights, archive),
		Work:    service.NewWorkService(deps, rights),
		Archive: archive,
		Reports: service.NewReportService(deps),
	}

	limiter := security.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	limiter.TrustProxy = cfg.TrustProxyHeaders
	middleware := handlers.NewMiddleware(svc.Auth, limiter, logger.WithComponent(log, "http"))
	handler := handlers.NewRouter(svc, middleware, logger.WithComponent(log, "http"))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
