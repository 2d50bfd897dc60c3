package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/database"
	"github.com/stemsi/command-center/internal/handler"
	"github.com/stemsi/command-center/internal/logger"
	"github.com/stemsi/command-center/internal/middleware"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/router"
	"github.com/stemsi/command-center/internal/service"
	"github.com/stemsi/command-center/internal/validator"
	"github.com/stemsi/command-center/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Command Center API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	// ctx is the parent of every request context; cancelling it ends
	// long-lived WebSocket streams during shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	serverRepo := repository.NewServerRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	allocationRepo := repository.NewAllocationRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	eventBus := service.NewRequestEventBus(rdb, log)
	authService := service.NewAuthService(cfg, accountRepo, log)
	accountService := service.NewAccountService(accountRepo, authService, log)
	serverService := service.NewServerService(serverRepo)
	requestService := service.NewRequestService(requestRepo, eventBus, log)
	auditService := service.NewAuditService(auditRepo, requestRepo)
	issueService := service.NewIssueService(issueRepo)
	allocationService := service.NewAllocationService(allocationRepo, accountRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
		Auth:       handler.NewAuthHandler(authService, accountService, log),
		Account:    handler.NewAccountHandler(accountService, log),
		Server:     handler.NewServerHandler(serverService, log),
		Request:    handler.NewRequestHandler(requestService, auditService, log),
		Issue:      handler.NewIssueHandler(issueService, log),
		Allocation: handler.NewAllocationHandler(allocationService, log),
		WS:         handler.NewWSHandler(eventBus, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	auditWorker := worker.NewAuditWorker(auditRepo, rdb, log)
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditWorker.Start(workerCtx)
	}()

	loginLimiter := middleware.NewRateLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow, log)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, router.Routes(handlers, loginLimiter), cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. End hijacked WebSocket streams.
	cancel()

	// 3. Stop the audit worker and wait for its buffer to flush. Redis and
	// the pool close via defer.
	workerCancel()
	<-auditDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
