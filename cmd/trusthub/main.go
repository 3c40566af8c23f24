package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/trusthub/trusthub/internal/app"
	"github.com/trusthub/trusthub/internal/auth"
	"github.com/trusthub/trusthub/internal/identity"
	"github.com/trusthub/trusthub/internal/nav"
	"github.com/trusthub/trusthub/internal/observability"
	"github.com/trusthub/trusthub/internal/orgs"
	"github.com/trusthub/trusthub/internal/platform/cache"
	"github.com/trusthub/trusthub/internal/platform/db"
	"github.com/trusthub/trusthub/internal/rbac"
	"github.com/trusthub/trusthub/internal/shared"
	"github.com/trusthub/trusthub/internal/system"
	"github.com/trusthub/trusthub/internal/users"
	"github.com/trusthub/trusthub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalog, err := rbac.NewCatalog()
	if err != nil {
		logger.Error("build permission catalog", slog.Any("error", err))
		os.Exit(1)
	}

	tokens, err := identity.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("configure token manager", slog.Any("error", err))
		os.Exit(1)
	}

	orgsRepo := orgs.NewRepository(dbpool)
	resolver := orgs.NewResolver(orgsRepo)
	builder := identity.NewBuilder(resolver, tokens)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, resolver)

	systemService := system.NewService(authRepo, tokens)
	if _, err := systemService.SystemPrincipal(ctx); err != nil {
		if errors.Is(err, shared.ErrConfiguration) {
			logger.Error("system principal misconfigured", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Warn("system principal check deferred", slog.Any("error", err))
	}

	auditLogger := shared.NewAuditLogger(dbpool)
	metrics := observability.NewMetrics()
	metrics.Registerer().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	navStore := nav.NewStore(redisClient, cfg.NavTabTTL)
	navHandler := nav.NewHandler(logger, navStore)

	authHandler := auth.NewHandler(logger, authService, builder, auditLogger, metrics, navStore)
	identityHandler := identity.NewHandler(logger, builder, resolver, authService, auditLogger)

	guard := rbac.Middleware{Catalog: catalog, Logger: logger, RoleOf: identity.RoleFromContext}

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, guard)

	permissionsHandler := rbac.NewPermissionsHandler(logger, catalog, identity.RoleFromContext)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("configure jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Authenticator:      identity.Authenticator{Builder: builder, Logger: logger},
		AuthHandler:        authHandler,
		IdentityHandler:    identityHandler,
		NavHandler:         navHandler,
		UsersHandler:       usersHandler,
		PermissionsHandler: permissionsHandler,
		JobsHandler:        jobsHandler,
		Guard:              guard,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
