package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/trusthub/trusthub/internal/app"
	"github.com/trusthub/trusthub/internal/auth"
	"github.com/trusthub/trusthub/internal/identity"
	jobmetrics "github.com/trusthub/trusthub/internal/jobs"
	"github.com/trusthub/trusthub/internal/platform/db"
	"github.com/trusthub/trusthub/internal/shared"
	"github.com/trusthub/trusthub/internal/system"
	"github.com/trusthub/trusthub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	tokens, err := identity.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("configure token manager", slog.Any("error", err))
		os.Exit(1)
	}

	authRepo := auth.NewRepository(pool)
	auditLogger := shared.NewAuditLogger(pool)
	systemService := system.NewService(authRepo, tokens)
	metrics := jobmetrics.NewMetrics(nil)

	sweepJob := jobs.NewSessionSweepJob(authRepo, logger, metrics)
	trimJob := jobs.NewAuditTrimJob(jobs.AuditTrimConfig{
		Audit:     auditLogger,
		System:    systemService,
		Logger:    logger,
		Metrics:   metrics,
		Retention: cfg.AuditRetention,
	})

	sweepTask, err := jobs.NewSessionSweepTask(jobs.SessionSweepPayload{})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}
	trimTask, err := jobs.NewAuditTrimTask(jobs.AuditTrimPayload{})
	if err != nil {
		logger.Error("build trim task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionSweep, Handler: sweepJob.Handle},
			{Type: jobs.TaskAuditTrim, Handler: trimJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/30 * * * *", Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 3 * * *", Task: trimTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
