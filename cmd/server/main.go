// @title        Job Board API
// @version      1.0
// @description  Authentication, route guarding and job board endpoints.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hirelane/jobboard/docs"
	"github.com/hirelane/jobboard/internal/api"
	"github.com/hirelane/jobboard/internal/api/handler"
	"github.com/hirelane/jobboard/internal/api/session"
	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/service"
	mongodb "github.com/hirelane/jobboard/internal/infrastructure/db/mongo"
	"github.com/hirelane/jobboard/internal/infrastructure/db/redis"
	"github.com/hirelane/jobboard/internal/infrastructure/queue"
	"github.com/hirelane/jobboard/internal/infrastructure/security"
	"github.com/hirelane/jobboard/internal/pkg/config"
	"github.com/hirelane/jobboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "jobboard"})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "jobboard",
		Env:     cfg.Env,
	})

	key, err := cfg.SigningKey(log)
	if err != nil {
		log.Fatal().Err(err).Msg("no signing key")
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	applications := mongodb.NewApplicationRepository(db)
	authEvents := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, jobs, applications, authEvents); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// --- Security ---
	codec, err := security.NewJWTCodec(key, domain.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}
	limiter := redis.NewLoginLimiter(rdb, cfg.LoginMaxAttempts, cfg.LoginWindow)

	// --- Audit pipeline ---
	auditService := service.NewAuditService(authEvents, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditService, logger.Component("dispatcher"))
	// Workers outlive the signal context so requests still in flight during
	// shutdown can record their events.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher.Start(auditCtx)

	// --- Services ---
	authService := service.NewAuthService(users, security.NewBcryptHasher(), codec, limiter, dispatcher, logger.Component("auth"))
	jobService := service.NewJobService(jobs, applications, logger.Component("jobs"))
	applicationService := service.NewApplicationService(applications, jobs, logger.Component("applications"))

	e := api.NewRouter(api.Dependencies{
		Log:          log,
		Auth:         authService,
		Jobs:         jobService,
		Applications: applicationService,
		Sessions:     session.NewCookieStore(cfg.IsProduction()),
		Tokens:       codec,
		Readiness: map[string]handler.PingFunc{
			"mongodb": func(ctx context.Context) error { return mongodb.Ping(ctx, mongoClient) },
			"redis":   func(ctx context.Context) error { return redis.Ping(ctx, rdb) },
		},
		Production:   cfg.IsProduction(),
		MetricsToken: cfg.MetricsToken,
	})
	if cfg.IsProduction() && cfg.MetricsToken == "" {
		log.Warn().Msg("METRICS_TOKEN not set, /metrics is disabled")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopAudit()
	dispatcher.Wait()
	closeStores(shutdownCtx, mongoClient, rdb, log)

	log.Info().Msg("server exited")
}

func closeStores(ctx context.Context, client *mongo.Client, rdb *goredis.Client, log zerolog.Logger) {
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
