package main // API server entry point

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/codewithtechno/techno-hub/internal/config"
	"github.com/codewithtechno/techno-hub/internal/database"
	"github.com/codewithtechno/techno-hub/internal/logger"
	"github.com/codewithtechno/techno-hub/internal/queue"
	"github.com/codewithtechno/techno-hub/internal/repository"
	"github.com/codewithtechno/techno-hub/internal/router"
	"github.com/codewithtechno/techno-hub/internal/service"
	"github.com/codewithtechno/techno-hub/internal/storage"
	"github.com/codewithtechno/techno-hub/internal/validator"
)

func main() {
	cfg := config.Load() // fatal on missing required env
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db, database.Up); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	storeCfg := config.LoadStorageConfig()
	objects, err := storage.New(ctx, storeCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage setup failed")
	}

	pub := publisher(ctx, config.LoadQueueConfig(), log)

	v := validator.New()
	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	sprints := repository.NewSprintRepo(db)
	events := repository.NewEventRepo(db)
	apps := repository.NewApplicationRepo(db)

	appSvc := service.NewApplicationService(apps, sprints, profiles, pub, v, log)
	uploads := service.NewUploadService(objects, int64(storeCfg.MaxUploadMB)<<20, log)
	services := router.Services{
		Auth: service.NewAuthService(users, repository.NewTokenRepo(db), profiles, v, service.AuthConfig{
			JWTSecret:      cfg.JWTSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
			BcryptCost:     cfg.BcryptCost,
		}, log),
		Profiles:      service.NewProfileService(profiles, v),
		Sprints:       service.NewSprintService(sprints, uploads, v, log),
		Events:        service.NewEventService(events, uploads, v, log),
		Applications:  appSvc,
		Registrations: service.NewRegistrationService(repository.NewRegistrationRepo(db), events, profiles, pub, log),
		Admin:         service.NewAdminService(profiles, sprints, apps, appSvc),
		Uploads:       uploads,
	}

	var uploadDir string
	if local, ok := objects.(*storage.LocalStorage); ok {
		uploadDir = local.BasePath()
	}

	e := router.New(router.Deps{
		Log:         log,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		DB:          db,
		Redis:       rdb,
		Cache:       config.LoadCacheConfig(),
		RateLimit:   config.LoadRateLimitConfig(),
		UploadDir:   uploadDir,
		Services:    services,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// publisher returns the broker publisher and starts the review log
// consumer, or a no-op publisher when the queue is disabled.
func publisher(ctx context.Context, qc config.QueueConfig, log zerolog.Logger) service.Publisher {
	if !qc.Enabled {
		log.Info().Msg("queue disabled; review notifications are dropped")
		return service.NopPublisher{}
	}
	go func() {
		if err := queue.NewConsumer(qc.URL, qc.LogDir, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("review consumer stopped")
		}
	}()
	return queue.NewPublisher(qc.URL, log)
}
