package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hirelane/internal/app"
	"hirelane/internal/cache"
	"hirelane/internal/config"
	"hirelane/internal/database"
	apphttp "hirelane/internal/http"
	"hirelane/internal/http/handlers"
	httpmw "hirelane/internal/http/middleware"
	"hirelane/internal/observability"
	"hirelane/internal/repository/postgres"
	"hirelane/internal/scheduler"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := observability.NewLogger()
	defer func() { _ = logger.Sync() }()

	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	redisClient := database.NewRedis(database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if redisClient != nil {
		defer redisClient.Close()
	}

	var cacheStore cache.Store
	var limiter httpmw.Limiter
	if redisClient != nil {
		cacheStore = cache.NewRedis(redisClient)
		limiter = httpmw.NewRedisLimiter(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, using in-process cache and limiter")
		cacheStore = cache.NewMemory()
		limiter = httpmw.NewRateLimiter()
	}
	store := cache.New(cacheStore, cfg.CacheTTL, logger)

	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	resumeRepo := postgres.NewResumeRepository(db)
	userRepo := postgres.NewUserRepository(db)

	counterService := app.NewCounterService(jobRepo, logger)
	notificationService := app.NewNotificationService(notificationRepo, userRepo, logger)
	warningSink := app.NewNotificationWarningSink(notificationService)
	jobService := app.NewJobService(jobRepo, counterService, notificationService, store, warningSink, logger)
	applicationService := app.NewApplicationService(applicationRepo, jobRepo, resumeRepo, counterService, notificationService, store, logger)

	sweeper := scheduler.New(jobService, logger)
	if err := sweeper.Start(cfg.SweepSchedule, cfg.WarnSchedule); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:          handlers.NewJobHandler(jobService),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationService, limiter),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		Identity:            httpmw.NewIdentity(),
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sweeper.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
