package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/logger"
	"github.com/iliyamo/hotel-reservation/internal/metrics"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/notify"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
	"github.com/iliyamo/hotel-reservation/internal/warnings"
)

func main() {
	cfg := config.Load()
	log, closer := logger.New(cfg.Log)
	defer closer.Close()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable: warnings kept in memory, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New("hotel")
	store := repository.NewStore(db)
	publisher := queue.NewPublisher(cfg.RabbitURL, cfg.NotificationsQueue, log)

	reservations := service.NewReservationService(store, publisher, warnings.New(rdb, cfg.WarningsTTL), log).
		WithThreshold(cfg.OverbookThreshold).
		WithMetrics(m)
	cacheCfg := config.LoadCacheConfig()
	catalogue := service.NewCatalogueService(store, purgeOnChange(cacheCfg, rdb, log))

	consumer := queue.NewConsumer(cfg.RabbitURL, cfg.NotificationsQueue,
		notify.Handler(notify.NewMailer(cfg.SMTP, log)), log)
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("notification consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log))
	if cfg.MetricsEnabled {
		e.Use(m.Middleware())
	}

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Reservations: handler.NewReservationHandler(reservations, log, cfg.RequestTimeout),
		Catalogue:    handler.NewCatalogueHandler(catalogue, log, cfg.RequestTimeout),
		Ready:        handler.Ready(db),
		JWTSecret:    cfg.JWTSecret,
		Cache:        middleware.NewRedisCache(cacheCfg, rdb),
		RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
	}
	if cfg.MetricsEnabled {
		h.Metrics = echo.WrapHandler(m.Handler())
	}
	router.Register(e, h)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

// purgeOnChange drops cached catalogue responses after a write.
func purgeOnChange(cfg config.CacheConfig, rdb *redis.Client, log logrus.FieldLogger) func(context.Context) {
	return func(ctx context.Context) {
		if err := middleware.PurgeCache(ctx, cfg, rdb); err != nil {
			log.WithError(err).Warn("cache purge failed")
		}
	}
}
