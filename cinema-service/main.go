package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/cache/memory"
	"github.com/arunvm123/cinemabooking/cinema-service/config"
	"github.com/arunvm123/cinemabooking/cinema-service/counter"
	countermemory "github.com/arunvm123/cinemabooking/cinema-service/counter/memory"
	"github.com/arunvm123/cinemabooking/cinema-service/counter/redis"
	"github.com/arunvm123/cinemabooking/cinema-service/logging"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier"
	"github.com/arunvm123/cinemabooking/cinema-service/notifier/kafka"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	repomemory "github.com/arunvm123/cinemabooking/cinema-service/repository/memory"
	"github.com/arunvm123/cinemabooking/cinema-service/repository/postgres"
	"github.com/arunvm123/cinemabooking/cinema-service/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration (fallback to env variables if config file not found)
	cfg, err := config.Initialise("config.yaml", false)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("cinema service stopped", zap.Error(err))
	}
	logger.Info("cinema service stopped gracefully")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := model.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// Initialize repositories
	repos, closeRepos, err := openRepositories(cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	// Initialize object cache
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	objectCache := memory.NewStore(cfg.Cache.MaxSize, cfg.Cache.TTL(),
		memory.WithMetrics(memory.NewMetrics(registry)),
		memory.WithLogger(logger),
	)
	defer objectCache.Shutdown()

	// Initialize visit counter
	visits, closeVisits, err := openVisitCounter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeVisits()

	// Initialize purchase notifier
	var purchases notifier.Notifier = notifier.NewLogNotifier(logger)
	if cfg.Kafka.Enabled {
		purchases = kafka.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic)
		logger.Info("publishing purchase notifications to kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.NotificationTopic),
		)
	}
	defer purchases.Close()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := SetupRouter(RouterDeps{
		Services:   service.New(repos, objectCache, purchases, logger),
		JWTService: NewJWTService(cfg.JWTSecret),
		Visits:     visits,
		Cache:      objectCache,
		Ping:       repos.Ping,
		Registry:   registry,
		Logger:     logger,

		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("cinema service running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down cinema service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openRepositories(cfg *config.Config, logger *zap.Logger) (repository.Repositories, func(), error) {
	switch cfg.Storage {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		return repomemory.NewStore().Repositories(), func() {}, nil
	case "postgres", "":
		db, err := postgres.Open(cfg.Database, logger)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return postgres.NewRepositories(db), closeDB, nil
	}
	return repository.Repositories{}, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}

func openVisitCounter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (counter.VisitCounter, func(), error) {
	if !cfg.Redis.Enabled {
		return countermemory.NewVisitCounter(), func() {}, nil
	}

	visits, err := redis.NewRedisVisitCounter(ctx, cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("counting visits in redis", zap.String("addr", cfg.Redis.GetRedisURL()))
	return visits, func() { visits.Close() }, nil
}
