package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arunvm123/cinemabooking/cinema-service/config"
	"github.com/arunvm123/cinemabooking/cinema-service/logging"
	"github.com/arunvm123/cinemabooking/cinema-service/worker"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

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

	// Setup Kafka consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.NotificationTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	})
	defer consumer.Close()

	processor := worker.NewNotificationProcessor(consumer, worker.NewLogEmailSender(logger), cfg.Worker.MaxWorkers, logger)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("notification worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.NotificationTopic),
		zap.String("group", cfg.Kafka.ConsumerGroup),
	)
	if err := processor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker error", zap.Error(err))
	}

	logger.Info("worker stopped gracefully")
}
