package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"propshoot/internal/availability/cache"
	"propshoot/internal/availability/worker"
	"propshoot/pkg/config"
	"propshoot/pkg/kafka"
	kafka_config "propshoot/pkg/kafka/config"
	kafka_middleware "propshoot/pkg/kafka/middleware"
)

const ServiceName = "propshoot-cache-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	if cfg.Client.Redis == nil {
		cfg.Log.Fatal("Cache worker requires REDIS_URL")
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kcfg.LogConfiguration(cfg.Log.Info)

	monthCache := cache.NewMonthCache(cfg.Client.Redis, cfg.MonthCacheTTL, cfg.Log)
	consumer, err := kafka.NewConsumer(
		kcfg,
		cfg.Log,
		cfg.CalendarChangedTopic,
		cfg.CacheWorkerGroupID,
		cfg.EventsDLQTopic,
		worker.CalendarInvalidator(monthCache, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting cache worker", "topic", cfg.CalendarChangedTopic, "group", cfg.CacheWorkerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Cache worker stopped")
}
