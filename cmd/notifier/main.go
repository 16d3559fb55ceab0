package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/config"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka"
	kafka_config "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka/config"
	kafka_middleware "github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka/middleware"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/notify"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	sender := notify.NewStubWhatsAppSender(cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.NotifyTopic, notify.Handler(sender, cfg.Log), cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err, "topic", cfg.NotifyTopic)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.NotifyTopic)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
