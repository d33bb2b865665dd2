package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"typesanitizer/internal/stream"
	"typesanitizer/pkg/config"
	"typesanitizer/pkg/kafka"
	kafka_config "typesanitizer/pkg/kafka/config"
	kafka_middleware "typesanitizer/pkg/kafka/middleware"
	"typesanitizer/pkg/logger"
	_ "typesanitizer/pkg/model" // registers Contact and Form
	"typesanitizer/pkg/sanitizer"
)

const (
	ServiceName     = "sanitizer-stream"
	metricsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	cfg.Log.Info("Starting Sanitizer stream worker")
	s, spec := initSanitizer(cfg)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.OutputTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err, "topic", cfg.OutputTopic)
	}

	processor := stream.NewProcessor(s, spec, producer, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.InputTopic, cfg.GroupID, cfg.DLQTopic, processor.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err, "topic", cfg.InputTopic)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(metrics.ProducerMiddleware())
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
		cfg.Log.Info("Kafka middleware enabled (logging + metrics)")
	}

	run(cfg, consumer, producer, metrics)
}

func initSanitizer(cfg *config.Config) (*sanitizer.Sanitizer, sanitizer.Spec) {
	s := sanitizer.New(cfg.SanitizerOptions()...)
	spec := cfg.StreamSpec()

	resolved, err := sanitizer.ResolveSpec(spec, s.Registry())
	if err != nil {
		cfg.Log.Fatal("Default specification cannot be resolved", "error", err, "spec_type", cfg.SpecType)
	}

	cfg.Log.Info("Sanitizer initialized",
		"policy", s.Policy().String(),
		"types", s.Registry().Names(),
		"default_fields", resolved.Len(),
	)
	return s, spec
}

func run(cfg *config.Config, consumer *kafka.Consumer, producer *kafka.Producer, metrics *kafka_middleware.Metrics) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportMetrics(ctx, metrics, cfg.Log)

	consumerErrors := make(chan error, 1)
	go func() {
		cfg.Log.Info("Consuming", "input_topic", cfg.InputTopic, "output_topic", cfg.OutputTopic, "dlq_topic", cfg.DLQTopic)
		consumerErrors <- consumer.Start(ctx)
	}()

	select {
	case err := <-consumerErrors:
		if err != nil && !errors.Is(err, context.Canceled) {
			shutdown(cfg, consumer, producer, metrics)
			cfg.Log.Fatal("Kafka consumer failed", "error", err)
		}

	case <-ctx.Done():
		cfg.Log.Info("Shutdown signal received")
		<-consumerErrors
	}

	shutdown(cfg, consumer, producer, metrics)
}

func shutdown(cfg *config.Config, consumer *kafka.Consumer, producer *kafka.Producer, metrics *kafka_middleware.Metrics) {
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	if err := producer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka producer", "error", err)
	}
	metrics.Log(cfg.Log)
	cfg.Log.Info("Stream worker stopped gracefully")
}

func reportMetrics(ctx context.Context, metrics *kafka_middleware.Metrics, log *logger.Logger) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.Log(log)
		}
	}
}
