package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"clearlink/internal/links/cleaner"
	"clearlink/internal/links/hooks"
	"clearlink/internal/links/rules"
	"clearlink/internal/links/service"
	"clearlink/internal/links/worker"
	"clearlink/pkg/config"
	"clearlink/pkg/kafka"
	"clearlink/pkg/kafka/middleware"
)

const ServiceName = "links-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Links worker")

	store, err := rules.LoadFile(cfg.RulesFile)
	if err != nil {
		cfg.Log.Fatal("Failed to load rules file", "path", cfg.RulesFile, "error", err)
	}
	cfg.Log.Info("Rules loaded", "path", cfg.RulesFile, "domains", store.Len())

	registry := hooks.NewRegistry()
	resolver := cleaner.NewHTTPResolver(cfg.RedirectTimeout)
	linkCleaner := cleaner.New(store, registry, resolver, cfg.Log)
	linkService := service.NewLinkService(linkCleaner, cfg.Log)

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaCleanedTopic,
		DLQTopic:     cfg.KafkaDLQTopic,
		BatchTimeout: cfg.KafkaProducerBatch,
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer producer.Close()

	linkWorker := worker.New(linkService, producer, cfg.Log)

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaChatTopic,
		GroupID:        cfg.KafkaGroupID,
		DLQTopic:       cfg.KafkaDLQTopic,
		MaxRetries:     cfg.KafkaMaxRetries,
		MaxWait:        cfg.KafkaConsumerWait,
		CommitInterval: cfg.KafkaCommitInterval,
	}, linkWorker.HandleMessage, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(middleware.Logging(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerErrors := make(chan error, 1)
	go func() {
		cfg.Log.Info("Consuming chat messages", "topic", cfg.KafkaChatTopic, "group", cfg.KafkaGroupID)
		consumerErrors <- consumer.Start(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		if err != nil {
			cfg.Log.Error("Consumer stopped with error", "error", err)
		}
	case sig := <-shutdown:
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
		<-consumerErrors
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Consumer close failed", "error", err)
	}
	cfg.Log.Info("Links worker stopped")
}
