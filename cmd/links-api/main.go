package main

import (
	"context"

	"clearlink/internal/links/cleaner"
	"clearlink/internal/links/handler"
	"clearlink/internal/links/hooks"
	"clearlink/internal/links/rules"
	"clearlink/internal/links/service"
	"clearlink/internal/links/validator"
	"clearlink/pkg/app"
	"clearlink/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const ServiceName = "links-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Links API service")

	store, mongoClient := loadRules(cfg)
	linkService := initServices(cfg, store)

	cleanHandler := handler.NewCleanHandler(linkService, validator.NewCleanRequestValidator(), cfg.Log)
	healthHandler := handler.NewHealthHandler(mongoClient, store.Len(), cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(cleanHandler, healthHandler)
	serverApp.Run()

	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			cfg.Log.Error("MongoDB disconnect failed", "error", err)
		}
	}
}

// loadRules builds the rule store from the configured source. The returned
// client is nil for the file source.
func loadRules(cfg *config.Config) (*rules.Store, *mongo.Client) {
	if cfg.RulesSource == config.RulesSourceFile {
		store, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			cfg.Log.Fatal("Failed to load rules file", "path", cfg.RulesFile, "error", err)
		}
		cfg.Log.Info("Rules loaded", "source", cfg.RulesSource, "path", cfg.RulesFile, "domains", store.Len())
		return store, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		cfg.Log.Fatal("Failed to ping MongoDB", "error", err)
	}

	source := rules.NewMongoSource(client.Database(cfg.MongoDatabase), cfg.MongoConnTimeout)
	domains, err := source.Load()
	if err != nil {
		cfg.Log.Fatal("Failed to load rules from MongoDB", "error", err)
	}
	store, err := rules.Build(domains)
	if err != nil {
		cfg.Log.Fatal("Failed to build rule store", "error", err)
	}

	cfg.Log.Info("Rules loaded", "source", cfg.RulesSource, "database", cfg.MongoDatabase, "domains", store.Len())
	return store, client
}

func initServices(cfg *config.Config, store *rules.Store) service.LinkService {
	registry := hooks.NewRegistry()
	resolver := cleaner.NewHTTPResolver(cfg.RedirectTimeout)
	linkCleaner := cleaner.New(store, registry, resolver, cfg.Log)

	linkService := service.NewLinkService(linkCleaner, cfg.Log)
	cfg.Log.Info("Links service initialized", "hooks", registry.Len())
	return linkService
}
