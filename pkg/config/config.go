package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clearlink/pkg/logger"
)

const (
	RulesSourceFile  = "file"
	RulesSourceMongo = "mongo"
)

type Config struct {
	Port     string
	LogLevel string

	// RulesSource selects where the rules configuration comes from:
	// RulesSourceFile (a TOML file at RulesFile) or RulesSourceMongo.
	RulesSource string
	RulesFile   string

	MongoURI         string
	MongoDatabase    string
	MongoConnTimeout time.Duration

	// RedirectTimeout bounds one redirect-resolution round trip, redirect
	// chain included.
	RedirectTimeout time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	KafkaBrokers        []string
	KafkaChatTopic      string
	KafkaCleanedTopic   string
	KafkaGroupID        string
	KafkaDLQTopic       string
	KafkaMaxRetries     int
	KafkaCommitInterval time.Duration
	KafkaConsumerWait   time.Duration
	KafkaProducerBatch  time.Duration

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	brokers := strings.Split(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers), ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	cfg := &Config{
		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		RulesSource: getEnvStr(EnvRulesSource, DefaultRulesSource),
		RulesFile:   getEnvStr(EnvRulesFile, DefaultRulesFile),

		MongoURI:         getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabase:    getEnvStr(EnvMongoDatabase, DefaultMongoDatabase),
		MongoConnTimeout: getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedirectTimeout: getEnvDuration(EnvRedirectTimeout, DefaultRedirectTimeout),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		KafkaBrokers:        brokers,
		KafkaChatTopic:      getEnvStr(EnvKafkaChatTopic, DefaultKafkaChatTopic),
		KafkaCleanedTopic:   getEnvStr(EnvKafkaCleanedTopic, DefaultKafkaCleanedTopic),
		KafkaGroupID:        getEnvStr(EnvKafkaGroupID, DefaultKafkaGroupID),
		KafkaDLQTopic:       getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),
		KafkaMaxRetries:     getEnvNum(EnvKafkaMaxRetries, DefaultKafkaMaxRetries),
		KafkaCommitInterval: getEnvDuration(EnvKafkaCommitEvery, DefaultKafkaCommitEvery),
		KafkaConsumerWait:   getEnvDuration(EnvKafkaConsumerWait, DefaultKafkaConsumerWait),
		KafkaProducerBatch:  getEnvDuration(EnvKafkaProducerBatch, DefaultKafkaProducerBatch),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.RulesSource {
	case RulesSourceFile:
		if cfg.RulesFile == "" {
			errs = append(errs, "RulesFile cannot be empty when RulesSource is file")
		}
	case RulesSourceMongo:
		if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
		}
		if cfg.MongoDatabase == "" {
			errs = append(errs, "MongoDatabase cannot be empty when RulesSource is mongo")
		}
		if cfg.MongoConnTimeout <= 0 {
			errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errs = append(errs, fmt.Sprintf("RulesSource must be %q or %q, got: %s", RulesSourceFile, RulesSourceMongo, cfg.RulesSource))
	}

	if cfg.RedirectTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RedirectTimeout must be positive, got: %s", cfg.RedirectTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(cfg.KafkaBrokers) == 0 {
		errs = append(errs, "at least one Kafka broker is required")
	}
	for i, broker := range cfg.KafkaBrokers {
		if broker == "" {
			errs = append(errs, fmt.Sprintf("Kafka broker %d cannot be empty", i))
		}
	}
	if cfg.KafkaMaxRetries < 0 {
		errs = append(errs, fmt.Sprintf("KafkaMaxRetries cannot be negative, got: %d", cfg.KafkaMaxRetries))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"rules_source", cfg.RulesSource,
		"rules_file", cfg.RulesFile,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabase,
		"redirect_timeout", cfg.RedirectTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_chat_topic", cfg.KafkaChatTopic,
		"kafka_cleaned_topic", cfg.KafkaCleanedTopic,
		"kafka_group_id", cfg.KafkaGroupID,
		"kafka_dlq_topic", cfg.KafkaDLQTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
