package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRulesSource = RulesSourceFile
	DefaultRulesFile   = "./rules.toml"

	DefaultMongoURI         = "mongodb://localhost:27017"
	DefaultMongoDatabase    = "clearlink"
	DefaultMongoConnTimeout = 10 * time.Second

	DefaultRedirectTimeout = 10 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultKafkaBrokers       = "localhost:9092"
	DefaultKafkaChatTopic     = "chat-messages"
	DefaultKafkaCleanedTopic  = "cleaned-links"
	DefaultKafkaGroupID       = "links-worker"
	DefaultKafkaDLQTopic      = "cleaned-links-dlq"
	DefaultKafkaMaxRetries    = 3
	DefaultKafkaCommitEvery   = time.Second
	DefaultKafkaConsumerWait  = 500 * time.Millisecond
	DefaultKafkaProducerBatch = 10 * time.Millisecond
)
