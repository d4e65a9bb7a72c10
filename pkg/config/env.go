package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRulesSource = "RULES_SOURCE"
	EnvRulesFile   = "RULES_FILE"

	EnvMongoURI         = "MONGO_URI"
	EnvMongoDatabase    = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout = "MONGO_CONN_TIMEOUT"

	EnvRedirectTimeout = "REDIRECT_TIMEOUT"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaChatTopic     = "KAFKA_CHAT_TOPIC"
	EnvKafkaCleanedTopic  = "KAFKA_CLEANED_TOPIC"
	EnvKafkaGroupID       = "KAFKA_GROUP_ID"
	EnvKafkaDLQTopic      = "KAFKA_DLQ_TOPIC"
	EnvKafkaMaxRetries    = "KAFKA_MAX_RETRIES"
	EnvKafkaCommitEvery   = "KAFKA_COMMIT_INTERVAL"
	EnvKafkaConsumerWait  = "KAFKA_CONSUMER_MAX_WAIT"
	EnvKafkaProducerBatch = "KAFKA_PRODUCER_BATCH_TIMEOUT"
)
