package middleware

import (
	"context"
	"time"

	"clearlink/pkg/kafka"
	"clearlink/pkg/logger"
)

// Logging records every consumed message with the outcome and duration.
func Logging(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("message failed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"event_id", msg.EventID(),
				"duration", duration,
				"error", err,
			)
			return err
		}

		log.Info("message processed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"event_id", msg.EventID(),
			"duration", duration,
		)
		return nil
	}
}
