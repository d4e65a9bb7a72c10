// Package worker wires the cleaning engine to the chat message stream:
// every inbound message is scanned for URLs, each URL is cleaned, and each
// link whose cleaned form differs from the original becomes an event on the
// output topic. Links that need no cleaning produce nothing, so quiet
// messages stay quiet.
package worker

import (
	"context"
	"fmt"

	"clearlink/internal/links/service"
	"clearlink/pkg/kafka"
	"clearlink/pkg/logger"
	"clearlink/pkg/model"
)

const (
	EventTypeCleanedLink = "link.cleaned"
	sourceName           = "links-worker"
)

// Publisher is the outbound side of the worker. Satisfied by
// *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Worker struct {
	service   service.LinkService
	publisher Publisher
	log       *logger.Logger
}

func New(svc service.LinkService, publisher Publisher, log *logger.Logger) *Worker {
	return &Worker{
		service:   svc,
		publisher: publisher,
		log:       log,
	}
}

// HandleMessage is the kafka.MessageHandler for the chat-message topic.
//
// Malformed payloads are a permanent condition and are returned as errors so
// the consumer parks them; messages without links are simply done.
func (w *Worker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var chat model.ChatMessage
	if err := msg.DecodeValue(&chat); err != nil {
		return fmt.Errorf("invalid message payload: %w", err)
	}
	if chat.ChatID == "" {
		return fmt.Errorf("invalid message: chat_id is required")
	}

	if !service.ContainsURL(chat.Text) {
		return nil
	}

	results := w.service.CleanText(ctx, chat.Text)
	for _, result := range results {
		event := model.CleanedLinkEvent{
			ChatID:   chat.ChatID,
			Original: result.Original,
			Cleaned:  result.Cleaned,
		}

		out, err := kafka.NewMessage(chat.ChatID, event, EventTypeCleanedLink, sourceName)
		if err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
		if err := w.publisher.Publish(ctx, out); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}

		w.log.Info("link cleaned", "chat_id", chat.ChatID, "original", result.Original, "cleaned", result.Cleaned)
	}

	return nil
}
