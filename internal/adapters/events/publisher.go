package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher records publish calls without a broker. Payloads are not logged
// because mail requests carry one-time codes.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	p.logger.InfoContext(ctx, "published event",
		"module", "events",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"topic", topic,
		"key", key,
		"payload_bytes", len(payload),
	)
	return nil
}
