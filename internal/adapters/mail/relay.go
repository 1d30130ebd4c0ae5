package mail

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/thermotrap/identity-service/internal/ports"
)

const DefaultRelayTopic = "notification.email.requested"

type relayEnvelope struct {
	To          string    `json:"to"`
	Subject     string    `json:"subject"`
	HTMLBody    string    `json:"html_body"`
	RequestedAt time.Time `json:"requested_at"`
}

// RelayMailer hands messages to a downstream notification service through the event bus.
type RelayMailer struct {
	publisher ports.EventPublisher
	topic     string
	nowFn     func() time.Time
}

func NewRelayMailer(publisher ports.EventPublisher, topic string) (*RelayMailer, error) {
	if publisher == nil {
		return nil, errors.New("relay mailer requires a publisher")
	}
	if topic == "" {
		topic = DefaultRelayTopic
	}
	return &RelayMailer{
		publisher: publisher,
		topic:     topic,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (m *RelayMailer) Send(ctx context.Context, msg ports.MailMessage) error {
	payload, err := json.Marshal(relayEnvelope{
		To:          msg.To,
		Subject:     msg.Subject,
		HTMLBody:    msg.HTMLBody,
		RequestedAt: m.nowFn(),
	})
	if err != nil {
		return err
	}
	return m.publisher.Publish(ctx, m.topic, msg.To, payload)
}
