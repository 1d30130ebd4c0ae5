package ports

import "context"

type MailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

// Mailer hands a message to the outbound mail relay. Failures are not retried here.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}
