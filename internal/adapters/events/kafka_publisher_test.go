package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, time.Second)
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, 0)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, p.writer.WriteTimeout)
	require.NoError(t, p.Close())
}

func TestLoggingPublisherOmitsPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewLoggingPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.Publish(context.Background(), "notification.email", "a@b.com", []byte(`{"otp":"123456"}`)))
	assert.Contains(t, buf.String(), `"topic":"notification.email"`)
	assert.NotContains(t, buf.String(), "123456")
}
