package notification_test

import (
	"context"
	stderrors "errors"
	"testing"

	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/messagestream"
	"rental-service/internal/pkg/notification"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, m := range messages {
		p.topics = append(p.topics, topic)
		p.payloads = append(p.payloads, m.Payload)
	}
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestNotify(t *testing.T) {
	pub := &recordingPublisher{}
	n := notification.New(pub, log_internal.Setup())

	n.Notify(context.Background(), notification.Message{
		Recipient: "jane@example.com",
		Subject:   "Your booking has been approved",
		Template:  "booking_approved",
		Data:      map[string]string{"booking_id": "b-1"},
	})
	n.Notify(context.Background(), notification.Message{Template: "booking_approved"})

	require.Equal(t, []string{notification.TopicEmail}, pub.topics)

	var got notification.Message
	require.NoError(t, json.Unmarshal(pub.payloads[0], &got))
	assert.Equal(t, "jane@example.com", got.Recipient)
	assert.Equal(t, "b-1", got.Data["booking_id"])
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: stderrors.New("broker down")}
	n := notification.New(pub, log_internal.Setup())

	assert.NotPanics(t, func() {
		n.PublishEvent(context.Background(), notification.TopicBookingCreated, map[string]string{"id": "b-1"})
	})
	assert.Len(t, pub.topics, 1)
}

func TestPublishPoisoned(t *testing.T) {
	pub := &recordingPublisher{}

	notification.PublishPoisoned(context.Background(), pub, log_internal.Setup(), "withdrawal_settlement", []byte(`{bad`), stderrors.New("invalid character"))

	require.Equal(t, []string{messagestream.PoisonedQueueTopic}, pub.topics)

	var poisoned messagestream.PoisonedQueue
	require.NoError(t, json.Unmarshal(pub.payloads[0], &poisoned))
	assert.Equal(t, messagestream.PoisonedQueue{
		TopicTarget: "withdrawal_settlement",
		ErrorMsg:    "invalid character",
		Payload:     `{bad`,
	}, poisoned)
}
