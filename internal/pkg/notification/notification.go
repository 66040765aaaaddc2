package notification

import (
	"context"

	"rental-service/internal/pkg/messagestream"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const (
	TopicEmail                = "notification_email"
	TopicBookingCreated       = "booking_created"
	TopicBookingStatusChanged = "booking_status_changed"
)

type Message struct {
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Template  string            `json:"template"`
	Data      map[string]string `json:"data,omitempty"`
}

// Notifier publishes notifications and domain events. Delivery is best effort:
// a failed publish is logged and never reported to the caller.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
	PublishEvent(ctx context.Context, topic string, payload interface{})
}

type notifier struct {
	publisher message.Publisher
	log       *otelzap.Logger
}

func New(publisher message.Publisher, log *otelzap.Logger) Notifier {
	return &notifier{publisher: publisher, log: log}
}

func (n *notifier) Notify(ctx context.Context, msg Message) {
	if msg.Recipient == "" {
		n.log.Ctx(ctx).Warn("skip notification without recipient", zap.String("template", msg.Template))
		return
	}
	n.PublishEvent(ctx, TopicEmail, msg)
}

func (n *notifier) PublishEvent(ctx context.Context, topic string, payload interface{}) {
	if n.publisher == nil {
		n.log.Ctx(ctx).Warn("publisher not configured, dropping message", zap.String("topic", topic))
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Ctx(ctx).Warn("error marshal message", zap.String("topic", topic), zap.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	if err := n.publisher.Publish(topic, msg); err != nil {
		n.log.Ctx(ctx).Warn("error publish message", zap.String("topic", topic), zap.Error(err))
	}
}

// PublishPoisoned forwards an unprocessable message to the poison queue.
func PublishPoisoned(ctx context.Context, publisher message.Publisher, log *otelzap.Logger, topic string, payload []byte, cause error) {
	poisoned, _ := json.Marshal(messagestream.PoisonedQueue{
		TopicTarget: topic,
		ErrorMsg:    cause.Error(),
		Payload:     string(payload),
	})

	if err := publisher.Publish(messagestream.PoisonedQueueTopic, message.NewMessage(watermill.NewUUID(), poisoned)); err != nil {
		log.Ctx(ctx).Error("error publish to poison queue", zap.Error(err))
	}
}
