package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// HandlerFunc processes one decoded event
type HandlerFunc func(ctx context.Context, event *Event) error

// Consumer routes subscribed topics to event handlers
type Consumer struct {
	router      *message.Router
	subscriber  message.Subscriber
	topicPrefix string
	logger      *slog.Logger
}

func NewConsumer(subscriber message.Subscriber, topicPrefix string, wmLogger watermill.LoggerAdapter, logger *slog.Logger) (*Consumer, error) {
	router, err := message.NewRouter(message.RouterConfig{}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event router: %w", err)
	}

	return &Consumer{
		router:      router,
		subscriber:  subscriber,
		topicPrefix: topicPrefix,
		logger:      logger,
	}, nil
}

// Handle registers handler for eventType. Must be called before Run.
func (c *Consumer) Handle(name string, eventType EventType, handler HandlerFunc) {
	topic := Topic(c.topicPrefix, eventType)
	c.router.AddNoPublisherHandler(name, topic, c.subscriber, func(msg *message.Message) error {
		var event Event
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			// a malformed message can never succeed; ack and drop it
			c.logger.Error("Dropping malformed event", "message_uuid", msg.UUID, "topic", topic, "error", err)
			return nil
		}
		return handler(msg.Context(), &event)
	})
}

// Run blocks until ctx is cancelled or the router is closed
func (c *Consumer) Run(ctx context.Context) error {
	return c.router.Run(ctx)
}

// Running is closed once every handler is subscribed
func (c *Consumer) Running() chan struct{} {
	return c.router.Running()
}

func (c *Consumer) Close() error {
	return c.router.Close()
}
