package amqphandler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/formatter"
)

// Publisher is the subset of *amqp.Channel the handler needs. Using
// the interface keeps the handler testable without a broker.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPHandler publishes each log entry as one message on an exchange
type AMQPHandler struct {
	channel        Publisher
	exchange       string
	routingKey     string
	formatter      formatter.Formatter
	contentType    string
	deliveryMode   uint8
	publishTimeout time.Duration
}

// AMQPConfig holds configuration for the AMQP handler
type AMQPConfig struct {
	// Channel is an open publishing channel (required). The caller
	// owns its lifecycle.
	Channel Publisher
	// Exchange to publish to (default: "", the broker default exchange)
	Exchange string
	// RoutingKey for published messages (default: "logs")
	RoutingKey string
	// Formatter serializes entries into message bodies (default: JSONFormatter)
	Formatter formatter.Formatter
	// ContentType stamped on messages (default: "application/json")
	ContentType string
	// Persistent marks messages to survive a broker restart
	Persistent bool
	// PublishTimeout bounds one publish call (default: 5s)
	PublishTimeout time.Duration
}

// NewAMQPHandler creates a new AMQP publishing handler
func NewAMQPHandler(cfg AMQPConfig) (*AMQPHandler, error) {
	if cfg.Channel == nil {
		return nil, errors.New("amqphandler: Channel is required")
	}
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = "logs"
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewJSONFormatter(formatter.Config{})
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "application/json"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	deliveryMode := uint8(amqp.Transient)
	if cfg.Persistent {
		deliveryMode = amqp.Persistent
	}

	return &AMQPHandler{
		channel:        cfg.Channel,
		exchange:       cfg.Exchange,
		routingKey:     cfg.RoutingKey,
		formatter:      cfg.Formatter,
		contentType:    cfg.ContentType,
		deliveryMode:   deliveryMode,
		publishTimeout: cfg.PublishTimeout,
	}, nil
}

// Handle serializes the entry and publishes it
func (h *AMQPHandler) Handle(entry *core.Entry) error {
	body, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.publishTimeout)
	defer cancel()

	return h.channel.PublishWithContext(ctx, h.exchange, h.routingKey, false, false, amqp.Publishing{
		ContentType:  h.contentType,
		MessageId:    uuid.NewString(),
		Timestamp:    entry.Time,
		DeliveryMode: h.deliveryMode,
		Body:         body,
	})
}

// CanRecycleEntry returns true; the entry is fully serialized before Handle returns
func (h *AMQPHandler) CanRecycleEntry() bool {
	return true
}

// Close is a no-op; the channel is owned by the caller
func (h *AMQPHandler) Close() error {
	return nil
}
