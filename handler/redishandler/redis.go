package redishandler

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/philipp01105/failsafe-logging/core"
	"github.com/philipp01105/failsafe-logging/formatter"
)

// Publisher is the subset of redis.UniversalClient the handler needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisHandler publishes each log entry on a Redis pub/sub channel
type RedisHandler struct {
	client         Publisher
	channel        string
	formatter      formatter.Formatter
	publishTimeout time.Duration
}

// RedisConfig holds configuration for the Redis handler
type RedisConfig struct {
	// Client is a connected Redis client (required). The caller owns
	// its lifecycle.
	Client Publisher
	// Channel is the pub/sub channel name (default: "logs")
	Channel string
	// Formatter serializes entries into message payloads (default: JSONFormatter)
	Formatter formatter.Formatter
	// PublishTimeout bounds one publish call (default: 5s)
	PublishTimeout time.Duration
}

// NewRedisHandler creates a new Redis publishing handler
func NewRedisHandler(cfg RedisConfig) (*RedisHandler, error) {
	if cfg.Client == nil {
		return nil, errors.New("redishandler: Client is required")
	}
	if cfg.Channel == "" {
		cfg.Channel = "logs"
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewJSONFormatter(formatter.Config{})
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	return &RedisHandler{
		client:         cfg.Client,
		channel:        cfg.Channel,
		formatter:      cfg.Formatter,
		publishTimeout: cfg.PublishTimeout,
	}, nil
}

// Handle serializes the entry and publishes it
func (h *RedisHandler) Handle(entry *core.Entry) error {
	payload, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.publishTimeout)
	defer cancel()

	return h.client.Publish(ctx, h.channel, payload).Err()
}

// CanRecycleEntry returns true; the entry is fully serialized before Handle returns
func (h *RedisHandler) CanRecycleEntry() bool {
	return true
}

// Close is a no-op; the client is owned by the caller
func (h *RedisHandler) Close() error {
	return nil
}
