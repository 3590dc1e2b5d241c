package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 * time.Millisecond
)

type ProducerConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
	// MaxRetries and RetryBackoff default to 3 and 100ms when zero.
	MaxRetries   int
	RetryBackoff time.Duration
}

type Producer struct {
	writer *kafkago.Writer
	config ProducerConfig
	logger zerolog.Logger
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers list is empty")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is empty")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}

	return &Producer{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafkago.LeastBytes{},
		},
		config: cfg,
		logger: cfg.Logger.With().Str("component", "kafka_producer").Logger(),
	}, nil
}

// Publish writes one message, retrying transient failures with a fixed
// backoff. Context cancellation stops the retry loop.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	var lastErr error
	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		lastErr = p.writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(key),
			Value: value,
		})
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("kafka publish: %w", ctx.Err())
		}

		p.logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_retries", p.config.MaxRetries).
			Msg("kafka publish attempt failed")

		if attempt < p.config.MaxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("kafka publish: %w", ctx.Err())
			case <-time.After(p.config.RetryBackoff):
			}
		}
	}
	return fmt.Errorf("kafka publish: %w", lastErr)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
