package kafka

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_Success(t *testing.T) {
	cfg := ProducerConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "video-events",
		Logger:  zerolog.Nop(),
	}

	producer, err := NewProducer(cfg)

	require.NoError(t, err)
	assert.NotNil(t, producer)
	assert.Equal(t, "video-events", producer.config.Topic)
	assert.Equal(t, 3, producer.config.MaxRetries) // default
	assert.Equal(t, 100*time.Millisecond, producer.config.RetryBackoff)
}

func TestNewProducer_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  ProducerConfig
		wantErr string
	}{
		{
			name: "empty brokers",
			config: ProducerConfig{
				Brokers: []string{},
				Topic:   "video-events",
				Logger:  zerolog.Nop(),
			},
			wantErr: "brokers list is empty",
		},
		{
			name: "empty topic",
			config: ProducerConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "",
				Logger:  zerolog.Nop(),
			},
			wantErr: "topic is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			producer, err := NewProducer(tt.config)
			require.Error(t, err)
			assert.Nil(t, producer)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewProducer_ExplicitRetrySettings(t *testing.T) {
	cfg := ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "video-events",
		Logger:       zerolog.Nop(),
		MaxRetries:   5,
		RetryBackoff: time.Second,
	}

	producer, err := NewProducer(cfg)

	require.NoError(t, err)
	assert.Equal(t, 5, producer.config.MaxRetries)
	assert.Equal(t, time.Second, producer.config.RetryBackoff)
}
