package kafka_config

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, compress.Snappy, cfg.Compression())
	assert.Equal(t, kafka.RequireAll, cfg.RequiredAcks())
	assert.Equal(t, kafka.LastOffset, cfg.ConsumerStartOffset)
	assert.Equal(t, DefaultConsumerFetchBackoff, cfg.ConsumerFetchBackoff)
	assert.Equal(t, DefaultDLQMaxAttempts, cfg.DLQMaxAttempts)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " b1:9092, ,b2:9092 ")
	t.Setenv(EnvKafkaProducerCompression, "ZSTD")
	t.Setenv(EnvKafkaProducerRequireAcks, "1")
	t.Setenv(EnvKafkaConsumerStartOffset, "-2")
	t.Setenv(EnvKafkaConsumerFetchBackoff, "250ms")
	t.Setenv(EnvKafkaProducerAsync, "notabool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Brokers)
	assert.Equal(t, compress.Zstd, cfg.Compression())
	assert.Equal(t, kafka.RequireOne, cfg.RequiredAcks())
	assert.Equal(t, kafka.FirstOffset, cfg.ConsumerStartOffset)
	assert.Equal(t, 250*time.Millisecond, cfg.ConsumerFetchBackoff)
	assert.False(t, cfg.ProducerAsync)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no brokers", func(c *Config) { c.Brokers = nil }, "At least one Kafka broker"},
		{"compression", func(c *Config) { c.ProducerCompression = "brotli" }, "ProducerCompression"},
		{"acks", func(c *Config) { c.ProducerRequireAcks = 2 }, "ProducerRequireAcks"},
		{"start offset", func(c *Config) { c.ConsumerStartOffset = 5 }, "ConsumerStartOffset"},
		{"max below min", func(c *Config) { c.ConsumerMaxBytes = 0 }, "ConsumerMaxBytes"},
		{"session vs heartbeat", func(c *Config) { c.ConsumerSessionTimeout = time.Second }, "ConsumerSessionTimeout"},
		{"negative retries", func(c *Config) { c.ConsumerMaxRetries = -1 }, "ConsumerMaxRetries"},
		{"backoff", func(c *Config) { c.ConsumerFetchBackoff = 0 }, "ConsumerFetchBackoff"},
		{"dlq attempts", func(c *Config) { c.DLQMaxAttempts = 0 }, "DLQMaxAttempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromEnv()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
