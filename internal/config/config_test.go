package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "amqp", cfg.BrokerKind)
	require.Equal(t, 1, cfg.Prefetch)
	require.True(t, cfg.IsDev())
	require.False(t, cfg.IsProd())
}

func Test_Load_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BROKER_KIND", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("PREFETCH", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "redis", cfg.BrokerKind)
	require.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	require.Len(t, cfg.KafkaBrokers, 2)
	require.Equal(t, 10, cfg.Prefetch)
	require.True(t, cfg.IsProd())
	require.False(t, cfg.IsDev())
}
