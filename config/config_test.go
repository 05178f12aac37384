package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, 20, cfg.Discovery.DefaultPageSize)
	assert.Equal(t, 100, cfg.Discovery.MaxPageSize)
	assert.Equal(t, 1000.0, cfg.Discovery.DefaultRadius)
	assert.Equal(t, 5000.0, cfg.Discovery.CardMerchantsRadius)
	assert.Equal(t, "03:00", cfg.Cache.SweepAt)
	assert.Equal(t, "Asia/Seoul", cfg.Cache.SweepTZ)
	assert.Equal(t, "catalog.events", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_PAGE_SIZE", "50")
	t.Setenv("DEFAULT_RADIUS", "750.5")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DEFAULT_PAGE_SIZE", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, 50, cfg.Discovery.MaxPageSize)
	assert.Equal(t, 750.5, cfg.Discovery.DefaultRadius)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 20, cfg.Discovery.DefaultPageSize)
}
