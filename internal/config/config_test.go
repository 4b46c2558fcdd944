package config_test

import (
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "UPSTREAM_API_URL", "UPSTREAM_TIMEOUT", "CART_IDLE_TTL", "DELIVERY_FEE"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, config.DefaultUpstreamURL, cfg.UpstreamURL)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, time.Hour, cfg.CartIdleTTL)
	assert.Equal(t, "5", cfg.DeliveryFee)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("UPSTREAM_TIMEOUT", "30")
	t.Setenv("CART_IDLE_TTL", "15m")
	t.Setenv("KAFKA_TOPIC", "events")

	cfg := config.Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 15*time.Minute, cfg.CartIdleTTL)
	assert.Equal(t, "events", cfg.KafkaTopic)
}
