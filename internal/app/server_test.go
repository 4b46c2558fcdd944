package app_test

import (
	"testing"
	"time"

	"github.com/khatias/rdbr-project/internal/app"
	"github.com/khatias/rdbr-project/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestServerConfig(t *testing.T) {
	cfg := config.Config{Port: "3000", UpstreamTimeout: 15 * time.Second}

	sc := app.ServerConfig(cfg)

	assert.Equal(t, "3000", sc.Port)
	assert.Zero(t, sc.WriteTimeout, "long-lived event streams need an open write deadline")
	assert.Positive(t, sc.ReadHeaderTimeout)
	assert.Positive(t, sc.ReadTimeout)
	assert.Positive(t, sc.IdleTimeout)
}
