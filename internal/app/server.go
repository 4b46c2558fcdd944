package app

import (
	"time"

	"github.com/khatias/rdbr-project/internal/bootstrap"
	"github.com/khatias/rdbr-project/internal/config"
)

// ServerConfig leaves WriteTimeout at zero: the session event stream stays
// open for as long as the client listens, and cart rebuilds carry their own
// deadline.
func ServerConfig(cfg config.Config) bootstrap.ServerConfig {
	return bootstrap.ServerConfig{
		Port:              cfg.Port,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
