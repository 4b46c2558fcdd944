package main

import (
	"log"

	"github.com/khatias/rdbr-project/internal/app"
	"github.com/khatias/rdbr-project/internal/bootstrap"
	"github.com/khatias/rdbr-project/internal/config"
	"github.com/khatias/rdbr-project/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg, zl)
	if err != nil {
		zl.Fatal("failed to build app", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(r, app.ServerConfig(cfg), zl)
}
