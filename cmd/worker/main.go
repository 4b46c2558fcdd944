package main

import (
	"log"

	"github.com/khatias/rdbr-project/internal/app"
	"github.com/khatias/rdbr-project/internal/config"
	"github.com/khatias/rdbr-project/internal/pkg/logger"

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

	if err := app.RunWorker(cfg, zl); err != nil {
		zl.Fatal("worker failed", zap.Error(err))
	}
}
