package main

import (
	"fmt"
	"log"

	"github.com/TeguiHD/Portafolio-sub005/internal/config"
	"github.com/TeguiHD/Portafolio-sub005/internal/database"
	"github.com/TeguiHD/Portafolio-sub005/internal/logger"
	"github.com/TeguiHD/Portafolio-sub005/internal/router"

	"go.uber.org/zap"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLogger.Sync()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		appLogger.Fatal("init database", zap.Error(err))
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		appLogger.Fatal("migrate database", zap.Error(err))
	}

	// setup router
	r := router.SetupRouter(cfg, db, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	appLogger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		appLogger.Fatal("run server", zap.Error(err))
	}
}
