package main

import (
	"flag"
	"log"

	"lms_backend/internal/app"
	"lms_backend/internal/config"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
)

// @title LMS Backend API
// @version 1.0
// @description Role-based learning management backend with learning analytics and an AI study assistant.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run schema migration and exit")
	seedDemo := flag.Bool("seed", false, "load demo classroom data after startup migration")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly
	cfg.SeedDemo = *seedDemo

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal("migration failed", zap.Error(err))
		}
		sqlDB, _ := db.DB()
		sqlDB.Close()
		logger.Log.Info("migration complete")
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Log.Fatal("startup failed", zap.Error(err))
	}

	if cfg.SeedDemo {
		if err := service.NewSeedService(a.DB).Run(); err != nil {
			logger.Log.Fatal("seed failed", zap.Error(err))
		}
	}

	if err := a.Run(); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}
