package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesnexus/internal/model"
	"salesnexus/internal/server"
	"salesnexus/internal/ws"
	"salesnexus/pkg/config"
	"salesnexus/pkg/database"
	"salesnexus/pkg/logger"
	"salesnexus/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "salesnexus",
	})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLog.Sync()

	// 2. Setup Database
	db, err := database.Connect(&cfg.DB, zapLog)
	if err != nil {
		zapLog.Fatal("Database unavailable", zap.Error(err))
	}
	// Auto Migrate, schema is owned by the models
	if err := db.AutoMigrate(model.All()...); err != nil {
		zapLog.Fatal("Migration failed", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := ws.NewHub(zapLog)
	go wsHub.Run(ctx)

	// 4. Wiring + routes
	app := server.New(server.Options{
		Config:  cfg,
		DB:      db,
		Logger:  zapLog,
		Hub:     wsHub,
		Metrics: metrics.New("salesnexus"),
	})

	// 5. Graceful Shutdown
	go func() {
		zapLog.Info("HTTP server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zapLog.Panic("Listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down server...")
	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	zapLog.Info("Server exited")
}
