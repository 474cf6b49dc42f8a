package main

import (
	"NativeRecipe-Backend/cmd/config"
	migration "NativeRecipe-Backend/cmd/database/migrate"
	"NativeRecipe-Backend/internal/utils"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	rdb, err := config.ConnectRedis()
	if err != nil {
		log.Warnf("redis unavailable, falling back to database token revocation: %v", err)
		rdb = nil
	}

	app, err := config.NewApp(db, rdb)
	if err != nil {
		log.Fatalf("failed to create app: %v", err)
	}

	go func() {
		if err := app.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Errorf("server shutdown failed: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
