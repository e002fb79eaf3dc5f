package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"worktide/internal/config"
	"worktide/internal/database"
	"worktide/internal/domain/notification"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	cleanup := notification.NewCleanupService(notification.NewRepository(db))
	deleted, err := cleanup.CleanupOldNotifications(context.Background(), cfg.Cleanup.NotificationRetention)
	if err != nil {
		log.Fatalf("cleanup notifications failed: %v", err)
	}

	log.Printf("cleanup completed: notifications=%d retention=%s", deleted, cfg.Cleanup.NotificationRetention)
}
