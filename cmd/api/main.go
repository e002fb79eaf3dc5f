package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"worktide/internal/config"
	"worktide/internal/database"
	"worktide/internal/domain/notification"
	"worktide/internal/domain/upload"
	"worktide/internal/realtime"
	"worktide/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := server.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hubOpts []realtime.HubOption
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}
		hubOpts = append(hubOpts, realtime.WithBus(realtime.NewRedisBus(rdb, cfg.Redis.Channel)))
		log.Printf("realtime bus enabled addr=%s channel=%s", cfg.Redis.Addr, cfg.Redis.Channel)
	}
	hub := realtime.NewHub(hubOpts...)
	go func() {
		if err := hub.RunBus(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("realtime bus stopped: %v", err)
		}
	}()

	var storage upload.Storage
	if cfg.Upload.Driver == "minio" {
		storage, err = upload.NewMinioStorage(ctx, upload.MinioOptions{
			Endpoint:        cfg.Minio.Endpoint,
			AccessKeyID:     cfg.Minio.AccessKeyID,
			SecretAccessKey: cfg.Minio.SecretAccessKey,
			Bucket:          cfg.Minio.Bucket,
			UseSSL:          cfg.Minio.UseSSL,
			PublicBase:      cfg.Minio.PublicBase,
		})
		if err != nil {
			log.Fatalf("minio init failed: %v", err)
		}
	}

	srv := server.New(server.Deps{Config: cfg, DB: db, Hub: hub, Storage: storage})

	cleanup := notification.NewCleanupService(notification.NewRepository(db))
	stopCleanup := cleanup.ScheduleCleanup(ctx, notification.CleanupConfig{
		Retention: cfg.Cleanup.NotificationRetention,
		Interval:  cfg.Cleanup.Interval,
	})
	defer close(stopCleanup)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server started on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
