// Package server assembles the HTTP API from the domain packages.
package server

import (
	"net/http"

	"worktide/internal/config"
	"worktide/internal/domain/admin"
	"worktide/internal/domain/chat"
	"worktide/internal/domain/notification"
	"worktide/internal/domain/rating"
	"worktide/internal/domain/relationship"
	"worktide/internal/domain/task"
	"worktide/internal/domain/upload"
	"worktide/internal/domain/user"
	"worktide/internal/middleware"
	jwtsvc "worktide/internal/pkg/jwt"
	"worktide/internal/pkg/response"
	"worktide/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Hub     *realtime.Hub
	Storage upload.Storage
}

// Server holds the router plus the services background jobs need.
type Server struct {
	Router        *gin.Engine
	Hub           *realtime.Hub
	Users         *user.Service
	Tasks         *task.Service
	Chat          *chat.Service
	Notifications *notification.Service
}

func New(d Deps) *Server {
	cfg := d.Config
	hub := d.Hub
	if hub == nil {
		hub = realtime.NewHub()
	}
	storage := d.Storage
	if storage == nil {
		storage = upload.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.StaticBase)
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := user.NewRepository(d.DB)
	userService := user.NewService(userRepo, tokens)

	notifService := notification.NewService(notification.NewRepository(d.DB), hub)
	blockService := relationship.NewService(relationship.NewRepository(d.DB), userService)
	chatService := chat.NewService(chat.NewRepository(d.DB), userService, hub, chat.WithBlocks(blockService))
	taskService := task.NewService(task.NewRepository(d.DB), userService, notifService, nil)
	ratingService := rating.NewService(rating.NewRepository(d.DB), taskService, userService, notifService)
	uploadService := upload.NewService(upload.NewRepository(d.DB), storage, cfg.Upload.MaxSize)
	adminService := admin.NewService(userRepo, taskService, chatService, notifService, hub)

	userHandler := user.NewHandler(userService)
	notifHandler := notification.NewHandler(notifService)
	chatHandler := chat.NewHandler(chatService, hub)
	wsHandler := chat.NewWSHandler(hub, chatService, cfg.CORSAllowedOrigins)
	blockHandler := relationship.NewHandler(blockService)
	taskHandler := task.NewHandler(taskService)
	ratingHandler := rating.NewHandler(ratingService)
	uploadHandler := upload.NewHandler(uploadService)
	adminHandler := admin.NewHandler(adminService)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "online": hub.Count()})
	})
	if cfg.Upload.Driver == "local" {
		r.Static(cfg.Upload.StaticBase, cfg.Upload.Dir)
	}

	v1 := r.Group("/api/v1")
	{
		// public
		userHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens), middleware.ActiveAccount(userService))
		{
			userHandler.RegisterProtectedRoutes(protected)
			taskHandler.RegisterRoutes(protected)
			ratingHandler.RegisterRoutes(protected)
			chat.RegisterRoutes(protected, chatHandler, wsHandler)
			relationship.RegisterRoutes(protected, blockHandler)
			notification.RegisterRoutes(protected, notifHandler)
			upload.RegisterRoutes(protected, uploadHandler)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	return &Server{
		Router:        r,
		Hub:           hub,
		Users:         userService,
		Tasks:         taskService,
		Chat:          chatService,
		Notifications: notifService,
	}
}
