package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"videoverse/internal/api"
	"videoverse/internal/ffmpeg"
	"videoverse/internal/middleware"
	"videoverse/internal/repository"
	"videoverse/internal/service"
	"videoverse/internal/storage"
	"videoverse/pkg/config"
	"videoverse/pkg/db"
	"videoverse/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Production); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database, err := db.Init(cfg.Database)
	if err != nil {
		logger.L.Fatal("Failed to initialize database", zap.Error(err))
	}

	store, err := storage.New(cfg.Video.StorageDir)
	if err != nil {
		logger.L.Fatal("Failed to initialize storage", zap.Error(err))
	}

	encoder := ffmpeg.NewEncoder()
	if err := encoder.VerifyInstalled(context.Background()); err != nil {
		logger.L.Warn("ffmpeg tooling not verified; media operations will fail", zap.Error(err))
	}

	videoRepo := repository.NewVideoRepository(database)
	linkRepo := repository.NewShareLinkRepository(database)

	videoService := service.NewVideoService(videoRepo, store, encoder, cfg.Video)
	transcodeService := service.NewTranscodeService(videoRepo, store, encoder)
	shareService := service.NewShareService(videoRepo, linkRepo, cfg.Server)

	videoHandler := api.NewVideoHandler(videoService, transcodeService, store)
	shareHandler := api.NewShareHandler(shareService, store)

	r := gin.New()
	r.Use(middleware.GinZapLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Content-Type", "X-API-Token"},
	}))

	videos := r.Group("/videos")
	{
		// Anonymous access: token possession or a public filename is the
		// only credential.
		videos.GET("/watch/:filename", videoHandler.Watch)
		videos.GET("/share/:token", shareHandler.Access)

		protected := videos.Group("")
		protected.Use(middleware.APITokenAuth(cfg.Auth.APIToken))
		{
			protected.POST("/upload", videoHandler.Upload)
			protected.GET("", videoHandler.List)
			protected.POST("/trim", videoHandler.Trim)
			protected.POST("/merge", videoHandler.Merge)
			protected.POST("/share", shareHandler.Generate)
		}
	}

	// Expired share links are filtered on access; this just keeps the table
	// from growing without bound.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if purged, err := shareService.PurgeExpired(); err != nil {
				logger.L.Warn("share link purge failed", zap.Error(err))
			} else if purged > 0 {
				logger.L.Info("purged expired share links", zap.Int64("count", purged))
			}
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.L.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.L.Fatal("Failed to start server", zap.Error(err))
	}
}
