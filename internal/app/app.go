package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nopo_backend/database"
	"nopo_backend/internal/auth"
	"nopo_backend/internal/config"
	"nopo_backend/internal/handlers"
	"nopo_backend/internal/logger"
	"nopo_backend/internal/middleware"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/routes"
	"nopo_backend/internal/services"
	"nopo_backend/internal/storage"
	"nopo_backend/internal/validator"
	"nopo_backend/internal/workers"
	"nopo_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxMultipartMemory - сколько multipart-данных gin держит в памяти, остальное уходит во временные файлы
const maxMultipartMemory = 32 << 20

func Run() {
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.Debug = cfg.Server.Debug

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(gormDB); err != nil {
			logger.Fatal("Failed to migrate database", "error", err)
		}
	}
	if err := database.SeedRestaurants(gormDB, cfg.Database.SeedFile); err != nil {
		// без каталога ресторанов отзывы создавать некуда
		logger.Fatal("Failed to seed restaurants", "error", err)
	}

	store, err := NewStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	ginRouter := SetupRouter(cfg, gormDB, store)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	cleanupDone := workers.NewTokenCleanupWorker(gormDB, repositories.NewRefreshTokenRepository(), workers.DefaultTokenCleanupInterval).Start(workerCtx)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      ginRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		logger.Info("Signal caught, shutting down", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(ctx)
	}()

	logger.Info("🚀 Server starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server startup error", "error", err)
	}

	if err := <-shutdown; err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	stopWorkers()
	<-cleanupDone
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// NewStorage собирает storage из секции storage конфига.
func NewStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
}

// SetupRouter собирает сервисы, хэндлеры и маршруты. Используется и в Run, и в тестах.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, store storage.Storage) *gin.Engine {
	// 1. Сервисы
	serviceContainer := initializeServices(cfg, store)

	// 2. Хэндлеры
	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты
	staticDir := ""
	if cfg.Storage.Type == "local" {
		staticDir = cfg.Storage.BasePath
	}
	routes.RegisterRoutes(
		ginRouter,
		appHandlers,
		middleware.AuthMiddleware(serviceContainer.AuthService),
		cfg.Storage.BaseURL,
		staticDir,
	)

	return ginRouter
}

func initializeServices(cfg *config.Config, store storage.Storage) *services.ServiceContainer {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.AccessTokenTTL())

	images := services.DefaultImageConfig()
	if cfg.Upload.MaxSize > 0 {
		images.MaxFileSize = cfg.Upload.MaxSize
	}
	if cfg.Upload.MaxFiles > 0 {
		images.MaxFiles = cfg.Upload.MaxFiles
	}
	if len(cfg.Upload.AllowedTypes) > 0 {
		images.AllowedTypes = cfg.Upload.AllowedTypes
	}
	if cfg.Upload.ImageQuality > 0 {
		images.ImageQuality = cfg.Upload.ImageQuality
	}
	if cfg.Upload.MaxImageEdge > 0 {
		images.MaxImageEdge = cfg.Upload.MaxImageEdge
	}

	return services.NewServiceContainer(services.Dependencies{
		Storage:    store,
		Tokens:     tokens,
		RefreshTTL: cfg.RefreshTokenTTL(),
		Images:     images,
	})
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}
