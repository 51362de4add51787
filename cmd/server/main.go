package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/hotel-admin-backend/config"
	"github.com/ikkim/hotel-admin-backend/internal/app/controller"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	"github.com/ikkim/hotel-admin-backend/internal/db"
	"github.com/ikkim/hotel-admin-backend/internal/metrics"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/internal/router"
	"github.com/ikkim/hotel-admin-backend/internal/scheduler"
	"github.com/ikkim/hotel-admin-backend/internal/storage"
	ws "github.com/ikkim/hotel-admin-backend/internal/websocket"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
	"github.com/ikkim/hotel-admin-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting hotel admin backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"storage":     cfg.Upload.Backend,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the tag cache; without it logout
	// is client-side only and tags are read from the database every time
	var (
		blacklist   service.TokenBlacklist
		tokenCheck  middleware.TokenChecker
		tagCache    service.TagCache
		redisActive bool
	)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache and token blacklist", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		store := redis.NewStore(redis.GetClient(), metrics.CacheObserver("redis"))
		blacklist, tokenCheck, tagCache = store, store, store
		redisActive = true
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	imageStore, err := newImageStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", err)
	}

	reg := metrics.InitRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	hub.OnSessionsChanged = func(total int) {
		metrics.WebsocketSessions.Set(float64(total))
	}
	go hub.Run(ctx)

	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	hotelRepo := repository.NewHotelRepository(database)
	roomRepo := repository.NewRoomRepository(database)
	tagRepo := repository.NewTagRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)

	authService := service.NewAuthService(userRepo, blacklist, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	tagService := service.NewTagService(tagRepo, tagCache, cfg.Redis.TagCacheTTL)
	imageService := service.NewImageService(imageStore)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	hotelService := service.NewHotelService(hotelRepo, tagService, imageService, notificationService)
	roomService := service.NewRoomService(hotelRepo, roomRepo, imageService)
	adminHotelService := service.NewAdminHotelService(hotelRepo, notificationService)

	authController := controller.NewAuthController(authService)
	hotelController := controller.NewHotelController(hotelService)
	roomController := controller.NewRoomController(roomService)
	adminHotelController := controller.NewAdminHotelController(adminHotelService)
	tagController := controller.NewTagController(tagService)
	notificationController := controller.NewNotificationController(notificationService)
	wsController := controller.NewWSController(hub, cfg.CORS.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, tokenCheck, cfg.Auth.AcceptLegacyHeader)
	if cfg.Auth.AcceptLegacyHeader {
		logger.Warn("Legacy token header is accepted", map[string]interface{}{
			"header": middleware.LegacyTokenHeader,
		})
	}

	r := router.NewRouter(
		authController,
		hotelController,
		roomController,
		adminHotelController,
		tagController,
		notificationController,
		wsController,
		authMiddleware,
		metrics.Handler(reg),
		cfg,
	)
	engine := r.Setup()

	var backlog *scheduler.AuditBacklogScheduler
	if cfg.Scheduler.Enabled {
		backlog = scheduler.NewAuditBacklogScheduler(cfg.Scheduler.AuditBacklogSpec, adminHotelService, notificationService.AuditBacklog)
		if err := backlog.Start(); err != nil {
			logger.Fatal("Failed to start audit backlog scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
			"redis":   redisActive,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	if backlog != nil {
		backlog.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

func newImageStore(cfg *config.Config) (storage.ImageStore, error) {
	if cfg.Upload.Backend == "s3" {
		return storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		), nil
	}
	return storage.NewLocalStorage(cfg.Upload.LocalDir, cfg.Upload.PublicBaseURL)
}
