package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/config"
	"github.com/ikkim/hotel-admin-backend/internal/app/controller"
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
)

// maxUploadMemory caps the multipart form kept in memory; larger parts spill to disk
const maxUploadMemory = 8 << 20

type Router struct {
	authController         *controller.AuthController
	hotelController        *controller.HotelController
	roomController         *controller.RoomController
	adminHotelController   *controller.AdminHotelController
	tagController          *controller.TagController
	notificationController *controller.NotificationController
	wsController           *controller.WSController
	authMiddleware         *middleware.AuthMiddleware
	metricsHandler         http.Handler
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	hotelController *controller.HotelController,
	roomController *controller.RoomController,
	adminHotelController *controller.AdminHotelController,
	tagController *controller.TagController,
	notificationController *controller.NotificationController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		hotelController:        hotelController,
		roomController:         roomController,
		adminHotelController:   adminHotelController,
		tagController:          tagController,
		notificationController: notificationController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		metricsHandler:         metricsHandler,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "hotel admin API is running",
		})
	})
	if r.metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(r.metricsHandler))
	}

	if r.config.Upload.Backend == "local" {
		router.Static("/uploads", r.config.Upload.LocalDir)
	}

	auth := r.authMiddleware.Authenticate()
	merchantOnly := r.authMiddleware.RequireRole(model.RoleMerchant)
	adminOnly := r.authMiddleware.RequireRole(model.RoleAdmin)
	dashboard := r.authMiddleware.RequireRole(model.RoleMerchant, model.RoleAdmin)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", r.authController.Register)
			authGroup.POST("/login", r.authController.Login)
			authGroup.POST("/logout", auth, r.authController.Logout)
			authGroup.GET("/me", auth, r.authController.GetMe)
		}

		merchant := api.Group("/merchant")
		merchant.Use(auth, merchantOnly)
		{
			merchant.GET("/hotels", r.hotelController.ListHotels)
			merchant.POST("/hotels/upload", r.hotelController.CreateHotel)
			merchant.GET("/hotels/:id", r.hotelController.GetHotel)
			merchant.PUT("/hotels/:id", r.hotelController.UpdateHotel)
			merchant.DELETE("/hotels/:id", r.hotelController.DeleteHotel)

			merchant.POST("/hotels/:id/rooms/upload", r.roomController.CreateRoom)
			merchant.DELETE("/hotels/:id/:roomId", r.roomController.DeleteRoom)
			merchant.PUT("/rooms/:roomId", r.roomController.UpdateRoom)
		}

		admin := api.Group("/admin")
		admin.Use(auth, adminOnly)
		{
			admin.GET("/hotels", r.adminHotelController.ListHotels)
			admin.GET("/hotels/backlog", r.adminHotelController.Backlog)
			admin.GET("/hotels/:id", r.adminHotelController.GetHotel)
			admin.GET("/hotels/:id/history", r.adminHotelController.History)
			admin.POST("/hotels/:id/audit", r.adminHotelController.AuditHotel)
			admin.POST("/hotels/:id/publish", r.adminHotelController.PublishHotel)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.POST("", auth, adminOnly, r.tagController.CreateTag)
		}

		notifications := api.Group("/notifications")
		notifications.Use(auth, dashboard)
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.PUT("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PUT("/:id/read", r.notificationController.MarkAsRead)
		}

		api.GET("/ws", auth, dashboard, r.wsController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader, middleware.LegacyTokenHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		} else if o == "*" {
			cfg.AllowOrigins = nil
			break
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		// wildcard or unset: echo any origin back, credentials stay allowed
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}
