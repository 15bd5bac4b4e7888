// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/firebase"
	"scholar_directory_backend/internal/jobs"
	"scholar_directory_backend/internal/middleware"
	"scholar_directory_backend/internal/notification"
	platformES "scholar_directory_backend/internal/platform/elasticsearch"
	"scholar_directory_backend/internal/profile"
	"scholar_directory_backend/internal/shared"
	"scholar_directory_backend/internal/storage"
	"scholar_directory_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	userHandler         *user.Handler
	profileHandler      *profile.Handler
	notificationHandler *notification.Handler

	// Jobs
	orphanCleanupJob *jobs.OrphanCleanupJob

	// Exposed for startup tasks in cmd/server.
	ESClient  *platformES.ESClientWrapper
	Storage   storage.Service
	AppLogger *zap.Logger
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	profileHandler *profile.Handler,
	notificationHandler *notification.Handler,
	orphanCleanupJob *jobs.OrphanCleanupJob,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
	esClient *platformES.ESClientWrapper,
	storageService storage.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Scholar Directory API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)

	profileGroup := v1.Group("/profiles")
	profileHandler.RegisterRoutes(profileGroup, authMW, adminRoleMW)

	notificationGroup := v1.Group("/notifications", authMW)
	notificationHandler.RegisterRoutes(notificationGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:          httpServer,
		router:              router,
		cfg:                 cfg,
		logger:              logger,
		userHandler:         userHandler,
		profileHandler:      profileHandler,
		notificationHandler: notificationHandler,
		orphanCleanupJob:    orphanCleanupJob,
		ESClient:            esClient,
		Storage:             storageService,
		AppLogger:           logger,
	}, nil
}

func (s *Server) Start() error {
	if s.orphanCleanupJob != nil {
		if err := s.orphanCleanupJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start orphan cleanup job", zap.Error(err))
		}
	} else {
		s.logger.Info("Orphan cleanup job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.orphanCleanupJob != nil {
		s.orphanCleanupJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
