// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iphenelist/vendor-backend/internal/auth"
	"github.com/iphenelist/vendor-backend/internal/category"
	"github.com/iphenelist/vendor-backend/internal/common"
	"github.com/iphenelist/vendor-backend/internal/config"
	"github.com/iphenelist/vendor-backend/internal/jobs"
	"github.com/iphenelist/vendor-backend/internal/listing"
	"github.com/iphenelist/vendor-backend/internal/middleware"
	"github.com/iphenelist/vendor-backend/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	listingExpiryJob *jobs.ListingExpiryJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tokenService auth.TokenService,
	categoryHandler *category.Handler,
	listingHandler *listing.Handler,
	wishlistHandler *wishlist.Handler,
	listingExpiryJob *jobs.ListingExpiryJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))
	optionalAuthMW := middleware.OptionalAuthMiddleware(tokenService, logger.Named("OptionalAuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Vendor API is healthy!"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	categoryHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	listingHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	wishlistHandler.RegisterRoutes(v1, authMW, optionalAuthMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		listingExpiryJob: listingExpiryJob,
	}, nil
}

func (s *Server) Start() error {
	if s.listingExpiryJob != nil {
		if err := s.listingExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start listing expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Listing expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.listingExpiryJob != nil {
		s.listingExpiryJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
