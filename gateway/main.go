package main

import (
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/config"
	"github.com/pavitra93/salon-platform-analytics/shared/middleware"
	"github.com/pavitra93/salon-platform-analytics/shared/models"
	"github.com/pavitra93/salon-platform-analytics/shared/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	cfg := config.GetAnalyticsConfig()
	logger := config.NewLogger(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Redis for caching
	var claimsCache middleware.ClaimsCache
	redisCache, err := utils.NewRedisCache(context.Background())
	if err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, caching disabled")
	} else {
		claimsCache = redisCache
		defer redisCache.Close()
	}

	if cfg.AWSRegion == "" || cfg.CognitoPoolID == "" {
		logger.Fatal("AWS_REGION and COGNITO_USER_POOL_ID must be set")
	}

	resolver, err := middleware.NewCognitoRoleResolver(cfg.AWSRegion, cfg.CognitoPoolID)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize auth middleware")
	}
	authMiddleware := middleware.NewAuthMiddleware(claimsCache, resolver, logger)

	// Initialize service clients
	serviceClients := &ServiceClients{
		AnalyticsService: NewServiceClient(getEnv("ANALYTICS_SERVICE_URL", "http://localhost:8006")),
	}

	router := setupRouter(serviceClients, authMiddleware, cfg, logger)

	port := getEnv("API_GATEWAY_PORT", "8080")
	logger.WithField("port", port).Info("API Gateway starting")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Failed to start API Gateway")
	}
}

func setupRouter(serviceClients *ServiceClients, authMiddleware *middleware.AuthMiddleware, cfg *config.AnalyticsConfig, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	router.Use(cors.New(corsConfig))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "API Gateway is healthy", serviceClients.GetServiceStatus())
	})

	// Platform analytics routes (admin only)
	platform := router.Group("/analytics/platform")
	platform.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(models.RolePlatformAdmin))
	{
		platform.GET("", serviceClients.AnalyticsService.ProxyRequest)
		platform.GET("/tenants", serviceClients.AnalyticsService.ProxyRequest)
		platform.GET("/tenants/:id", serviceClients.AnalyticsService.ProxyRequest)
		platform.GET("/leaderboards/:name", serviceClients.AnalyticsService.ProxyRequest)
		platform.GET("/export", serviceClients.AnalyticsService.ProxyRequest)
	}

	return router
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
