package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	// Initialize database
	db, err := config.ConnectDatabase(config.GetDatabaseConfig())
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Redis only caches parsed token claims
	var claimsCache middleware.ClaimsCache
	redisCache, err := utils.NewRedisCache(context.Background())
	if err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, claims caching disabled")
	} else {
		claimsCache = redisCache
		defer redisCache.Close()
	}

	var roleResolver middleware.RoleResolver
	if cfg.AWSRegion != "" && cfg.CognitoPoolID != "" {
		resolver, err := middleware.NewCognitoRoleResolver(cfg.AWSRegion, cfg.CognitoPoolID)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize Cognito role resolver")
		}
		roleResolver = resolver
	} else {
		logger.Warn("AWS_REGION or COGNITO_USER_POOL_ID not set, roles are read from token claims only")
	}
	authMiddleware := middleware.NewAuthMiddleware(claimsCache, roleResolver, logger)

	service := NewAnalyticsService(NewGormRepository(db), logger, cfg.FetchTimeout, cfg.PerformanceWeeks)

	var publisher EventPublisher
	var producer *KafkaProducer
	if cfg.KafkaBroker != "" {
		producer = NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		publisher = producer
	} else {
		logger.Warn("KAFKA_BROKER not set, report events are not published")
	}

	scheduler := NewSnapshotScheduler(service, publisher, cfg.SnapshotSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start analytics snapshot scheduler")
	}

	checks := []healthCheck{{name: "database", check: service.Ping, required: true}}
	if redisCache != nil {
		checks = append(checks, healthCheck{name: "redis", check: redisCache.Ping})
	}

	router := setupRouter(service, authMiddleware, checks, cfg, logger)

	srv := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Analytics service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start analytics service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down analytics service")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Analytics service forced to shutdown")
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.WithError(err).Error("Failed to close Kafka producer")
		}
	}
}

// setupRouter wires middleware and routes
func setupRouter(gen ReportGenerator, authMiddleware *middleware.AuthMiddleware, checks []healthCheck, cfg *config.AnalyticsConfig, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	router.Use(cors.New(corsConfig))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))

	// Health check endpoint
	router.GET("/health", handleHealth(checks, logger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Platform analytics routes (platform admin only)
	platform := router.Group("/analytics/platform")
	platform.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(models.RolePlatformAdmin))
	{
		platform.GET("", handleGetPlatformReport(gen, logger))
		platform.GET("/tenants", handleGetTenantMetrics(gen, logger))
		platform.GET("/tenants/:id", handleGetTenant(gen, logger))
		platform.GET("/leaderboards/:name", handleGetLeaderboard(gen, logger))
		platform.GET("/export", handleExportTenantMetrics(gen, logger))
	}

	return router
}
