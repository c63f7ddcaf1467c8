package config

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyticsConfig holds the analytics service configuration
type AnalyticsConfig struct {
	Port             string
	Environment      string
	LogLevel         string
	LogFormat        string
	FetchTimeout     time.Duration
	PerformanceWeeks int
	KafkaBroker      string
	KafkaTopic       string
	SnapshotSchedule string
	AllowedOrigins   []string
	AWSRegion        string
	CognitoPoolID    string
}

// GetAnalyticsConfig returns analytics service configuration from environment variables
func GetAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		Port:             getEnv("ANALYTICS_SERVICE_PORT", "8006"),
		Environment:      getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		FetchTimeout:     getEnvDuration("ANALYTICS_FETCH_TIMEOUT", 20*time.Second),
		PerformanceWeeks: getEnvInt("ANALYTICS_PERFORMANCE_WEEKS", 4),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaTopic:       getEnv("ANALYTICS_KAFKA_TOPIC", "analytics-reports"),
		SnapshotSchedule: os.Getenv("ANALYTICS_SNAPSHOT_SCHEDULE"),
		AllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AWSRegion:        os.Getenv("AWS_REGION"),
		CognitoPoolID:    os.Getenv("COGNITO_USER_POOL_ID"),
	}
}

// IsProduction returns true if running in production mode
func (c *AnalyticsConfig) IsProduction() bool {
	return c.Environment == "release"
}

// GetServerAddress returns the server address
func (c *AnalyticsConfig) GetServerAddress() string {
	return ":" + c.Port
}

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT
func NewLogger(cfg *AnalyticsConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
