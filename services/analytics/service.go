package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
)

const (
	triggerRequest  = "request"
	triggerSnapshot = "snapshot"
)

// AnalyticsService fetches rows and runs the analytics engine over them
type AnalyticsService struct {
	repo             Repository
	logger           *logrus.Logger
	fetchTimeout     time.Duration
	performanceWeeks int
	clock            func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo Repository, logger *logrus.Logger, fetchTimeout time.Duration, performanceWeeks int) *AnalyticsService {
	if performanceWeeks <= 0 {
		performanceWeeks = 4
	}
	return &AnalyticsService{
		repo:             repo,
		logger:           logger,
		fetchTimeout:     fetchTimeout,
		performanceWeeks: performanceWeeks,
		clock:            time.Now,
	}
}

// GenerateReport builds a fresh report. A zero asOf means now.
func (s *AnalyticsService) GenerateReport(ctx context.Context, asOf time.Time, trigger string) (*analytics.Report, error) {
	start := time.Now()
	now := asOf
	if now.IsZero() {
		now = s.clock()
	}

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	performanceSince := now.AddDate(0, 0, -7*s.performanceWeeks)
	data, err := fetchDataset(ctx, s.repo, performanceSince, s.logger)
	if err != nil {
		reportFailures.WithLabelValues(trigger).Inc()
		s.logger.WithError(err).WithField("trigger", trigger).Error("Failed to fetch analytics data")
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := analytics.Compute(data, now)

	elapsed := time.Since(start)
	reportDuration.Observe(elapsed.Seconds())
	reportsGenerated.WithLabelValues(trigger).Inc()
	tenantsTracked.Set(float64(report.Summary.TotalTenants))
	platformMRR.Set(report.Summary.PlatformMRR)

	s.logger.WithFields(logrus.Fields{
		"trigger":      trigger,
		"as_of":        now.Format(time.RFC3339),
		"tenants":      report.Summary.TotalTenants,
		"locations":    report.Summary.TotalLocations,
		"sales_rows":   len(data.DailySales),
		"perf_rows":    len(data.Performance),
		"platform_mrr": report.Summary.PlatformMRR,
		"duration":     elapsed.String(),
	}).Info("Generated platform analytics report")

	return report, nil
}

// Ping checks the backing store
func (s *AnalyticsService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
