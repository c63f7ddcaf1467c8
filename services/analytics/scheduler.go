package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SnapshotScheduler periodically recomputes the report and announces it
type SnapshotScheduler struct {
	service   *AnalyticsService
	publisher EventPublisher
	schedule  string
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	running   bool
}

// NewSnapshotScheduler creates a scheduler. publisher may be nil, snapshots are then only logged.
func NewSnapshotScheduler(service *AnalyticsService, publisher EventPublisher, schedule string, logger *logrus.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		service:   service,
		publisher: publisher,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start schedules the snapshot job. An empty schedule leaves it disabled.
func (s *SnapshotScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.schedule == "" {
		s.logger.Info("Analytics snapshot job is disabled")
		return nil
	}

	s.cron = cron.New(cron.WithSeconds())

	// robfig/cron with WithSeconds expects 6 fields
	schedule := s.schedule
	if len(strings.Fields(schedule)) == 5 {
		schedule = "0 " + schedule
	}

	if _, err := s.cron.AddFunc(schedule, s.RunSnapshot); err != nil {
		s.logger.WithError(err).Error("Failed to schedule analytics snapshot job")
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.WithField("schedule", s.schedule).Info("Analytics snapshot scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running snapshot to finish
func (s *SnapshotScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Analytics snapshot scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *SnapshotScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled snapshot, zero when not running
func (s *SnapshotScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.cron == nil {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunSnapshot computes one report and publishes its headline figures
func (s *SnapshotScheduler) RunSnapshot() {
	report, err := s.service.GenerateReport(context.Background(), time.Time{}, triggerSnapshot)
	if err != nil {
		s.logger.WithError(err).Error("Analytics snapshot failed")
		return
	}

	if s.publisher == nil {
		return
	}

	event := NewReportGeneratedEvent(report, triggerSnapshot)
	if err := s.publisher.PublishReportGenerated(event); err != nil {
		s.logger.WithError(err).WithField("event_id", event.EventID.String()).Warn("Failed to queue analytics snapshot event")
	}
}
