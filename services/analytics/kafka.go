package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
)

const reportGeneratedEventType = "analytics.report.generated"

// ReportGeneratedEvent carries the headline figures of one report
type ReportGeneratedEvent struct {
	EventID                uuid.UUID `json:"event_id"`
	EventType              string    `json:"event_type"`
	Trigger                string    `json:"trigger"`
	GeneratedAt            time.Time `json:"generated_at"`
	TotalTenants           int       `json:"total_tenants"`
	ActiveTenants          int       `json:"active_tenants"`
	TotalLocations         int       `json:"total_locations"`
	TotalUsers             int       `json:"total_users"`
	CombinedMonthlyRevenue float64   `json:"combined_monthly_revenue"`
	PlatformMRR            float64   `json:"platform_mrr"`
	PlatformARR            float64   `json:"platform_arr"`
}

// NewReportGeneratedEvent extracts the event from a report
func NewReportGeneratedEvent(report *analytics.Report, trigger string) ReportGeneratedEvent {
	s := report.Summary
	return ReportGeneratedEvent{
		EventID:                uuid.New(),
		EventType:              reportGeneratedEventType,
		Trigger:                trigger,
		GeneratedAt:            s.GeneratedAt,
		TotalTenants:           s.TotalTenants,
		ActiveTenants:          s.ActiveTenants,
		TotalLocations:         s.TotalLocations,
		TotalUsers:             s.TotalUsers,
		CombinedMonthlyRevenue: s.CombinedMonthlyRevenue,
		PlatformMRR:            s.PlatformMRR,
		PlatformARR:            s.PlatformARR,
	}
}

// EventPublisher queues report events for delivery
type EventPublisher interface {
	PublishReportGenerated(event ReportGeneratedEvent) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer handles Kafka message production with worker pool
type KafkaProducer struct {
	writer      messageWriter
	topic       string
	breaker     *gobreaker.CircuitBreaker
	eventChan   chan ReportGeneratedEvent
	workerCount int
	logger      *logrus.Logger
	wg          sync.WaitGroup
	closeOnce   sync.Once
}

// NewKafkaProducer creates a new Kafka producer with worker pool
func NewKafkaProducer(broker, topic string, logger *logrus.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    10,
	}
	return newKafkaProducer(writer, topic, 2, logger)
}

func newKafkaProducer(writer messageWriter, topic string, workerCount int, logger *logrus.Logger) *KafkaProducer {
	kp := &KafkaProducer{
		writer:      writer,
		topic:       topic,
		eventChan:   make(chan ReportGeneratedEvent, 64),
		workerCount: workerCount,
		logger:      logger,
	}

	kp.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-" + topic,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from":            from.String(),
				"to":              to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	kp.startWorkers()
	return kp
}

// startWorkers starts the worker pool for async event processing
func (kp *KafkaProducer) startWorkers() {
	for i := 0; i < kp.workerCount; i++ {
		kp.wg.Add(1)
		go kp.eventWorker(i)
	}

	kp.logger.WithField("workers", kp.workerCount).Info("Started Kafka report event workers")
}

// eventWorker drains the queue until it is closed
func (kp *KafkaProducer) eventWorker(id int) {
	defer kp.wg.Done()

	for event := range kp.eventChan {
		if err := kp.sendEventSync(event); err != nil {
			kp.logger.WithFields(logrus.Fields{
				"worker":   id,
				"event_id": event.EventID.String(),
				"error":    err.Error(),
			}).Error("Failed to send report event")
		}
	}
}

// PublishReportGenerated queues an event without blocking
func (kp *KafkaProducer) PublishReportGenerated(event ReportGeneratedEvent) error {
	select {
	case kp.eventChan <- event:
		return nil
	default:
		return fmt.Errorf("report event queue full, event dropped")
	}
}

// sendEventSync writes one event through the circuit breaker
func (kp *KafkaProducer) sendEventSync(event ReportGeneratedEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal report event: %w", err)
	}

	msg := kafka.Message{
		Topic: kp.topic,
		Key:   []byte(event.EventID.String()),
		Value: message,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "trigger", Value: []byte(event.Trigger)},
		},
	}

	_, err = kp.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return nil, kp.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to write report event to Kafka: %w", err)
	}

	return nil
}

// Close drains queued events and closes the writer
func (kp *KafkaProducer) Close() error {
	var err error
	kp.closeOnce.Do(func() {
		close(kp.eventChan)
		kp.wg.Wait()

		if cerr := kp.writer.Close(); cerr != nil {
			err = fmt.Errorf("failed to close Kafka writer: %w", cerr)
			return
		}
		kp.logger.Info("Kafka producer shut down")
	})
	return err
}
