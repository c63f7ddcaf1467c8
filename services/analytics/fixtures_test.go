package main

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/salon-platform-analytics/shared/analytics"
	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

var refNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

var errBoom = errors.New("connection reset")

// fakeRepository serves a fixed dataset; failures names the row sets that error
type fakeRepository struct {
	data     analytics.Dataset
	failures map[string]error

	mu               sync.Mutex
	performanceSince time.Time
	pingErr          error
}

func (f *fakeRepository) fail(name string) error {
	if f.failures == nil {
		return nil
	}
	return f.failures[name]
}

func (f *fakeRepository) Tenants(context.Context) ([]models.Tenant, error) {
	return f.data.Tenants, f.fail("tenants")
}

func (f *fakeRepository) Locations(context.Context) ([]models.Location, error) {
	if err := f.fail("locations"); err != nil {
		return nil, err
	}
	return f.data.Locations, nil
}

func (f *fakeRepository) Staff(context.Context) ([]models.StaffMembership, error) {
	if err := f.fail("staff"); err != nil {
		return nil, err
	}
	return f.data.Staff, nil
}

func (f *fakeRepository) Billing(context.Context) ([]models.BillingRecord, error) {
	if err := f.fail("billing"); err != nil {
		return nil, err
	}
	return f.data.Billing, nil
}

func (f *fakeRepository) Clients(context.Context) ([]models.ClientRecord, error) {
	if err := f.fail("clients"); err != nil {
		return nil, err
	}
	return f.data.Clients, nil
}

func (f *fakeRepository) Appointments(context.Context) ([]models.AppointmentRecord, error) {
	if err := f.fail("appointments"); err != nil {
		return nil, err
	}
	return f.data.Appointments, nil
}

func (f *fakeRepository) DailySales(context.Context) ([]models.DailySalesRollup, error) {
	if err := f.fail("daily_sales"); err != nil {
		return nil, err
	}
	return f.data.DailySales, nil
}

func (f *fakeRepository) Performance(_ context.Context, since time.Time) ([]models.WeeklyPerformanceRollup, error) {
	f.mu.Lock()
	f.performanceSince = since
	f.mu.Unlock()
	if err := f.fail("performance"); err != nil {
		return nil, err
	}
	return f.data.Performance, nil
}

func (f *fakeRepository) Ping(context.Context) error {
	return f.pingErr
}

func idPtr(id uuid.UUID) *uuid.UUID { return &id }
func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

// twoSalons is a small platform: "north" with two locations and revenue, "south" with one idle location
func twoSalons() analytics.Dataset {
	north := models.Tenant{
		ID:               uuid.New(),
		Name:             "North Hair Studio",
		Slug:             "north",
		AccountNumber:    1001,
		Status:           models.TenantStatusActive,
		SubscriptionTier: strPtr("pro"),
		CreatedAt:        time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC),
	}
	south := models.Tenant{
		ID:            uuid.New(),
		Name:          "South Nails",
		Slug:          "south",
		AccountNumber: 1002,
		Status:        models.TenantStatusTrialing,
		CreatedAt:     time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC),
	}

	northA := models.Location{ID: uuid.New(), TenantID: idPtr(north.ID), IsActive: true, CountryCode: strPtr("US")}
	northB := models.Location{ID: uuid.New(), TenantID: idPtr(north.ID), IsActive: true}
	southA := models.Location{ID: uuid.New(), TenantID: idPtr(south.ID), IsActive: true, CountryCode: strPtr("CA")}

	stylist := models.StaffMembership{UserID: uuid.New(), TenantID: idPtr(north.ID), IsActive: true, IsApproved: true}
	monthly := models.BillingCycleMonthly

	return analytics.Dataset{
		Tenants:   []models.Tenant{north, south},
		Locations: []models.Location{northA, northB, southA},
		Staff:     []models.StaffMembership{stylist},
		Billing: []models.BillingRecord{
			{TenantID: north.ID, BillingCycle: &monthly, BasePrice: 199, PlanName: strPtr("Pro")},
		},
		Clients: []models.ClientRecord{
			{ID: uuid.New(), LocationID: idPtr(northA.ID)},
			{ID: uuid.New(), LocationID: idPtr(southA.ID)},
		},
		DailySales: []models.DailySalesRollup{
			{LocationID: idPtr(northA.ID), SummaryDate: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), TotalRevenue: 1500, ServiceRevenue: 1200, ProductRevenue: 300, AverageTicket: floatPtr(75)},
			{LocationID: idPtr(northB.ID), SummaryDate: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), TotalRevenue: 1000, ServiceRevenue: 1000},
		},
		Performance: []models.WeeklyPerformanceRollup{
			{UserID: idPtr(stylist.UserID), WeekStart: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), RebookingRate: floatPtr(60), RetentionRate: floatPtr(80), RetailSales: 150, NewClients: 4, TotalRevenue: 1500},
		},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(repo Repository) *AnalyticsService {
	svc := NewAnalyticsService(repo, quietLogger(), time.Second, 4)
	svc.clock = func() time.Time { return refNow }
	return svc
}
