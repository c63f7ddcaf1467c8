package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

// refNow is mid-month so both calendar buckets have room on either side
var refNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func idPtr(id uuid.UUID) *uuid.UUID { return &id }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func newTenant(account int, name string) models.Tenant {
	return models.Tenant{
		ID:            uuid.New(),
		Name:          name,
		Slug:          name,
		AccountNumber: account,
		Status:        models.TenantStatusActive,
		CreatedAt:     day(2024, time.June, 1),
	}
}

func newLocation(tenantID uuid.UUID, country string) models.Location {
	loc := models.Location{ID: uuid.New(), TenantID: idPtr(tenantID), IsActive: true}
	if country != "" {
		loc.CountryCode = strPtr(country)
	}
	return loc
}

func newStaff(tenantID uuid.UUID, active, approved bool) models.StaffMembership {
	return models.StaffMembership{UserID: uuid.New(), TenantID: idPtr(tenantID), IsActive: active, IsApproved: approved}
}

func sale(locationID uuid.UUID, date time.Time, total float64) models.DailySalesRollup {
	return models.DailySalesRollup{LocationID: idPtr(locationID), SummaryDate: date, TotalRevenue: total}
}

func cycle(c models.BillingCycle) *models.BillingCycle { return &c }

func findMetrics(metrics []TenantMetrics, id uuid.UUID) TenantMetrics {
	for _, m := range metrics {
		if m.ID == id {
			return m
		}
	}
	return TenantMetrics{}
}
