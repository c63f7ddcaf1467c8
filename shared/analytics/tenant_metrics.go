package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

type revenueAccumulator struct {
	thisMonth float64
	lastMonth float64
	tickets   []float64
}

type performanceAccumulator struct {
	rows       int
	rebooking  []float64
	retention  []float64
	retail     float64
	revenue    float64
	newClients int
}

// BuildTenantMetrics folds every dataset into one TenantMetrics per tenant,
// in the order the tenants were supplied. now fixes the calendar months used
// for the this-month and last-month revenue buckets.
func BuildTenantMetrics(data Dataset, idx *Index, now time.Time) []TenantMetrics {
	metrics := make([]TenantMetrics, len(data.Tenants))
	byTenant := make(map[uuid.UUID]*TenantMetrics, len(data.Tenants))

	billing := make(map[uuid.UUID]*models.BillingRecord, len(data.Billing))
	for i := range data.Billing {
		billing[data.Billing[i].TenantID] = &data.Billing[i]
	}

	for i, tenant := range data.Tenants {
		m := &metrics[i]
		m.ID = tenant.ID
		m.Name = tenant.Name
		m.Slug = tenant.Slug
		m.AccountNumber = tenant.AccountNumber
		m.Status = tenant.Status
		m.SubscriptionTier = tenant.SubscriptionTier
		m.CreatedAt = tenant.CreatedAt
		m.ActivatedAt = tenant.ActivatedAt

		if country, ok := idx.CountryForTenant(tenant.ID); ok {
			m.Country = &country
		}

		if record, ok := billing[tenant.ID]; ok {
			m.MonthlyRecurringRevenue = record.MonthlyPrice()
			m.BillingCycle = record.BillingCycle
			m.PlanName = record.PlanName
		}

		if _, dup := byTenant[tenant.ID]; !dup {
			byTenant[tenant.ID] = m
		}
	}

	countMemberships(data, idx, byTenant)
	applyRevenue(data.DailySales, idx, byTenant, newMonthWindow(now))
	applyPerformance(data.Performance, idx, byTenant)

	return metrics
}

func countMemberships(data Dataset, idx *Index, byTenant map[uuid.UUID]*TenantMetrics) {
	for _, loc := range data.Locations {
		if !loc.IsActive || loc.TenantID == nil {
			continue
		}
		if m, ok := byTenant[*loc.TenantID]; ok {
			m.LocationCount++
		}
	}

	for _, member := range data.Staff {
		if member.TenantID == nil {
			continue
		}
		m, ok := byTenant[*member.TenantID]
		if !ok {
			continue
		}
		m.UserCount++
		if member.IsWorking() {
			m.ActiveUserCount++
		}
	}

	for _, client := range data.Clients {
		if tenantID, ok := idx.TenantForLocation(client.LocationID); ok {
			if m, ok := byTenant[tenantID]; ok {
				m.ClientCount++
			}
		}
	}

	for _, appt := range data.Appointments {
		if tenantID, ok := idx.TenantForLocation(appt.LocationID); ok {
			if m, ok := byTenant[tenantID]; ok {
				m.AppointmentCount++
			}
		}
	}
}

func applyRevenue(rows []models.DailySalesRollup, idx *Index, byTenant map[uuid.UUID]*TenantMetrics, window monthWindow) {
	acc := make(map[uuid.UUID]*revenueAccumulator)

	for _, row := range rows {
		tenantID, ok := idx.TenantForLocation(row.LocationID)
		if !ok {
			continue
		}
		m, ok := byTenant[tenantID]
		if !ok {
			continue
		}

		m.TotalRevenue += row.TotalRevenue
		m.ServiceRevenue += row.ServiceRevenue
		m.RetailRevenue += row.ProductRevenue

		a, ok := acc[tenantID]
		if !ok {
			a = &revenueAccumulator{}
			acc[tenantID] = a
		}
		switch {
		case window.inThisMonth(row.SummaryDate):
			a.thisMonth += row.TotalRevenue
		case window.inLastMonth(row.SummaryDate):
			a.lastMonth += row.TotalRevenue
		}
		if row.AverageTicket != nil {
			a.tickets = append(a.tickets, *row.AverageTicket)
		}
	}

	for tenantID, a := range acc {
		m := byTenant[tenantID]
		m.RevenueThisMonth = a.thisMonth
		m.RevenueLastMonth = a.lastMonth
		m.RevenueGrowthPercent = growthPercent(a.thisMonth, a.lastMonth)
		m.AverageTicket = mean(a.tickets)
	}
}

func applyPerformance(rows []models.WeeklyPerformanceRollup, idx *Index, byTenant map[uuid.UUID]*TenantMetrics) {
	acc := make(map[uuid.UUID]*performanceAccumulator)

	for _, row := range rows {
		tenantID, ok := idx.TenantForStaff(row.UserID)
		if !ok {
			continue
		}
		if _, ok := byTenant[tenantID]; !ok {
			continue
		}

		a, ok := acc[tenantID]
		if !ok {
			a = &performanceAccumulator{}
			acc[tenantID] = a
		}
		a.rows++
		if row.RebookingRate != nil {
			a.rebooking = append(a.rebooking, *row.RebookingRate)
		}
		if row.RetentionRate != nil {
			a.retention = append(a.retention, *row.RetentionRate)
		}
		a.retail += row.RetailSales
		a.revenue += row.TotalRevenue
		a.newClients += row.NewClients
	}

	for tenantID, a := range acc {
		if a.rows == 0 {
			continue
		}
		m := byTenant[tenantID]
		m.AvgRebookingRate = mean(a.rebooking)
		m.AvgRetentionRate = mean(a.retention)
		m.AvgRetailAttachmentPercent = percentOf(a.retail, a.revenue)
		m.NewClientsThisMonth = a.newClients
	}
}

// growthPercent compares this month against last month. Without a prior
// baseline, revenue appearing from nothing reports as +100%.
func growthPercent(thisMonth, lastMonth float64) float64 {
	switch {
	case lastMonth > 0:
		return (thisMonth - lastMonth) / lastMonth * 100
	case thisMonth > 0:
		return 100
	default:
		return 0
	}
}

// percentOf returns part as a percentage of whole, or 0 when whole is not positive
func percentOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
