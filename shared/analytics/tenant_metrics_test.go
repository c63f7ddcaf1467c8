package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

func buildMetrics(data Dataset) []TenantMetrics {
	return BuildTenantMetrics(data, BuildIndex(data.Locations, data.Staff), refNow)
}

func TestBuildTenantMetrics_EveryTenantPresentAndZeroed(t *testing.T) {
	busy := newTenant(1, "busy")
	idle := newTenant(2, "idle")
	loc := newLocation(busy.ID, "US")

	metrics := buildMetrics(Dataset{
		Tenants:    []models.Tenant{busy, idle},
		Locations:  []models.Location{loc},
		DailySales: []models.DailySalesRollup{sale(loc.ID, day(2025, time.March, 2), 100)},
	})

	require.Len(t, metrics, 2)
	assert.Equal(t, busy.ID, metrics[0].ID, "input order is kept")
	assert.Equal(t, idle.ID, metrics[1].ID)

	zeroed := metrics[1]
	assert.Equal(t, "idle", zeroed.Name)
	assert.Zero(t, zeroed.LocationCount)
	assert.Zero(t, zeroed.UserCount)
	assert.Zero(t, zeroed.ClientCount)
	assert.Zero(t, zeroed.TotalRevenue)
	assert.Zero(t, zeroed.RevenueGrowthPercent)
	assert.Zero(t, zeroed.AverageTicket)
	assert.Zero(t, zeroed.MonthlyRecurringRevenue)
	assert.Nil(t, zeroed.BillingCycle)
	assert.Nil(t, zeroed.Country)
}

func TestBuildTenantMetrics_BillingNormalization(t *testing.T) {
	monthly := newTenant(1, "monthly")
	annual := newTenant(2, "annual")
	custom := newTenant(3, "custom")
	noCycle := newTenant(4, "no-cycle")

	metrics := buildMetrics(Dataset{
		Tenants: []models.Tenant{monthly, annual, custom, noCycle},
		Billing: []models.BillingRecord{
			{TenantID: monthly.ID, BillingCycle: cycle(models.BillingCycleMonthly), BasePrice: 300},
			{TenantID: annual.ID, BillingCycle: cycle(models.BillingCycleAnnual), BasePrice: 2400},
			{TenantID: custom.ID, BillingCycle: cycle(models.BillingCycleAnnual), BasePrice: 2400, CustomPrice: floatPtr(1200), PlanName: strPtr("Pro")},
			{TenantID: noCycle.ID, BasePrice: 99},
		},
	})

	assert.InDelta(t, 300, metrics[0].MonthlyRecurringRevenue, 1e-9)
	assert.InDelta(t, 200, metrics[1].MonthlyRecurringRevenue, 1e-9)
	assert.InDelta(t, 100, metrics[2].MonthlyRecurringRevenue, 1e-9, "custom price overrides base before normalizing")
	require.NotNil(t, metrics[2].PlanName)
	assert.Equal(t, "Pro", *metrics[2].PlanName)
	assert.InDelta(t, 99, metrics[3].MonthlyRecurringRevenue, 1e-9, "missing cycle is treated as monthly")
	assert.Nil(t, metrics[3].BillingCycle)
}

func TestBuildTenantMetrics_Counts(t *testing.T) {
	tenant := newTenant(1, "counted")
	loc := newLocation(tenant.ID, "US")
	closed := newLocation(tenant.ID, "US")
	closed.IsActive = false

	metrics := buildMetrics(Dataset{
		Tenants:   []models.Tenant{tenant},
		Locations: []models.Location{loc, closed},
		Staff: []models.StaffMembership{
			newStaff(tenant.ID, true, true),
			newStaff(tenant.ID, true, false),
			newStaff(tenant.ID, false, true),
			{UserID: uuid.New()},
		},
		Clients: []models.ClientRecord{
			{ID: uuid.New(), LocationID: idPtr(loc.ID)},
			{ID: uuid.New(), LocationID: idPtr(loc.ID)},
			{ID: uuid.New(), LocationID: idPtr(closed.ID)},
			{ID: uuid.New()},
		},
		Appointments: []models.AppointmentRecord{
			{ID: uuid.New(), LocationID: idPtr(loc.ID)},
			{ID: uuid.New(), LocationID: idPtr(uuid.New())},
		},
	})

	m := metrics[0]
	assert.Equal(t, 1, m.LocationCount)
	assert.Equal(t, 3, m.UserCount)
	assert.Equal(t, 1, m.ActiveUserCount)
	assert.Equal(t, 2, m.ClientCount)
	assert.Equal(t, 1, m.AppointmentCount)
	require.NotNil(t, m.Country)
	assert.Equal(t, "US", *m.Country)
}

func TestBuildTenantMetrics_LocationCountUsesEachRowsOwnFlags(t *testing.T) {
	salon := newTenant(1, "salon")
	other := newTenant(2, "other")

	reopened := newLocation(salon.ID, "")
	closedCopy := reopened
	closedCopy.IsActive = false

	shared := newLocation(salon.ID, "")
	transferred := shared
	transferred.TenantID = idPtr(other.ID)

	metrics := buildMetrics(Dataset{
		Tenants:   []models.Tenant{salon, other},
		Locations: []models.Location{reopened, closedCopy, shared, transferred},
	})

	assert.Equal(t, 2, findMetrics(metrics, salon.ID).LocationCount)
	assert.Equal(t, 1, findMetrics(metrics, other.ID).LocationCount)
}

func TestBuildTenantMetrics_RevenueBuckets(t *testing.T) {
	tenant := newTenant(1, "revenue")
	loc := newLocation(tenant.ID, "")

	rows := []models.DailySalesRollup{
		sale(loc.ID, day(2025, time.March, 1), 100),     // first day of this month
		sale(loc.ID, day(2025, time.March, 20), 50),     // later this month
		sale(loc.ID, day(2025, time.February, 1), 40),   // first day of last month
		sale(loc.ID, day(2025, time.February, 28), 60),  // last day of last month
		sale(loc.ID, day(2025, time.January, 31), 1000), // older, lifetime only
	}
	rows[0].ServiceRevenue = 70
	rows[0].ProductRevenue = 30
	rows[0].AverageTicket = floatPtr(40)
	rows[1].AverageTicket = floatPtr(60)

	metrics := buildMetrics(Dataset{
		Tenants:    []models.Tenant{tenant},
		Locations:  []models.Location{loc},
		DailySales: rows,
	})

	m := metrics[0]
	assert.InDelta(t, 1250, m.TotalRevenue, 1e-9)
	assert.InDelta(t, 150, m.RevenueThisMonth, 1e-9)
	assert.InDelta(t, 100, m.RevenueLastMonth, 1e-9)
	assert.InDelta(t, 50, m.RevenueGrowthPercent, 1e-9)
	assert.InDelta(t, 70, m.ServiceRevenue, 1e-9)
	assert.InDelta(t, 30, m.RetailRevenue, 1e-9)
	assert.InDelta(t, 50, m.AverageTicket, 1e-9)
}

func TestBuildTenantMetrics_RevenueAcrossYearBoundary(t *testing.T) {
	tenant := newTenant(1, "new-year")
	loc := newLocation(tenant.ID, "")
	january := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

	metrics := BuildTenantMetrics(Dataset{
		Tenants:   []models.Tenant{tenant},
		Locations: []models.Location{loc},
		DailySales: []models.DailySalesRollup{
			sale(loc.ID, day(2024, time.December, 31), 200),
			sale(loc.ID, day(2024, time.November, 30), 999),
			sale(loc.ID, day(2025, time.January, 2), 100),
		},
	}, BuildIndex([]models.Location{loc}, nil), january)

	assert.InDelta(t, 100, metrics[0].RevenueThisMonth, 1e-9)
	assert.InDelta(t, 200, metrics[0].RevenueLastMonth, 1e-9)
	assert.InDelta(t, -50, metrics[0].RevenueGrowthPercent, 1e-9)
}

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name      string
		thisMonth float64
		lastMonth float64
		want      float64
	}{
		{name: "no revenue either month", thisMonth: 0, lastMonth: 0, want: 0},
		{name: "revenue from nothing reports +100", thisMonth: 500, lastMonth: 0, want: 100},
		{name: "regular growth", thisMonth: 300, lastMonth: 200, want: 50},
		{name: "decline", thisMonth: 100, lastMonth: 200, want: -50},
		{name: "revenue vanished", thisMonth: 0, lastMonth: 200, want: -100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, growthPercent(tc.thisMonth, tc.lastMonth), 1e-9)
		})
	}
}

func TestBuildTenantMetrics_Performance(t *testing.T) {
	tenant := newTenant(1, "performer")
	stylist := newStaff(tenant.ID, true, true)
	colorist := newStaff(tenant.ID, true, true)

	metrics := buildMetrics(Dataset{
		Tenants: []models.Tenant{tenant},
		Staff:   []models.StaffMembership{stylist, colorist},
		Performance: []models.WeeklyPerformanceRollup{
			{UserID: idPtr(stylist.UserID), RebookingRate: floatPtr(60), RetentionRate: floatPtr(80), RetailSales: 50, NewClients: 3, TotalRevenue: 500},
			{UserID: idPtr(colorist.UserID), RebookingRate: floatPtr(40), RetailSales: 50, NewClients: 2, TotalRevenue: 500},
			{UserID: idPtr(uuid.New()), RebookingRate: floatPtr(100), NewClients: 50},
			{RetailSales: 999},
		},
	})

	m := metrics[0]
	assert.InDelta(t, 50, m.AvgRebookingRate, 1e-9)
	assert.InDelta(t, 80, m.AvgRetentionRate, 1e-9, "null rates are left out of the mean")
	assert.InDelta(t, 10, m.AvgRetailAttachmentPercent, 1e-9)
	assert.Equal(t, 5, m.NewClientsThisMonth)
}

func TestBuildTenantMetrics_RetailAttachmentWithoutRevenue(t *testing.T) {
	tenant := newTenant(1, "retail-only")
	staff := newStaff(tenant.ID, true, true)

	metrics := buildMetrics(Dataset{
		Tenants: []models.Tenant{tenant},
		Staff:   []models.StaffMembership{staff},
		Performance: []models.WeeklyPerformanceRollup{
			{UserID: idPtr(staff.UserID), RetailSales: 400, TotalRevenue: 0},
		},
	})

	assert.Zero(t, metrics[0].AvgRetailAttachmentPercent)
	assert.Zero(t, metrics[0].AvgRebookingRate)
	assert.Zero(t, metrics[0].AvgRetentionRate)
}
