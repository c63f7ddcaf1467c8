package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

// Dataset holds the raw row sets an analytics run is computed from.
// Rows are expected to be already scoped to what the caller may see.
type Dataset struct {
	Tenants      []models.Tenant
	Locations    []models.Location
	Staff        []models.StaffMembership
	Billing      []models.BillingRecord
	Clients      []models.ClientRecord
	Appointments []models.AppointmentRecord
	DailySales   []models.DailySalesRollup
	Performance  []models.WeeklyPerformanceRollup
}

// TenantMetrics is the per-tenant result of one analytics run.
// Numeric fields are always populated, zero when a tenant has no matching rows.
type TenantMetrics struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	AccountNumber    int                 `json:"accountNumber"`
	Status           models.TenantStatus `json:"status"`
	SubscriptionTier *string             `json:"subscriptionTier"`
	Country          *string             `json:"country"`
	CreatedAt        time.Time           `json:"createdAt"`
	ActivatedAt      *time.Time          `json:"activatedAt"`

	LocationCount    int `json:"locationCount"`
	UserCount        int `json:"userCount"`
	ActiveUserCount  int `json:"activeUserCount"`
	ClientCount      int `json:"clientCount"`
	AppointmentCount int `json:"appointmentCount"`

	TotalRevenue         float64 `json:"totalRevenue"`
	RevenueThisMonth     float64 `json:"revenueThisMonth"`
	RevenueLastMonth     float64 `json:"revenueLastMonth"`
	RevenueGrowthPercent float64 `json:"revenueGrowthPercent"`
	AverageTicket        float64 `json:"averageTicket"`
	ServiceRevenue       float64 `json:"serviceRevenue"`
	RetailRevenue        float64 `json:"retailRevenue"`

	AvgRebookingRate           float64 `json:"avgRebookingRate"`
	AvgRetentionRate           float64 `json:"avgRetentionRate"`
	AvgRetailAttachmentPercent float64 `json:"avgRetailAttachmentPercent"`
	// NewClientsThisMonth sums every performance row supplied for the tenant,
	// so it covers the whole fetched window rather than the calendar month.
	NewClientsThisMonth int `json:"newClientsThisMonth"`

	MonthlyRecurringRevenue float64              `json:"monthlyRecurringRevenue"`
	BillingCycle            *models.BillingCycle `json:"billingCycle"`
	PlanName                *string              `json:"planName"`
}

// DistributionEntry counts tenants sharing one categorical value
type DistributionEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TierDistributionEntry counts tenants on one subscription tier along with the MRR they bring
type TierDistributionEntry struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	MRR   float64 `json:"mrr"`
}

// GrowthPoint describes the cohort of tenants created in one calendar month.
// Locations and Users are the cohort's current totals, not what was added that month.
type GrowthPoint struct {
	Month     string `json:"month"`
	Tenants   int    `json:"tenants"`
	Locations int    `json:"locations"`
	Users     int    `json:"users"`
}

// PlatformSummary aggregates every tenant's metrics into platform-wide figures
type PlatformSummary struct {
	GeneratedAt time.Time `json:"generatedAt"`

	TotalTenants      int `json:"totalTenants"`
	ActiveTenants     int `json:"activeTenants"`
	TotalLocations    int `json:"totalLocations"`
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	TotalClients      int `json:"totalClients"`
	TotalAppointments int `json:"totalAppointments"`

	CombinedMonthlyRevenue    float64 `json:"combinedMonthlyRevenue"`
	CombinedLastMonthRevenue  float64 `json:"combinedLastMonthRevenue"`
	AverageRevenuePerTenant   float64 `json:"averageRevenuePerTenant"`
	AverageRevenuePerLocation float64 `json:"averageRevenuePerLocation"`
	PlatformMRR               float64 `json:"platformMrr"`
	PlatformARR               float64 `json:"platformArr"`

	AvgRebookingRate    float64 `json:"avgRebookingRate"`
	AvgRetentionRate    float64 `json:"avgRetentionRate"`
	AvgTicket           float64 `json:"avgTicket"`
	AvgRetailAttachment float64 `json:"avgRetailAttachment"`

	CountryDistribution []DistributionEntry     `json:"countryDistribution"`
	StatusDistribution  []DistributionEntry     `json:"statusDistribution"`
	TierDistribution    []TierDistributionEntry `json:"tierDistribution"`
	MonthlyGrowth       []GrowthPoint           `json:"monthlyGrowth"`

	Tenants []TenantMetrics `json:"tenants"`
}

// Report is the full output of one analytics run
type Report struct {
	Summary      PlatformSummary `json:"summary"`
	Leaderboards Leaderboards    `json:"leaderboards"`
}
