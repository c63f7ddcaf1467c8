package analytics

import (
	"sort"
	"time"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

const (
	unknownCountryLabel = "Unknown"
	noPlanLabel         = "No Plan"
)

// BuildPlatformSummary reduces the per-tenant metrics into platform-wide figures.
// now is recorded as GeneratedAt and sets the time zone of the cohort months.
func BuildPlatformSummary(metrics []TenantMetrics, now time.Time) PlatformSummary {
	summary := PlatformSummary{
		GeneratedAt:  now,
		TotalTenants: len(metrics),
		Tenants:      metrics,
	}
	if summary.Tenants == nil {
		summary.Tenants = []TenantMetrics{}
	}

	var transacting []TenantMetrics
	for _, m := range metrics {
		if m.Status == models.TenantStatusActive {
			summary.ActiveTenants++
		}
		summary.TotalLocations += m.LocationCount
		summary.TotalUsers += m.UserCount
		summary.ActiveUsers += m.ActiveUserCount
		summary.TotalClients += m.ClientCount
		summary.TotalAppointments += m.AppointmentCount
		summary.CombinedMonthlyRevenue += m.RevenueThisMonth
		summary.CombinedLastMonthRevenue += m.RevenueLastMonth
		summary.PlatformMRR += m.MonthlyRecurringRevenue

		// Tenants that never transacted would drag the per-tenant average toward zero.
		if m.TotalRevenue != 0 {
			transacting = append(transacting, m)
		}
	}

	summary.PlatformARR = summary.PlatformMRR * 12
	summary.AverageRevenuePerTenant = averageOf(transacting, func(m TenantMetrics) float64 { return m.RevenueThisMonth })
	if summary.TotalLocations > 0 {
		summary.AverageRevenuePerLocation = summary.CombinedMonthlyRevenue / float64(summary.TotalLocations)
	}

	// One gate selects the tenants for all four performance averages, so a
	// tenant without rebooking data is left out of the ticket average too.
	performers := filterMetrics(metrics, hasPerformanceData)
	summary.AvgRebookingRate = averageOf(performers, func(m TenantMetrics) float64 { return m.AvgRebookingRate })
	summary.AvgRetentionRate = averageOf(performers, func(m TenantMetrics) float64 { return m.AvgRetentionRate })
	summary.AvgTicket = averageOf(performers, func(m TenantMetrics) float64 { return m.AverageTicket })
	summary.AvgRetailAttachment = averageOf(performers, func(m TenantMetrics) float64 { return m.AvgRetailAttachmentPercent })

	summary.CountryDistribution = countryDistribution(metrics)
	summary.StatusDistribution = statusDistribution(metrics)
	summary.TierDistribution = tierDistribution(metrics)
	summary.MonthlyGrowth = monthlyGrowth(metrics, now.Location())

	return summary
}

// hasPerformanceData is the gate shared by every platform performance average
func hasPerformanceData(m TenantMetrics) bool {
	return m.AvgRebookingRate > 0
}

func filterMetrics(metrics []TenantMetrics, keep func(TenantMetrics) bool) []TenantMetrics {
	var out []TenantMetrics
	for _, m := range metrics {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func averageOf(metrics []TenantMetrics, value func(TenantMetrics) float64) float64 {
	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	for _, m := range metrics {
		sum += value(m)
	}
	return sum / float64(len(metrics))
}

// tally groups tenants by key while remembering first-seen order for stable ties
type tally struct {
	keys    []string
	entries map[string]*TierDistributionEntry
}

func newTally() *tally {
	return &tally{entries: make(map[string]*TierDistributionEntry)}
}

func (t *tally) add(key string, mrr float64) {
	entry, ok := t.entries[key]
	if !ok {
		entry = &TierDistributionEntry{Key: key}
		t.entries[key] = entry
		t.keys = append(t.keys, key)
	}
	entry.Count++
	entry.MRR += mrr
}

func (t *tally) tierEntries() []TierDistributionEntry {
	out := make([]TierDistributionEntry, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, *t.entries[key])
	}
	return out
}

func (t *tally) byCount() []DistributionEntry {
	out := make([]DistributionEntry, 0, len(t.keys))
	for _, key := range t.keys {
		entry := t.entries[key]
		out = append(out, DistributionEntry{Key: entry.Key, Count: entry.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func labelOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func countryDistribution(metrics []TenantMetrics) []DistributionEntry {
	t := newTally()
	for _, m := range metrics {
		t.add(labelOr(m.Country, unknownCountryLabel), 0)
	}
	return t.byCount()
}

func statusDistribution(metrics []TenantMetrics) []DistributionEntry {
	t := newTally()
	for _, m := range metrics {
		t.add(string(m.Status), 0)
	}
	return t.byCount()
}

func tierDistribution(metrics []TenantMetrics) []TierDistributionEntry {
	t := newTally()
	for _, m := range metrics {
		t.add(labelOr(m.SubscriptionTier, noPlanLabel), m.MonthlyRecurringRevenue)
	}
	out := t.tierEntries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].MRR > out[j].MRR })
	return out
}

// monthlyGrowth buckets tenants by the month they were created in
func monthlyGrowth(metrics []TenantMetrics, loc *time.Location) []GrowthPoint {
	buckets := make(map[string]*GrowthPoint)
	for _, m := range metrics {
		if m.CreatedAt.IsZero() {
			continue
		}
		key := monthKey(m.CreatedAt, loc)
		point, ok := buckets[key]
		if !ok {
			point = &GrowthPoint{Month: key}
			buckets[key] = point
		}
		point.Tenants++
		point.Locations += m.LocationCount
		point.Users += m.UserCount
	}

	out := make([]GrowthPoint, 0, len(buckets))
	for _, point := range buckets {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
