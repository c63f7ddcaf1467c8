package analytics

import "sort"

// DefaultLeaderboardSize is how many tenants a leaderboard keeps
const DefaultLeaderboardSize = 10

// Selector is a filter, sort and top-N slice over the per-tenant metrics
type Selector struct {
	Name       string
	Filter     func(TenantMetrics) bool // nil keeps every tenant
	Key        func(TenantMetrics) float64
	Descending bool
	Limit      int
}

// Select ranks the metrics without reordering the input. Ties keep input order.
func (s Selector) Select(metrics []TenantMetrics) []TenantMetrics {
	ranked := make([]TenantMetrics, 0, len(metrics))
	for _, m := range metrics {
		if s.Filter == nil || s.Filter(m) {
			ranked = append(ranked, m)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if s.Descending {
			return s.Key(ranked[i]) > s.Key(ranked[j])
		}
		return s.Key(ranked[i]) < s.Key(ranked[j])
	})

	if s.Limit > 0 && len(ranked) > s.Limit {
		ranked = ranked[:s.Limit]
	}
	return ranked
}

// WithLimit returns a copy of the selector keeping at most n tenants
func (s Selector) WithLimit(n int) Selector {
	s.Limit = n
	return s
}

var (
	RevenueLeaderboard = Selector{
		Name:       "revenue",
		Key:        func(m TenantMetrics) float64 { return m.RevenueThisMonth },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
	SizeLeaderboard = Selector{
		Name:       "size",
		Key:        func(m TenantMetrics) float64 { return float64(m.LocationCount + m.UserCount) },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
	GrowthLeaderboard = Selector{
		Name:       "growth",
		Filter:     func(m TenantMetrics) bool { return m.RevenueGrowthPercent != 0 },
		Key:        func(m TenantMetrics) float64 { return m.RevenueGrowthPercent },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
	PerformanceLeaderboard = Selector{
		Name:       "performance",
		Filter:     func(m TenantMetrics) bool { return m.AvgRebookingRate != 0 || m.AvgRetentionRate != 0 },
		Key:        func(m TenantMetrics) float64 { return m.AvgRebookingRate + m.AvgRetentionRate },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
	NewClientsLeaderboard = Selector{
		Name:       "new-clients",
		Key:        func(m TenantMetrics) float64 { return float64(m.NewClientsThisMonth) },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
	RetailLeaderboard = Selector{
		Name:       "retail",
		Filter:     func(m TenantMetrics) bool { return m.AvgRetailAttachmentPercent > 0 },
		Key:        func(m TenantMetrics) float64 { return m.AvgRetailAttachmentPercent },
		Descending: true,
		Limit:      DefaultLeaderboardSize,
	}
)

// Selectors lists every leaderboard in display order
var Selectors = []Selector{
	RevenueLeaderboard,
	SizeLeaderboard,
	GrowthLeaderboard,
	PerformanceLeaderboard,
	NewClientsLeaderboard,
	RetailLeaderboard,
}

// SelectorByName looks a leaderboard up by its URL name
func SelectorByName(name string) (Selector, bool) {
	for _, s := range Selectors {
		if s.Name == name {
			return s, true
		}
	}
	return Selector{}, false
}

// Leaderboards holds the six ranking views of one run
type Leaderboards struct {
	ByRevenue     []TenantMetrics `json:"byRevenue"`
	BySize        []TenantMetrics `json:"bySize"`
	ByGrowth      []TenantMetrics `json:"byGrowth"`
	ByPerformance []TenantMetrics `json:"byPerformance"`
	ByNewClients  []TenantMetrics `json:"byNewClients"`
	ByRetail      []TenantMetrics `json:"byRetail"`
}

// BuildLeaderboards runs every selector over the metrics
func BuildLeaderboards(metrics []TenantMetrics) Leaderboards {
	return Leaderboards{
		ByRevenue:     RevenueLeaderboard.Select(metrics),
		BySize:        SizeLeaderboard.Select(metrics),
		ByGrowth:      GrowthLeaderboard.Select(metrics),
		ByPerformance: PerformanceLeaderboard.Select(metrics),
		ByNewClients:  NewClientsLeaderboard.Select(metrics),
		ByRetail:      RetailLeaderboard.Select(metrics),
	}
}
