// Package analytics computes platform-wide tenant analytics from row sets
// that were already fetched and authorized by the caller. It performs no I/O
// and keeps no state between calls, so concurrent runs need no locking.
package analytics

import "time"

// Compute runs one analytics pass: index, per-tenant metrics, platform summary
// and leaderboards. now is the reference instant for every calendar boundary.
func Compute(data Dataset, now time.Time) *Report {
	idx := BuildIndex(data.Locations, data.Staff)
	metrics := BuildTenantMetrics(data, idx, now)

	return &Report{
		Summary:      BuildPlatformSummary(metrics, now),
		Leaderboards: BuildLeaderboards(metrics),
	}
}

// Tenant returns the metrics of one tenant from the report
func (r *Report) Tenant(slugOrID string) (TenantMetrics, bool) {
	for _, m := range r.Summary.Tenants {
		if m.ID.String() == slugOrID || m.Slug == slugOrID {
			return m, true
		}
	}
	return TenantMetrics{}, false
}
