package analytics

import (
	"github.com/google/uuid"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

// Index routes rows that carry a location or staff id to the tenant owning them.
// It is built once per run and only read afterwards.
type Index struct {
	locationTenant map[uuid.UUID]uuid.UUID
	staffTenant    map[uuid.UUID]uuid.UUID
	tenantCountry  map[uuid.UUID]string
}

// BuildIndex builds the location and staff association tables.
// Inactive locations and rows without a tenant are left out. The first
// country code seen among a tenant's active locations becomes its country.
func BuildIndex(locations []models.Location, staff []models.StaffMembership) *Index {
	idx := &Index{
		locationTenant: make(map[uuid.UUID]uuid.UUID, len(locations)),
		staffTenant:    make(map[uuid.UUID]uuid.UUID, len(staff)),
		tenantCountry:  make(map[uuid.UUID]string),
	}

	for _, loc := range locations {
		if !loc.IsActive || loc.TenantID == nil {
			continue
		}
		tenantID := *loc.TenantID
		idx.locationTenant[loc.ID] = tenantID

		if loc.CountryCode == nil || *loc.CountryCode == "" {
			continue
		}
		if _, seen := idx.tenantCountry[tenantID]; !seen {
			idx.tenantCountry[tenantID] = *loc.CountryCode
		}
	}

	// Active/approved flags are left to the reducer.
	for _, member := range staff {
		if member.UserID == uuid.Nil || member.TenantID == nil {
			continue
		}
		idx.staffTenant[member.UserID] = *member.TenantID
	}

	return idx
}

// TenantForLocation returns the tenant owning an active location
func (idx *Index) TenantForLocation(locationID *uuid.UUID) (uuid.UUID, bool) {
	if locationID == nil {
		return uuid.Nil, false
	}
	tenantID, ok := idx.locationTenant[*locationID]
	return tenantID, ok
}

// TenantForStaff returns the tenant a staff member belongs to
func (idx *Index) TenantForStaff(userID *uuid.UUID) (uuid.UUID, bool) {
	if userID == nil {
		return uuid.Nil, false
	}
	tenantID, ok := idx.staffTenant[*userID]
	return tenantID, ok
}

// CountryForTenant returns the first country code recorded for the tenant
func (idx *Index) CountryForTenant(tenantID uuid.UUID) (string, bool) {
	country, ok := idx.tenantCountry[tenantID]
	return country, ok
}
