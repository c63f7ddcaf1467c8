package main

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pavitra93/salon-platform-analytics/shared/models"
)

// Repository loads the raw row sets of one analytics run
type Repository interface {
	Tenants(ctx context.Context) ([]models.Tenant, error)
	Locations(ctx context.Context) ([]models.Location, error)
	Staff(ctx context.Context) ([]models.StaffMembership, error)
	Billing(ctx context.Context) ([]models.BillingRecord, error)
	Clients(ctx context.Context) ([]models.ClientRecord, error)
	Appointments(ctx context.Context) ([]models.AppointmentRecord, error)
	DailySales(ctx context.Context) ([]models.DailySalesRollup, error)
	Performance(ctx context.Context, since time.Time) ([]models.WeeklyPerformanceRollup, error)
	Ping(ctx context.Context) error
}

// GormRepository reads analytics rows from Postgres
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Tenants returns every tenant ordered by account number
func (r *GormRepository) Tenants(ctx context.Context) ([]models.Tenant, error) {
	var tenants []models.Tenant
	if err := r.db.WithContext(ctx).Order("account_number ASC").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to load tenants: %w", err)
	}
	return tenants, nil
}

func (r *GormRepository) Locations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.WithContext(ctx).Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	return locations, nil
}

func (r *GormRepository) Staff(ctx context.Context) ([]models.StaffMembership, error) {
	var staff []models.StaffMembership
	if err := r.db.WithContext(ctx).Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to load staff memberships: %w", err)
	}
	return staff, nil
}

func (r *GormRepository) Billing(ctx context.Context) ([]models.BillingRecord, error) {
	var billing []models.BillingRecord
	if err := r.db.WithContext(ctx).Find(&billing).Error; err != nil {
		return nil, fmt.Errorf("failed to load billing records: %w", err)
	}
	return billing, nil
}

// Clients only selects the columns needed for routing
func (r *GormRepository) Clients(ctx context.Context) ([]models.ClientRecord, error) {
	var clients []models.ClientRecord
	if err := r.db.WithContext(ctx).Select("id", "location_id").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	return clients, nil
}

func (r *GormRepository) Appointments(ctx context.Context) ([]models.AppointmentRecord, error) {
	var appointments []models.AppointmentRecord
	if err := r.db.WithContext(ctx).Select("id", "location_id").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return appointments, nil
}

// DailySales returns the whole sales history, lifetime revenue needs every row
func (r *GormRepository) DailySales(ctx context.Context) ([]models.DailySalesRollup, error) {
	var rows []models.DailySalesRollup
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load daily sales: %w", err)
	}
	return rows, nil
}

// Performance returns the weekly rollups starting on or after since
func (r *GormRepository) Performance(ctx context.Context, since time.Time) ([]models.WeeklyPerformanceRollup, error) {
	var rows []models.WeeklyPerformanceRollup
	err := r.db.WithContext(ctx).
		Where("week_start >= ?", since.Format("2006-01-02")).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load performance rollups: %w", err)
	}
	return rows, nil
}

// Ping checks the database connection
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
