package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientRecord is a salon client registered at a location
type ClientRecord struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	LocationID *uuid.UUID `json:"location_id" gorm:"type:uuid;index"`
}

// TableName returns the table name for the ClientRecord model
func (ClientRecord) TableName() string {
	return "clients"
}

// AppointmentRecord is a booked appointment at a location
type AppointmentRecord struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	LocationID *uuid.UUID `json:"location_id" gorm:"type:uuid;index"`
}

// TableName returns the table name for the AppointmentRecord model
func (AppointmentRecord) TableName() string {
	return "appointments"
}

// DailySalesRollup is the pre-aggregated sales of one location on one day
type DailySalesRollup struct {
	LocationID     *uuid.UUID `json:"location_id" gorm:"type:uuid;index"`
	SummaryDate    time.Time  `json:"summary_date" gorm:"type:date;index"`
	TotalRevenue   float64    `json:"total_revenue"`
	ServiceRevenue float64    `json:"service_revenue"`
	ProductRevenue float64    `json:"product_revenue"`
	AverageTicket  *float64   `json:"average_ticket"`
}

// TableName returns the table name for the DailySalesRollup model
func (DailySalesRollup) TableName() string {
	return "sales_daily_summary"
}

// WeeklyPerformanceRollup is the pre-aggregated performance of one staff member for one week
type WeeklyPerformanceRollup struct {
	UserID        *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	WeekStart     time.Time  `json:"week_start" gorm:"type:date;index"`
	RebookingRate *float64   `json:"rebooking_rate"`
	RetentionRate *float64   `json:"retention_rate"`
	RetailSales   float64    `json:"retail_sales"`
	NewClients    int        `json:"new_clients"`
	TotalRevenue  float64    `json:"total_revenue"`
}

// TableName returns the table name for the WeeklyPerformanceRollup model
func (WeeklyPerformanceRollup) TableName() string {
	return "staff_performance_weekly"
}
