package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus is the lifecycle status of a tenant organization
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusTrialing  TenantStatus = "trialing"
	TenantStatusPastDue   TenantStatus = "past_due"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusChurned   TenantStatus = "churned"
)

// Tenant represents a salon business on the platform
type Tenant struct {
	ID               uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name             string       `json:"name" gorm:"not null"`
	Slug             string       `json:"slug" gorm:"uniqueIndex"`
	AccountNumber    int          `json:"account_number" gorm:"not null;index"`
	SubscriptionTier *string      `json:"subscription_tier"`
	Status           TenantStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt        time.Time    `json:"created_at"`
	ActivatedAt      *time.Time   `json:"activated_at"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "organizations"
}

// Location represents a physical salon location owned by a tenant
type Location struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	TenantID    *uuid.UUID `json:"tenant_id" gorm:"column:organization_id;type:uuid;index"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CountryCode *string    `json:"country_code" gorm:"type:varchar(2)"`
}

// TableName returns the table name for the Location model
func (Location) TableName() string {
	return "locations"
}

// BillingCycle is how often a tenant is invoiced
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

// BillingRecord holds the subscription billing terms of a tenant
type BillingRecord struct {
	TenantID     uuid.UUID     `json:"tenant_id" gorm:"column:organization_id;type:uuid;primaryKey"`
	BillingCycle *BillingCycle `json:"billing_cycle" gorm:"type:varchar(20)"`
	BasePrice    float64       `json:"base_price"`
	CustomPrice  *float64      `json:"custom_price"`
	PlanName     *string       `json:"plan_name"`
}

// TableName returns the table name for the BillingRecord model
func (BillingRecord) TableName() string {
	return "organization_billing"
}

// EffectivePrice returns the custom price when one was negotiated, otherwise the base price
func (b *BillingRecord) EffectivePrice() float64 {
	if b.CustomPrice != nil {
		return *b.CustomPrice
	}
	return b.BasePrice
}

// MonthlyPrice normalizes the effective price to one month
func (b *BillingRecord) MonthlyPrice() float64 {
	price := b.EffectivePrice()
	if b.BillingCycle != nil && *b.BillingCycle == BillingCycleAnnual {
		return price / 12
	}
	return price
}
