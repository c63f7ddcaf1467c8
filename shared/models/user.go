package models

import (
	"github.com/google/uuid"
)

// StaffMembership links a staff member to the tenant they work for
type StaffMembership struct {
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;primaryKey"`
	TenantID   *uuid.UUID `json:"tenant_id" gorm:"column:organization_id;type:uuid;index"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	IsApproved bool       `json:"is_approved" gorm:"default:false"`
}

// TableName returns the table name for the StaffMembership model
func (StaffMembership) TableName() string {
	return "employee_profiles"
}

// IsWorking reports whether the staff member counts as an active user
func (s *StaffMembership) IsWorking() bool {
	return s.IsActive && s.IsApproved
}

type UserRole string

const (
	RolePlatformAdmin UserRole = "admin"
	RoleUser          UserRole = "user"
)

// UserInfo represents user information from JWT claims
type UserInfo struct {
	CognitoID string     `json:"cognito_id"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
}
