package models

import (
	"time"

	"gorm.io/gorm"
)

// ConditionRating is the inspector-assigned condition of an asset.
type ConditionRating string

const (
	ConditionExcellent ConditionRating = "excellent"
	ConditionGood      ConditionRating = "good"
	ConditionFair      ConditionRating = "fair"
	ConditionPoor      ConditionRating = "poor"
	ConditionCritical  ConditionRating = "critical"
)

// CriticalityLevel is how critical the asset is to site operations.
type CriticalityLevel string

const (
	CriticalityLow      CriticalityLevel = "low"
	CriticalityMedium   CriticalityLevel = "medium"
	CriticalityHigh     CriticalityLevel = "high"
	CriticalityCritical CriticalityLevel = "critical"
)

// AssetStatusActive is the only status eligible for health scoring.
const AssetStatusActive = "active"

// Asset represents a physical asset tracked for maintenance and safety
type Asset struct {
	ID                    string           `gorm:"primaryKey" json:"id"`
	TenantID              string           `gorm:"index;not null" json:"tenant_id"`
	Name                  string           `gorm:"not null" json:"name"`
	InstallationDate      *time.Time       `json:"installation_date"`
	WarrantyExpiry        *time.Time       `json:"warranty_expiry"`
	ConditionRating       ConditionRating  `json:"condition_rating"`
	CriticalityLevel      CriticalityLevel `json:"criticality_level"`
	ExpectedLifespanYears *int             `json:"expected_lifespan_years"`
	BookValue             float64          `json:"book_value"`
	PurchaseCost          float64          `json:"purchase_cost"`
	Status                string           `gorm:"index;default:'active'" json:"status"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
	DeletedAt             gorm.DeletedAt   `gorm:"index" json:"-"`
}

// MaintenanceRecord is one completed maintenance event on an asset
type MaintenanceRecord struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	AssetID         string           `gorm:"index;not null" json:"asset_id"`
	PerformedAt     time.Time        `gorm:"not null;index" json:"performed_at"`
	MaintenanceType string           `json:"maintenance_type"`
	Unplanned       bool             `json:"unplanned"`
	PostCondition   *ConditionRating `json:"post_condition"`
	CreatedAt       time.Time        `json:"created_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// MaintenanceSchedule is a recurring maintenance plan for an asset
type MaintenanceSchedule struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AssetID         string         `gorm:"index;not null" json:"asset_id"`
	NextDueAt       *time.Time     `json:"next_due_at"`
	LastPerformedAt *time.Time     `json:"last_performed_at"`
	Active          bool           `gorm:"default:true" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// User is a platform user; managers of a tenant receive asset risk alerts
type User struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	TenantID  string         `gorm:"index;not null" json:"tenant_id"`
	Email     string         `gorm:"not null" json:"email"`
	Role      string         `gorm:"index" json:"role"` // manager/admin/staff
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
