package models

import (
	"time"
)

// RiskLevel is the four-tier classification derived from the health score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Trend classifies the direction of recent post-maintenance conditions.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// HealthScore is the computed health record for one asset, one row per
// asset, replaced on every recalculation.
type HealthScore struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AssetID  string `gorm:"uniqueIndex;not null" json:"asset_id"`
	TenantID string `gorm:"index;not null" json:"tenant_id"`

	Score     int       `gorm:"not null" json:"score"` // 0-100
	RiskLevel RiskLevel `gorm:"not null" json:"risk_level"`

	AgeFactor               float64 `json:"age_factor"`
	AgeContribution         float64 `json:"age_contribution"`
	ConditionFactor         float64 `json:"condition_factor"`
	ConditionContribution   float64 `json:"condition_contribution"`
	MaintenanceFactor       float64 `json:"maintenance_factor"`
	MaintenanceContribution float64 `json:"maintenance_contribution"`
	UsageFactor             float64 `json:"usage_factor"`
	UsageContribution       float64 `json:"usage_contribution"`
	EnvironmentFactor       float64 `json:"environment_factor"`
	EnvironmentContribution float64 `json:"environment_contribution"`

	MaintenanceCompliancePct  float64 `json:"maintenance_compliance_pct"`
	FailureProbability        float64 `json:"failure_probability"` // 0.0-1.0
	DaysUntilPredictedFailure *int    `json:"days_until_predicted_failure,omitempty"`
	Trend                     Trend   `json:"trend"`
	FactorBreakdown           string  `json:"factor_breakdown"` // serialized JSON

	LastCalculatedAt time.Time `gorm:"not null" json:"last_calculated_at"`
	ModelVersion     string    `gorm:"not null" json:"model_version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AlertDispatch records one per-tenant alert delivery attempt
type AlertDispatch struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RunID         string    `gorm:"index" json:"run_id"`
	TenantID      string    `gorm:"index;not null" json:"tenant_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CriticalCount int       `json:"critical_count"`
	HighCount     int       `json:"high_count"`
	Status        string    `gorm:"default:'pending'" json:"status"` // sent/failed/skipped
	ErrorMessage  string    `json:"error_message"`
	CreatedAt     time.Time `json:"created_at"`
}
