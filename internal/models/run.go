package models

import "time"

// ScoreOutcome is the per-asset result of one calculation: either a
// success carrying the score and tier, or a failure carrying the error.
type ScoreOutcome struct {
	AssetID   string
	AssetName string
	TenantID  string
	Score     int
	RiskLevel RiskLevel
	Err       error
}

// Failed reports whether the calculation for this asset failed.
func (o ScoreOutcome) Failed() bool {
	return o.Err != nil
}

// CriticalAsset is one at-risk asset as surfaced in alerts and summaries.
type CriticalAsset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	RiskLevel RiskLevel `json:"risk_level"`
	TenantID  string    `json:"tenant_id"`
}

// AlertEvent is the structured per-tenant alert handed to the notifier.
type AlertEvent struct {
	TenantID   string          `json:"tenant_id"`
	Title      string          `json:"title"`
	Body       string          `json:"body"`
	Recipients []string        `json:"recipients"`
	Assets     []CriticalAsset `json:"assets"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DispatchStatus is the per-tenant delivery result of one alert.
type DispatchStatus struct {
	TenantID string `json:"tenant_id"`
	Status   string `json:"status"` // sent/failed/skipped
	Error    string `json:"error,omitempty"`
}

// RunSummary is the engine's return value for one full scoring pass.
type RunSummary struct {
	RunID           string           `json:"run_id"`
	TotalProcessed  int              `json:"total_processed"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	CriticalAssets  int              `json:"critical_assets"`
	HighRiskAssets  int              `json:"high_risk_assets"`
	ExecutionTimeMS int64            `json:"execution_time_ms"`
	CriticalList    []CriticalAsset  `json:"critical_list"`
	Dispatches      []DispatchStatus `json:"dispatches"`
	StartedAt       time.Time        `json:"started_at"`
}
