package scoring

import (
	"encoding/json"
	"math"
	"time"

	"github.com/safetrack/platform/health-engine/internal/models"
)

// Factor weights; must sum to 1.0
const (
	AgeWeight         = 0.25
	ConditionWeight   = 0.30
	MaintenanceWeight = 0.20
	UsageWeight       = 0.15
	EnvironmentWeight = 0.10

	MinScore = 0
	MaxScore = 100

	// HistoryLimit is the number of most recent maintenance records that
	// feed usage and trend calculations.
	HistoryLimit = 20

	// ModelVersion tags every computed HealthScore row.
	ModelVersion = "v1.2.0"

	trendWindow = 5
	trendDelta  = 5.0
)

// Engine computes asset health scores
type Engine struct {
	now func() time.Time
}

// NewEngine creates a new scoring engine
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

type breakdownEntry struct {
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Calculate computes the health score for one asset from its record, its
// most recent maintenance history (newest first, at most HistoryLimit
// records) and its active schedules.
func (e *Engine) Calculate(
	asset *models.Asset,
	history []models.MaintenanceRecord,
	schedules []models.MaintenanceSchedule,
) *models.HealthScore {
	now := e.now()

	ageFactor := AgeFactor(asset.InstallationDate, asset.ExpectedLifespanYears, now)
	conditionFactor := ConditionFactor(asset.ConditionRating)
	maintenanceFactor := ComplianceFactor(schedules, now)
	usageFactor := UsageFactor(history)
	environmentFactor := EnvironmentFactor(asset.CriticalityLevel)

	ageContrib := ageFactor * AgeWeight
	conditionContrib := conditionFactor * ConditionWeight
	maintenanceContrib := maintenanceFactor * MaintenanceWeight
	usageContrib := usageFactor * UsageWeight
	environmentContrib := environmentFactor * EnvironmentWeight

	score := int(math.Round(ageContrib + conditionContrib + maintenanceContrib + usageContrib + environmentContrib))
	if score < MinScore {
		score = MinScore
	}
	if score > MaxScore {
		score = MaxScore
	}

	// Marshal of a map of plain floats cannot fail.
	breakdown, _ := json.Marshal(map[string]breakdownEntry{
		"age":         {Value: ageFactor, Weight: AgeWeight, Contribution: ageContrib},
		"condition":   {Value: conditionFactor, Weight: ConditionWeight, Contribution: conditionContrib},
		"maintenance": {Value: maintenanceFactor, Weight: MaintenanceWeight, Contribution: maintenanceContrib},
		"usage":       {Value: usageFactor, Weight: UsageWeight, Contribution: usageContrib},
		"environment": {Value: environmentFactor, Weight: EnvironmentWeight, Contribution: environmentContrib},
	})

	return &models.HealthScore{
		AssetID:                   asset.ID,
		TenantID:                  asset.TenantID,
		Score:                     score,
		RiskLevel:                 RiskLevelForScore(score),
		AgeFactor:                 ageFactor,
		AgeContribution:           ageContrib,
		ConditionFactor:           conditionFactor,
		ConditionContribution:     conditionContrib,
		MaintenanceFactor:         maintenanceFactor,
		MaintenanceContribution:   maintenanceContrib,
		UsageFactor:               usageFactor,
		UsageContribution:         usageContrib,
		EnvironmentFactor:         environmentFactor,
		EnvironmentContribution:   environmentContrib,
		MaintenanceCompliancePct:  maintenanceFactor,
		FailureProbability:        FailureProbability(score),
		DaysUntilPredictedFailure: e.predictDaysUntilFailure(asset, score, now),
		Trend:                     TrendFromHistory(history),
		FactorBreakdown:           string(breakdown),
		LastCalculatedAt:          now,
		ModelVersion:              ModelVersion,
	}
}

// RiskLevelForScore maps a composite score to its risk tier. Lower bounds
// win: <40 critical, <55 high, <70 medium, otherwise low.
func RiskLevelForScore(score int) models.RiskLevel {
	switch {
	case score < 40:
		return models.RiskCritical
	case score < 55:
		return models.RiskHigh
	case score < 70:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// FailureProbability is the complement of the score scaled to [0,1].
func FailureProbability(score int) float64 {
	return clamp(float64(100-score), 0, 100) / 100
}

// predictDaysUntilFailure estimates calendar days until failure, pulled
// closer by a lower health score. Nil when lifespan inputs are missing.
func (e *Engine) predictDaysUntilFailure(asset *models.Asset, score int, now time.Time) *int {
	if asset.InstallationDate == nil || asset.ExpectedLifespanYears == nil {
		return nil
	}

	expectedEnd := asset.InstallationDate.AddDate(*asset.ExpectedLifespanYears, 0, 0)
	daysRemaining := expectedEnd.Sub(now).Hours() / 24
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	days := int(math.Round(daysRemaining * float64(score) / 100))
	return &days
}

// TrendFromHistory classifies the direction of recent post-maintenance
// conditions. History must be newest first. It takes the most recent
// condition-bearing records (at most trendWindow) and compares the average
// of the two newest against the average of the two oldest of that slice.
func TrendFromHistory(history []models.MaintenanceRecord) models.Trend {
	var values []float64
	for _, r := range history {
		if r.PostCondition == nil {
			continue
		}
		values = append(values, ConditionFactor(*r.PostCondition))
		if len(values) == trendWindow {
			break
		}
	}

	if len(values) < 2 {
		return models.TrendStable
	}

	recentAvg := (values[0] + values[1]) / 2
	olderAvg := (values[len(values)-2] + values[len(values)-1]) / 2

	switch diff := recentAvg - olderAvg; {
	case diff > trendDelta:
		return models.TrendImproving
	case diff < -trendDelta:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}
