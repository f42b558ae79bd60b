package scoring

import (
	"time"

	"github.com/safetrack/platform/health-engine/internal/models"
)

// Condition rating lookup table
var conditionScores = map[models.ConditionRating]float64{
	models.ConditionExcellent: 100,
	models.ConditionGood:      80,
	models.ConditionFair:      60,
	models.ConditionPoor:      30,
	models.ConditionCritical:  10,
}

// Criticality level lookup table
var environmentScores = map[models.CriticalityLevel]float64{
	models.CriticalityLow:      100,
	models.CriticalityMedium:   85,
	models.CriticalityHigh:     70,
	models.CriticalityCritical: 55,
}

const (
	// DefaultConditionScore applies when the rating is missing or not in
	// the lookup table. Deliberately lower than "good"; do not unify with
	// the environment default.
	DefaultConditionScore = 70

	// DefaultEnvironmentScore matches the "medium" criticality bucket.
	DefaultEnvironmentScore = 85

	hoursPerYear = 24 * 365.25
)

// AgeFactor scores an asset by consumed fraction of its expected lifespan.
// Missing installation date or lifespan means no age penalty.
func AgeFactor(installationDate *time.Time, expectedLifespanYears *int, now time.Time) float64 {
	if installationDate == nil || expectedLifespanYears == nil || *expectedLifespanYears <= 0 {
		return 100
	}

	ageYears := now.Sub(*installationDate).Hours() / hoursPerYear
	ageRatio := ageYears / float64(*expectedLifespanYears)

	return clamp(100-ageRatio*80, 0, 100)
}

// ConditionFactor maps the inspector-assigned condition rating to a score.
func ConditionFactor(rating models.ConditionRating) float64 {
	if score, ok := conditionScores[rating]; ok {
		return score
	}
	return DefaultConditionScore
}

// ComplianceFactor scores schedule compliance by the overdue ratio of the
// asset's active schedules. No schedules means nothing can be overdue.
func ComplianceFactor(schedules []models.MaintenanceSchedule, now time.Time) float64 {
	if len(schedules) == 0 {
		return 100
	}

	overdue := 0
	for _, s := range schedules {
		if s.NextDueAt != nil && s.NextDueAt.Before(now) {
			overdue++
		}
	}

	overdueRatio := float64(overdue) / float64(len(schedules))
	return clamp(100-overdueRatio*50, 0, 100)
}

// UsageFactor scores reliability by the unplanned share of the most recent
// maintenance history (at most 20 records). The floor of 20 prevents total
// collapse from a single bad streak.
func UsageFactor(history []models.MaintenanceRecord) float64 {
	if len(history) == 0 {
		return 100
	}

	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}

	unplanned := 0
	for _, r := range history {
		if r.Unplanned {
			unplanned++
		}
	}

	unplannedRatio := float64(unplanned) / float64(len(history))
	return clamp(100-unplannedRatio*60, 20, 100)
}

// EnvironmentFactor maps the asset's criticality level to a score.
func EnvironmentFactor(level models.CriticalityLevel) float64 {
	if score, ok := environmentScores[level]; ok {
		return score
	}
	return DefaultEnvironmentScore
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
