package aggregator

import (
	"github.com/safetrack/platform/health-engine/internal/models"
)

// GroupCriticalByTenant filters the run outcomes to successful assets at
// high or critical risk and groups them by tenant.
func GroupCriticalByTenant(outcomes []models.ScoreOutcome) map[string][]models.CriticalAsset {
	grouped := make(map[string][]models.CriticalAsset)

	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		if o.RiskLevel != models.RiskHigh && o.RiskLevel != models.RiskCritical {
			continue
		}

		grouped[o.TenantID] = append(grouped[o.TenantID], models.CriticalAsset{
			ID:        o.AssetID,
			Name:      o.AssetName,
			Score:     o.Score,
			RiskLevel: o.RiskLevel,
			TenantID:  o.TenantID,
		})
	}

	return grouped
}

// Flatten returns the grouped critical assets as a single list.
func Flatten(grouped map[string][]models.CriticalAsset) []models.CriticalAsset {
	var all []models.CriticalAsset
	for _, assets := range grouped {
		all = append(all, assets...)
	}
	return all
}
