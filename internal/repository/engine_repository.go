package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/safetrack/platform/health-engine/internal/models"
	"gorm.io/gorm"
)

// ErrAssetNotFound is returned when an asset in the roster has vanished
// by the time its detail is fetched (soft-deleted concurrently, etc.).
var ErrAssetNotFound = errors.New("asset not found")

// EngineRepository handles database operations for the scoring engine
type EngineRepository struct {
	db *gorm.DB
}

// NewEngineRepository creates a new engine repository
func NewEngineRepository(db *gorm.DB) *EngineRepository {
	return &EngineRepository{db: db}
}

// ListActiveAssets retrieves every active, non-deleted asset across all
// tenants, ordered by tenant for later grouping.
func (r *EngineRepository) ListActiveAssets(ctx context.Context) ([]*models.Asset, error) {
	var assets []*models.Asset
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AssetStatusActive).
		Order("tenant_id ASC, id ASC").
		Find(&assets).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list active assets: %w", err)
	}

	return assets, nil
}

// GetAsset retrieves one active asset by id
func (r *EngineRepository) GetAsset(ctx context.Context, assetID string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", assetID, models.AssetStatusActive).
		First(&asset).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", assetID, err)
	}

	return &asset, nil
}

// ListRecentMaintenance retrieves up to limit most recent maintenance
// records for an asset, newest first.
func (r *EngineRepository) ListRecentMaintenance(ctx context.Context, assetID string, limit int) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("performed_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance records: %w", err)
	}

	return records, nil
}

// ListActiveSchedules retrieves the active maintenance schedules for an asset
func (r *EngineRepository) ListActiveSchedules(ctx context.Context, assetID string) ([]models.MaintenanceSchedule, error) {
	var schedules []models.MaintenanceSchedule
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND active = ?", assetID, true).
		Find(&schedules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list maintenance schedules: %w", err)
	}

	return schedules, nil
}

// UpsertHealthScore creates or replaces the health score row for an asset.
// There is exactly one row per asset; last write wins.
func (r *EngineRepository) UpsertHealthScore(ctx context.Context, score *models.HealthScore) error {
	var existing models.HealthScore
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", score.AssetID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(score).Error
	}
	if err != nil {
		return fmt.Errorf("failed to check existing health score: %w", err)
	}

	score.ID = existing.ID
	score.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(score).Error
}

// GetHealthScore retrieves the current health score for an asset
func (r *EngineRepository) GetHealthScore(ctx context.Context, assetID string) (*models.HealthScore, error) {
	var score models.HealthScore
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		First(&score).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get health score: %w", err)
	}

	return &score, nil
}

// ListAlertRecipients resolves the alert recipients for a tenant: active
// users holding a managerial role.
func (r *EngineRepository) ListAlertRecipients(ctx context.Context, tenantID string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ? AND role IN ?", tenantID, true, []string{"manager", "admin"}).
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list alert recipients: %w", err)
	}

	return users, nil
}

// CreateAlertDispatch records one per-tenant alert delivery attempt
func (r *EngineRepository) CreateAlertDispatch(ctx context.Context, dispatch *models.AlertDispatch) error {
	return r.db.WithContext(ctx).Create(dispatch).Error
}

// GetStats retrieves engine statistics
func (r *EngineRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalScores int64
	if err := r.db.WithContext(ctx).Model(&models.HealthScore{}).Count(&totalScores).Error; err != nil {
		return nil, err
	}
	stats["total_scores"] = totalScores

	// Average score (use COALESCE to handle NULL when no records exist)
	var avgScore sql.NullFloat64
	if err := r.db.WithContext(ctx).Model(&models.HealthScore{}).Select("COALESCE(AVG(score), 0)").Scan(&avgScore).Error; err != nil {
		return nil, err
	}
	if avgScore.Valid {
		stats["average_score"] = avgScore.Float64
	} else {
		stats["average_score"] = 0.0
	}

	for _, level := range []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical} {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.HealthScore{}).Where("risk_level = ?", level).Count(&count).Error; err != nil {
			return nil, err
		}
		stats[string(level)+"_risk_scores"] = count
	}

	var lastCalculated sql.NullTime
	if err := r.db.WithContext(ctx).Model(&models.HealthScore{}).Select("MAX(last_calculated_at)").Scan(&lastCalculated).Error; err != nil {
		return nil, err
	}
	if lastCalculated.Valid {
		stats["last_calculated_at"] = lastCalculated.Time.Format(time.RFC3339)
	}

	return stats, nil
}

// Ping verifies database connectivity
func (r *EngineRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
