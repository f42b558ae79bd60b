package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safetrack/platform/health-engine/internal/aggregator"
	"github.com/safetrack/platform/health-engine/internal/alerts"
	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/internal/scoring"
	"github.com/safetrack/platform/health-engine/pkg/logger"
	"go.uber.org/zap"
)

// DefaultBatchSize bounds concurrent datastore load; batches run
// sequentially, assets within a batch run in parallel.
const DefaultBatchSize = 10

// DefaultAssetTimeout bounds a single asset's datastore round trips so an
// unresponsive call cannot stall a batch.
const DefaultAssetTimeout = 30 * time.Second

// Datastore is the slice of the repository the orchestrator needs.
type Datastore interface {
	ListActiveAssets(ctx context.Context) ([]*models.Asset, error)
	GetAsset(ctx context.Context, assetID string) (*models.Asset, error)
	ListRecentMaintenance(ctx context.Context, assetID string, limit int) ([]models.MaintenanceRecord, error)
	ListActiveSchedules(ctx context.Context, assetID string) ([]models.MaintenanceSchedule, error)
	UpsertHealthScore(ctx context.Context, score *models.HealthScore) error
}

// EngineService orchestrates the periodic health scoring run across all
// tenants.
type EngineService struct {
	store        Datastore
	engine       *scoring.Engine
	dispatcher   *alerts.Dispatcher
	batchSize    int
	assetTimeout time.Duration
}

// NewEngineService creates a new engine service
func NewEngineService(
	store Datastore,
	engine *scoring.Engine,
	dispatcher *alerts.Dispatcher,
	batchSize int,
	assetTimeout time.Duration,
) *EngineService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if assetTimeout <= 0 {
		assetTimeout = DefaultAssetTimeout
	}
	return &EngineService{
		store:        store,
		engine:       engine,
		dispatcher:   dispatcher,
		batchSize:    batchSize,
		assetTimeout: assetTimeout,
	}
}

// RunAll recomputes the health score of every active asset in every
// tenant, raises per-tenant alerts for high/critical assets, and returns
// the run summary. Only a roster fetch failure aborts the run; per-asset
// failures are captured as outcomes.
func (s *EngineService) RunAll(ctx context.Context) (*models.RunSummary, error) {
	runID := uuid.NewString()
	start := time.Now()

	assets, err := s.store.ListActiveAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset roster: %w", err)
	}

	logger.Info("Starting health score run",
		zap.String("runID", runID),
		zap.Int("assets", len(assets)),
		zap.Int("batchSize", s.batchSize),
	)

	outcomes := make([]models.ScoreOutcome, 0, len(assets))
	for begin := 0; begin < len(assets); begin += s.batchSize {
		end := begin + s.batchSize
		if end > len(assets) {
			end = len(assets)
		}
		outcomes = append(outcomes, s.runBatch(ctx, assets[begin:end])...)
	}

	grouped := aggregator.GroupCriticalByTenant(outcomes)
	dispatches := s.dispatcher.DispatchAll(ctx, runID, grouped)

	summary := buildSummary(runID, start, outcomes, grouped, dispatches)

	logger.Info("Health score run complete",
		zap.String("runID", runID),
		zap.Int("processed", summary.TotalProcessed),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Int("critical", summary.CriticalAssets),
		zap.Int("highRisk", summary.HighRiskAssets),
		zap.Int64("durationMS", summary.ExecutionTimeMS),
	)

	return summary, nil
}

// runBatch scores one batch with full internal parallelism and waits for
// every asset to finish before returning.
func (s *EngineService) runBatch(ctx context.Context, batch []*models.Asset) []models.ScoreOutcome {
	results := make([]models.ScoreOutcome, len(batch))

	var wg sync.WaitGroup
	for i, asset := range batch {
		wg.Add(1)
		go func(i int, asset *models.Asset) {
			defer wg.Done()
			results[i] = s.scoreAsset(ctx, asset)
		}(i, asset)
	}
	wg.Wait()

	return results
}

// scoreAsset fetches one asset's detail, history and schedules, computes
// its health score and persists it. Any failure becomes a failure outcome.
func (s *EngineService) scoreAsset(ctx context.Context, roster *models.Asset) models.ScoreOutcome {
	ctx, cancel := context.WithTimeout(ctx, s.assetTimeout)
	defer cancel()

	failure := func(err error) models.ScoreOutcome {
		logger.Error("Health score calculation failed",
			zap.String("assetID", roster.ID),
			zap.String("tenantID", roster.TenantID),
			zap.Error(err),
		)
		return models.ScoreOutcome{
			AssetID:   roster.ID,
			AssetName: roster.Name,
			TenantID:  roster.TenantID,
			Err:       err,
		}
	}

	asset, err := s.store.GetAsset(ctx, roster.ID)
	if err != nil {
		return failure(err)
	}

	history, err := s.store.ListRecentMaintenance(ctx, asset.ID, scoring.HistoryLimit)
	if err != nil {
		return failure(err)
	}

	schedules, err := s.store.ListActiveSchedules(ctx, asset.ID)
	if err != nil {
		return failure(err)
	}

	score := s.engine.Calculate(asset, history, schedules)
	if err := s.store.UpsertHealthScore(ctx, score); err != nil {
		return failure(err)
	}

	return models.ScoreOutcome{
		AssetID:   asset.ID,
		AssetName: asset.Name,
		TenantID:  asset.TenantID,
		Score:     score.Score,
		RiskLevel: score.RiskLevel,
	}
}

func buildSummary(
	runID string,
	start time.Time,
	outcomes []models.ScoreOutcome,
	grouped map[string][]models.CriticalAsset,
	dispatches []models.DispatchStatus,
) *models.RunSummary {
	summary := &models.RunSummary{
		RunID:          runID,
		TotalProcessed: len(outcomes),
		CriticalList:   aggregator.Flatten(grouped),
		Dispatches:     dispatches,
		StartedAt:      start,
	}

	for _, o := range outcomes {
		if o.Failed() {
			summary.Failed++
			continue
		}
		summary.Successful++
		switch o.RiskLevel {
		case models.RiskCritical:
			summary.CriticalAssets++
		case models.RiskHigh:
			summary.HighRiskAssets++
		}
	}

	sort.Slice(summary.CriticalList, func(i, j int) bool {
		a, b := summary.CriticalList[i], summary.CriticalList[j]
		if a.TenantID != b.TenantID {
			return a.TenantID < b.TenantID
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.ID < b.ID
	})

	summary.ExecutionTimeMS = time.Since(start).Milliseconds()
	return summary
}
