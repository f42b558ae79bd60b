package alerts

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/internal/notify"
	"github.com/safetrack/platform/health-engine/pkg/logger"
	"go.uber.org/zap"
)

// MaxAssetsPerAlert caps how many assets are named in one alert body;
// the remainder collapses into an "and N more" suffix.
const MaxAssetsPerAlert = 10

const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Store is the slice of the datastore the dispatcher needs.
type Store interface {
	ListAlertRecipients(ctx context.Context, tenantID string) ([]models.User, error)
	CreateAlertDispatch(ctx context.Context, dispatch *models.AlertDispatch) error
}

// Dispatcher emits one alert event per tenant with at-risk assets.
// Delivery is best effort: a failure for one tenant never affects the
// others or the run outcome, but every attempt is recorded and its status
// reported back to the caller.
type Dispatcher struct {
	store    Store
	notifier notify.Notifier
}

// NewDispatcher creates a new alert dispatcher
func NewDispatcher(store Store, notifier notify.Notifier) *Dispatcher {
	return &Dispatcher{
		store:    store,
		notifier: notifier,
	}
}

// DispatchAll sends one alert per tenant in the grouping and returns the
// per-tenant delivery statuses.
func (d *Dispatcher) DispatchAll(ctx context.Context, runID string, grouped map[string][]models.CriticalAsset) []models.DispatchStatus {
	tenants := make([]string, 0, len(grouped))
	for tenantID, assets := range grouped {
		if len(assets) > 0 {
			tenants = append(tenants, tenantID)
		}
	}
	sort.Strings(tenants)

	statuses := make([]models.DispatchStatus, 0, len(tenants))
	for _, tenantID := range tenants {
		statuses = append(statuses, d.dispatchTenant(ctx, runID, tenantID, grouped[tenantID]))
	}

	return statuses
}

func (d *Dispatcher) dispatchTenant(ctx context.Context, runID, tenantID string, assets []models.CriticalAsset) models.DispatchStatus {
	event := BuildAlertEvent(tenantID, assets)

	dispatch := &models.AlertDispatch{
		RunID:         runID,
		TenantID:      tenantID,
		Title:         event.Title,
		Body:          event.Body,
		CriticalCount: countByLevel(assets, models.RiskCritical),
		HighCount:     countByLevel(assets, models.RiskHigh),
	}

	recipients, err := d.store.ListAlertRecipients(ctx, tenantID)
	if err != nil {
		logger.Error("Failed to resolve alert recipients",
			zap.String("tenantID", tenantID),
			zap.Error(err),
		)
		return d.record(ctx, dispatch, StatusFailed, err.Error())
	}

	if len(recipients) == 0 {
		logger.Info("No alert recipients for tenant, skipping alert",
			zap.String("tenantID", tenantID),
		)
		return d.record(ctx, dispatch, StatusSkipped, "")
	}

	for _, u := range recipients {
		event.Recipients = append(event.Recipients, u.Email)
	}

	if err := d.notifier.Send(ctx, event); err != nil {
		logger.Error("Failed to deliver tenant alert",
			zap.String("tenantID", tenantID),
			zap.Error(err),
		)
		return d.record(ctx, dispatch, StatusFailed, err.Error())
	}

	logger.Info("Tenant alert delivered",
		zap.String("tenantID", tenantID),
		zap.Int("assets", len(assets)),
		zap.Int("recipients", len(recipients)),
	)

	return d.record(ctx, dispatch, StatusSent, "")
}

// record persists the dispatch attempt and builds its status. A failed
// insert is logged only; the status already carries the outcome.
func (d *Dispatcher) record(ctx context.Context, dispatch *models.AlertDispatch, status, errMsg string) models.DispatchStatus {
	dispatch.Status = status
	dispatch.ErrorMessage = errMsg
	dispatch.CreatedAt = time.Now()

	if err := d.store.CreateAlertDispatch(ctx, dispatch); err != nil {
		logger.Error("Failed to record alert dispatch",
			zap.String("tenantID", dispatch.TenantID),
			zap.Error(err),
		)
	}

	return models.DispatchStatus{
		TenantID: dispatch.TenantID,
		Status:   status,
		Error:    errMsg,
	}
}

// BuildAlertEvent builds the structured alert for one tenant. Assets are
// ordered worst score first; at most MaxAssetsPerAlert are named.
func BuildAlertEvent(tenantID string, assets []models.CriticalAsset) *models.AlertEvent {
	sorted := make([]models.CriticalAsset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Name < sorted[j].Name
	})

	critical := countByLevel(sorted, models.RiskCritical)
	high := countByLevel(sorted, models.RiskHigh)

	title := fmt.Sprintf("Asset health alert: %d critical, %d high-risk", critical, high)

	listed := sorted
	if len(listed) > MaxAssetsPerAlert {
		listed = listed[:MaxAssetsPerAlert]
	}

	var b strings.Builder
	b.WriteString("The following assets require attention:\n")
	for _, a := range listed {
		fmt.Fprintf(&b, "- %s (score %d, %s)\n", a.Name, a.Score, a.RiskLevel)
	}
	if extra := len(sorted) - len(listed); extra > 0 {
		fmt.Fprintf(&b, "...and %d more", extra)
	}

	return &models.AlertEvent{
		TenantID:  tenantID,
		Title:     title,
		Body:      strings.TrimRight(b.String(), "\n"),
		Assets:    sorted,
		CreatedAt: time.Now(),
	}
}

func countByLevel(assets []models.CriticalAsset, level models.RiskLevel) int {
	n := 0
	for _, a := range assets {
		if a.RiskLevel == level {
			n++
		}
	}
	return n
}
