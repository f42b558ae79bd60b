package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/internal/repository"
	"github.com/safetrack/platform/health-engine/internal/service"
	"github.com/safetrack/platform/health-engine/pkg/logger"
	"go.uber.org/zap"
)

// EngineHandler handles health scoring API requests
type EngineHandler struct {
	service *service.EngineService
	repo    *repository.EngineRepository
}

// NewEngineHandler creates a new engine handler
func NewEngineHandler(service *service.EngineService, repo *repository.EngineRepository) *EngineHandler {
	return &EngineHandler{
		service: service,
		repo:    repo,
	}
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RunSummaryPayload is the summary block of a run response
type RunSummaryPayload struct {
	TotalProcessed  int   `json:"total_processed"`
	Successful      int   `json:"successful"`
	Failed          int   `json:"failed"`
	CriticalAssets  int   `json:"critical_assets"`
	HighRiskAssets  int   `json:"high_risk_assets"`
	ExecutionTimeMS int64 `json:"execution_time_ms"`
}

// RunResponse is returned to the scheduling trigger
type RunResponse struct {
	Success        bool                    `json:"success"`
	RunID          string                  `json:"run_id"`
	Summary        RunSummaryPayload       `json:"summary"`
	CriticalAssets []models.CriticalAsset  `json:"critical_assets"`
	Dispatches     []models.DispatchStatus `json:"dispatches"`
}

// GetHealthScoreRequest binds the asset id path parameter
type GetHealthScoreRequest struct {
	AssetID string `uri:"assetID" binding:"required"`
}

// RunHealthScores triggers a full scoring pass over all tenants. A run
// with individual asset failures still reports success.
func (h *EngineHandler) RunHealthScores(c *gin.Context) {
	summary, err := h.service.RunAll(c.Request.Context())
	if err != nil {
		logger.Error("Health score run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	criticalAssets := summary.CriticalList
	if criticalAssets == nil {
		criticalAssets = []models.CriticalAsset{}
	}

	c.JSON(http.StatusOK, RunResponse{
		Success: true,
		RunID:   summary.RunID,
		Summary: RunSummaryPayload{
			TotalProcessed:  summary.TotalProcessed,
			Successful:      summary.Successful,
			Failed:          summary.Failed,
			CriticalAssets:  summary.CriticalAssets,
			HighRiskAssets:  summary.HighRiskAssets,
			ExecutionTimeMS: summary.ExecutionTimeMS,
		},
		CriticalAssets: criticalAssets,
		Dispatches:     summary.Dispatches,
	})
}

// GetHealthScore retrieves the current persisted score for one asset
func (h *EngineHandler) GetHealthScore(c *gin.Context) {
	var req GetHealthScoreRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	score, err := h.repo.GetHealthScore(c.Request.Context(), req.AssetID)
	if err != nil {
		logger.Error("Failed to get health score", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve health score",
			Message: err.Error(),
		})
		return
	}

	if score == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Health score not found",
			Message: "No health score exists for this asset",
		})
		return
	}

	c.JSON(http.StatusOK, score)
}

// GetStats returns engine statistics
func (h *EngineHandler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve statistics",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck reports service and database health
func (h *EngineHandler) HealthCheck(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": true,
	})
}
