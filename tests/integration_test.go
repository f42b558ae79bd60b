package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safetrack/platform/health-engine/internal/alerts"
	"github.com/safetrack/platform/health-engine/internal/api/handlers"
	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/internal/notify"
	"github.com/safetrack/platform/health-engine/internal/repository"
	"github.com/safetrack/platform/health-engine/internal/scoring"
	"github.com/safetrack/platform/health-engine/internal/service"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Integration test setup
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	// Setup test database
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate
	db.AutoMigrate(
		&models.Asset{},
		&models.MaintenanceRecord{},
		&models.MaintenanceSchedule{},
		&models.User{},
		&models.HealthScore{},
		&models.AlertDispatch{},
	)

	// Setup service
	repo := repository.NewEngineRepository(db)
	engine := scoring.NewEngine()
	dispatcher := alerts.NewDispatcher(repo, notify.NewLogNotifier())
	engineService := service.NewEngineService(repo, engine, dispatcher, service.DefaultBatchSize, service.DefaultAssetTimeout)

	// Setup router
	router := gin.New()
	engineHandler := handlers.NewEngineHandler(engineService, repo)

	router.GET("/health", engineHandler.HealthCheck)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/health-scores/run", engineHandler.RunHealthScores)
		v1.GET("/health-scores/:assetID", engineHandler.GetHealthScore)
		v1.GET("/admin/stats", engineHandler.GetStats)
	}

	return router, db
}

func seedAssets(t *testing.T, db *gorm.DB) {
	t.Helper()

	install := time.Now().AddDate(-20, 0, 0)
	lifespan := 10
	overdue := time.Now().Add(-14 * 24 * time.Hour)

	assets := []*models.Asset{
		{
			ID: "pump-1", TenantID: "tenant-a", Name: "Main Water Pump",
			ConditionRating: models.ConditionGood, CriticalityLevel: models.CriticalityMedium,
			Status: models.AssetStatusActive,
		},
		{
			ID: "gen-1", TenantID: "tenant-a", Name: "Backup Generator",
			InstallationDate: &install, ExpectedLifespanYears: &lifespan,
			ConditionRating: models.ConditionCritical, CriticalityLevel: models.CriticalityCritical,
			Status: models.AssetStatusActive,
		},
	}
	for _, a := range assets {
		if err := db.Create(a).Error; err != nil {
			t.Fatalf("Failed to seed asset: %v", err)
		}
	}

	if err := db.Create(&models.MaintenanceSchedule{AssetID: "gen-1", NextDueAt: &overdue, Active: true}).Error; err != nil {
		t.Fatalf("Failed to seed schedule: %v", err)
	}
	if err := db.Create(&models.User{ID: "u-1", TenantID: "tenant-a", Email: "manager@a.test", Role: "manager", Active: true}).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

func TestRunEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	seedAssets(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/health-scores/run", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Summary struct {
			TotalProcessed  int   `json:"total_processed"`
			Successful      int   `json:"successful"`
			Failed          int   `json:"failed"`
			CriticalAssets  int   `json:"critical_assets"`
			HighRiskAssets  int   `json:"high_risk_assets"`
			ExecutionTimeMS int64 `json:"execution_time_ms"`
		} `json:"summary"`
		CriticalAssets []models.CriticalAsset `json:"critical_assets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success=true")
	}
	if resp.Summary.TotalProcessed != 2 || resp.Summary.Successful != 2 || resp.Summary.Failed != 0 {
		t.Errorf("Unexpected summary: %+v", resp.Summary)
	}
	if resp.Summary.CriticalAssets != 1 {
		t.Errorf("CriticalAssets = %d, expected 1", resp.Summary.CriticalAssets)
	}
	if len(resp.CriticalAssets) != 1 || resp.CriticalAssets[0].ID != "gen-1" {
		t.Errorf("Unexpected critical asset list: %+v", resp.CriticalAssets)
	}
}

func TestGetHealthScoreEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	seedAssets(t, db)

	// Run first so scores exist
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/health-scores/run", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Run failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/health-scores/pump-1", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var score models.HealthScore
	if err := json.Unmarshal(w.Body.Bytes(), &score); err != nil {
		t.Fatalf("Failed to decode score: %v", err)
	}
	if score.AssetID != "pump-1" {
		t.Errorf("AssetID = %s, expected pump-1", score.AssetID)
	}
	if score.Score < 0 || score.Score > 100 {
		t.Errorf("Score %d outside [0,100]", score.Score)
	}
	if score.ModelVersion == "" {
		t.Error("ModelVersion should be set")
	}
}

func TestGetHealthScoreNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health-scores/missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	seedAssets(t, db)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/health-scores/run", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Run failed: %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats["total_scores"].(float64) != 2 {
		t.Errorf("total_scores = %v, expected 2", stats["total_scores"])
	}
}
