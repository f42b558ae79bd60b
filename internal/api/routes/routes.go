package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/safetrack/platform/health-engine/internal/alerts"
	"github.com/safetrack/platform/health-engine/internal/api/handlers"
	"github.com/safetrack/platform/health-engine/internal/config"
	"github.com/safetrack/platform/health-engine/internal/models"
	"github.com/safetrack/platform/health-engine/internal/notify"
	"github.com/safetrack/platform/health-engine/internal/repository"
	"github.com/safetrack/platform/health-engine/internal/scoring"
	"github.com/safetrack/platform/health-engine/internal/service"
	"github.com/safetrack/platform/health-engine/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Setup(router *gin.Engine, cfg *config.Config) {
	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Initialize components
	repo := repository.NewEngineRepository(db)
	engine := scoring.NewEngine()

	var notifier notify.Notifier
	if cfg.AlertWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AlertWebhookURL)
	} else {
		logger.Info("No alert webhook configured, alerts will be logged only")
		notifier = notify.NewLogNotifier()
	}

	dispatcher := alerts.NewDispatcher(repo, notifier)
	engineService := service.NewEngineService(repo, engine, dispatcher, cfg.BatchSize, cfg.AssetTimeout)

	engineHandler := handlers.NewEngineHandler(engineService, repo)

	// Health check
	router.GET("/health", engineHandler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health scoring routes
		v1.POST("/health-scores/run", engineHandler.RunHealthScores)
		v1.GET("/health-scores/:assetID", engineHandler.GetHealthScore)

		// Admin routes
		admin := v1.Group("/admin")
		{
			admin.GET("/stats", engineHandler.GetStats)
		}
	}
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL == "" {
		logger.Info("No database URL configured, using in-memory SQLite")
		// Use pure Go SQLite (no CGO required)
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
		}
	} else {
		logger.Info("Connecting to PostgreSQL database")
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.Asset{},
		&models.MaintenanceRecord{},
		&models.MaintenanceSchedule{},
		&models.User{},
		&models.HealthScore{},
		&models.AlertDispatch{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database initialized successfully")
	return db, nil
}
