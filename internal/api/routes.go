package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nichepilot/nichepilot-go/internal/api/handlers"
	"github.com/nichepilot/nichepilot-go/internal/database"
	"github.com/nichepilot/nichepilot-go/internal/providers"
	"github.com/nichepilot/nichepilot-go/internal/services"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Engine    *services.ScoringEngine
	Repo      *database.AssessmentRepository
	Notifier  *services.NotificationService
	Snapshots *providers.SnapshotStore
	DB        *database.PostgresDB
	Redis     *database.RedisClient
	Logger    *logrus.Logger
}

// SetupRoutes registers all HTTP routes on the router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(otelgin.Middleware("nichepilot"))

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Redis)
	router.GET("/health", healthHandler.HealthCheck)

	assessmentHandler := handlers.NewAssessmentHandler(deps.Engine, deps.Repo, deps.Notifier, deps.Logger)
	intelHandler := handlers.NewIntelHandler(deps.Snapshots, deps.Logger)

	v1 := router.Group("/api/v1")
	{
		assessments := v1.Group("/assessments")
		{
			assessments.POST("", assessmentHandler.Evaluate)
			assessments.GET("", assessmentHandler.List)
			assessments.GET("/:id", assessmentHandler.GetByID)
		}

		intel := v1.Group("/intel")
		{
			intel.PUT("/keywords/:marketplace/:keyword", intelHandler.PutSnapshot)
			intel.GET("/keywords/:marketplace/:keyword", intelHandler.GetSnapshot)
		}
	}
}
