package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/database"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/services"
	"github.com/nichepilot/nichepilot-go/internal/utils"
)

// AssessmentHandler serves evaluation requests and stored assessment lookups.
type AssessmentHandler struct {
	engine   *services.ScoringEngine
	repo     *database.AssessmentRepository
	notifier *services.NotificationService
	logger   *logrus.Logger
}

// EvaluateRequest is the payload for a single product/keyword evaluation.
type EvaluateRequest struct {
	Product *models.Product `json:"product" binding:"required"`
	Keyword *models.Keyword `json:"keyword" binding:"required"`
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(engine *services.ScoringEngine, repo *database.AssessmentRepository, notifier *services.NotificationService, logger *logrus.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		engine:   engine,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Evaluate runs the scoring pipeline for one product and keyword. The
// assessment is returned even when persistence or notification fails; those
// failures are logged and never block the verdict.
func (h *AssessmentHandler) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	assessment, err := h.engine.AnalyzeProduct(ctx, req.Product, req.Keyword)
	if err != nil {
		var validationErr *utils.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
			return
		}
		h.logger.WithError(err).Error("Evaluation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		return
	}

	if h.repo != nil {
		if _, err := h.repo.Store(ctx, assessment); err != nil {
			h.logger.WithError(err).WithField("assessment_id", assessment.ID).Error("Failed to persist assessment")
		}
	}

	if h.notifier != nil && h.notifier.Enabled() {
		if err := h.notifier.NotifyAssessment(ctx, assessment); err != nil {
			h.logger.WithError(err).WithField("assessment_id", assessment.ID).Warn("Failed to send notification")
		}
	}

	c.JSON(http.StatusOK, assessment)
}

// GetByID returns a stored assessment by its identifier.
func (h *AssessmentHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	record, err := h.repo.GetByAssessmentID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		h.logger.WithError(err).WithField("assessment_id", id).Error("Failed to load assessment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assessment"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// List returns recent assessments, optionally filtered by final decision.
func (h *AssessmentHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 500"})
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()

	var (
		records []*database.AssessmentRecord
		err     error
	)
	if raw := c.Query("decision"); raw != "" {
		decision := models.DecisionStatus(raw)
		if !decision.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be one of RED, YELLOW, GREEN"})
			return
		}
		records, err = h.repo.ListByDecision(ctx, decision, limit)
	} else {
		records, err = h.repo.ListRecent(ctx, limit)
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to list assessments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assessments"})
		return
	}

	if records == nil {
		records = []*database.AssessmentRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"assessments": records, "count": len(records)})
}
