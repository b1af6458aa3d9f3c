package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

// IntelHandler accepts keyword intelligence snapshots pushed by external
// collectors and exposes them for inspection.
type IntelHandler struct {
	store  *providers.SnapshotStore
	logger *logrus.Logger
}

// NewIntelHandler creates a new intel handler.
func NewIntelHandler(store *providers.SnapshotStore, logger *logrus.Logger) *IntelHandler {
	return &IntelHandler{
		store:  store,
		logger: logger,
	}
}

// PutSnapshot stores or replaces the snapshot for a keyword and marketplace.
func (h *IntelHandler) PutSnapshot(c *gin.Context) {
	marketplace := models.Marketplace(c.Param("marketplace"))
	if !marketplace.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown marketplace: " + c.Param("marketplace")})
		return
	}

	keyword := c.Param("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	var snapshot providers.KeywordSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid snapshot body: " + err.Error()})
		return
	}

	h.store.Put(keyword, marketplace, snapshot)
	h.logger.WithFields(logrus.Fields{
		"keyword":     keyword,
		"marketplace": marketplace,
	}).Debug("Keyword snapshot updated")

	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}

// GetSnapshot returns the stored snapshot for a keyword and marketplace.
func (h *IntelHandler) GetSnapshot(c *gin.Context) {
	marketplace := models.Marketplace(c.Param("marketplace"))
	if !marketplace.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown marketplace: " + c.Param("marketplace")})
		return
	}

	snapshot, ok := h.store.Get(c.Param("keyword"), marketplace)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for keyword"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
