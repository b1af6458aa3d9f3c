package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichepilot/nichepilot-go/internal/config"
	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
	"github.com/nichepilot/nichepilot-go/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func newTestAssessmentHandler(t *testing.T) *AssessmentHandler {
	t.Helper()
	cfg := config.Default()
	engine := services.NewScoringEngine(cfg, providers.NewSnapshotStore(), testLogger())
	return NewAssessmentHandler(engine, nil, nil, testLogger())
}

func performRequest(handler gin.HandlerFunc, method, path string, body []byte) *httptest.ResponseRecorder {
	router := gin.New()
	router.Handle(method, "/api/v1/assessments", handler)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAssessmentHandlerEvaluate(t *testing.T) {
	handler := newTestAssessmentHandler(t)

	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"id":          "B0TEST1234",
			"title":       "Premium Yoga Mat",
			"price":           "49.99",
			"marketplace":     "US",
			"review_velocity": 2.5,
			"sales_estimates": []map[string]interface{}{
				{"source": "sourceA", "units": 1000},
				{"source": "sourceB", "units": 1100},
			},
		},
		"keyword": map[string]interface{}{
			"term":                "yoga mat",
			"exact_search_volume": 8000,
			"title_density":       3,
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := performRequest(handler.Evaluate, http.MethodPost, "/api/v1/assessments", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var assessment models.OpportunityAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assessment))
	assert.Equal(t, "B0TEST1234", assessment.ID)
	assert.Equal(t, models.StatusGreen, assessment.Summary.FinalDecision)
	assert.NotEmpty(t, assessment.Summary.Recommendation)
	assert.Contains(t, assessment.Rules, models.RulePriceBarrier)
}

func TestAssessmentHandlerEvaluateInvalidBody(t *testing.T) {
	handler := newTestAssessmentHandler(t)

	w := performRequest(handler.Evaluate, http.MethodPost, "/api/v1/assessments", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandlerEvaluateMissingKeyword(t *testing.T) {
	handler := newTestAssessmentHandler(t)

	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"id":          "B0TEST1234",
			"title":       "Premium Yoga Mat",
			"price":       "49.99",
			"marketplace": "US",
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := performRequest(handler.Evaluate, http.MethodPost, "/api/v1/assessments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandlerEvaluateMissingExactVolume(t *testing.T) {
	handler := newTestAssessmentHandler(t)

	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"id":          "B0TEST1234",
			"title":       "Premium Yoga Mat",
			"price":       "49.99",
			"marketplace": "US",
		},
		"keyword": map[string]interface{}{
			"term": "yoga mat",
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := performRequest(handler.Evaluate, http.MethodPost, "/api/v1/assessments", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no exact search volume")
}

func TestAssessmentHandlerEvaluateUnknownMarketplace(t *testing.T) {
	handler := newTestAssessmentHandler(t)

	payload := map[string]interface{}{
		"product": map[string]interface{}{
			"id":          "B0TEST1234",
			"title":       "Premium Yoga Mat",
			"price":       "49.99",
			"marketplace": "BR",
		},
		"keyword": map[string]interface{}{
			"term":                "yoga mat",
			"exact_search_volume": 8000,
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := performRequest(handler.Evaluate, http.MethodPost, "/api/v1/assessments", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
