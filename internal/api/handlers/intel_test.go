package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichepilot/nichepilot-go/internal/models"
	"github.com/nichepilot/nichepilot-go/internal/providers"
)

func newIntelRouter(store *providers.SnapshotStore) *gin.Engine {
	handler := NewIntelHandler(store, testLogger())
	router := gin.New()
	router.PUT("/api/v1/intel/keywords/:marketplace/:keyword", handler.PutSnapshot)
	router.GET("/api/v1/intel/keywords/:marketplace/:keyword", handler.GetSnapshot)
	return router
}

func TestIntelHandlerPutAndGet(t *testing.T) {
	store := providers.NewSnapshotStore()
	router := newIntelRouter(store)

	body, err := json.Marshal(providers.KeywordSnapshot{
		ClickConcentration: models.Float64Ptr(0.55),
		TitleDensity:       models.Float64Ptr(6),
		SearchVolume:       models.IntPtr(4200),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/intel/keywords/US/yoga%20mat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap, ok := store.Get("yoga mat", models.MarketplaceUS)
	require.True(t, ok)
	require.NotNil(t, snap.ClickConcentration)
	assert.InDelta(t, 0.55, *snap.ClickConcentration, 1e-9)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/intel/keywords/US/yoga%20mat", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got providers.KeywordSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.SearchVolume)
	assert.Equal(t, 4200, *got.SearchVolume)
}

func TestIntelHandlerUnknownMarketplace(t *testing.T) {
	router := newIntelRouter(providers.NewSnapshotStore())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/intel/keywords/BR/yoga%20mat", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntelHandlerGetMissing(t *testing.T) {
	router := newIntelRouter(providers.NewSnapshotStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/intel/keywords/DE/unseen", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
