package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHealthTestRouter creates a test Gin router without middleware.
func setupHealthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestHealthHandler_Health(t *testing.T) {
	// Liveness does not touch the database, so a nil one is fine.
	handler := &HealthHandler{
		db:        nil,
		startTime: time.Now(),
		env:       "test",
	}

	router := setupHealthTestRouter()
	router.GET("/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "healthy", response.Status)
}

func TestHealthHandler_Info(t *testing.T) {
	handler := &HealthHandler{
		db:              nil,
		startTime:       time.Now().Add(-90 * time.Minute),
		env:             "production",
		freshnessWindow: 24 * time.Hour,
	}

	router := setupHealthTestRouter()
	router.GET("/api/v1/info", handler.Info)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response InfoResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)

	assert.Equal(t, APIVersion, response.Version)
	assert.Equal(t, "production", response.Environment)
	assert.Equal(t, "1h 30m 0s", response.Uptime)
	assert.Equal(t, "24h0m0s", response.FreshnessWindow)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds only", 42 * time.Second, "0h 0m 42s"},
		{"hours and minutes", 3*time.Hour + 15*time.Minute, "3h 15m 0s"},
		{"multiple days", 50*time.Hour + 5*time.Minute, "2d 2h 5m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUptime(tt.duration))
		})
	}
}
