// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenflow/core/internal/coordinator"
)

func getHealth(t *testing.T, api *API) HealthResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	api.HealthHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHealthHandler(t *testing.T) {
	api := newTestAPI(t)

	t.Run("returns service status", func(t *testing.T) {
		response := getHealth(t, api)

		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "screenflow-api", response.Service)
		assert.NotEmpty(t, response.Uptime)
	})

	t.Run("timestamp is recent RFC3339", func(t *testing.T) {
		before := time.Now().UTC().Add(-1 * time.Second)
		response := getHealth(t, api)
		after := time.Now().UTC().Add(1 * time.Second)

		timestamp, err := time.Parse(time.RFC3339, response.Timestamp)
		require.NoError(t, err)
		assert.True(t, timestamp.After(before))
		assert.True(t, timestamp.Before(after))
	})

	t.Run("includes runtime details", func(t *testing.T) {
		details := getHealth(t, api).Details

		assert.Equal(t, runtime.Version(), details["go_version"])
		assert.Equal(t, strconv.Itoa(runtime.NumCPU()), details["num_cpu"])
		assert.Equal(t, "11", details["archetypes"])
	})

	t.Run("counts project content", func(t *testing.T) {
		api := newTestAPI(t)
		api.coord.OnDrop("login", coordinator.Point{}, coordinator.Point{})
		api.coord.OnConnect("a", "b", "", "")

		details := getHealth(t, api).Details

		assert.Equal(t, "1", details["nodes"])
		assert.Equal(t, "1", details["edges"])
		assert.Equal(t, "0", details["subscribers"])
	})

	t.Run("handles multiple concurrent requests", func(t *testing.T) {
		numRequests := 10
		results := make(chan int, numRequests)

		for range numRequests {
			go func() {
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				w := httptest.NewRecorder()
				api.HealthHandler(w, req)
				results <- w.Code
			}()
		}

		for range numRequests {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead} {
		t.Run("returns 405 for "+method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			api.HealthHandler(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}
