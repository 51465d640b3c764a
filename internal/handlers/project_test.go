// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenflow/core/internal/coordinator"
	"github.com/screenflow/core/internal/models"
)

const sampleProject = `{
	"projectName": "Checkout Flow",
	"nodes": [
		{
			"config": {
				"id": "login-1000",
				"label": "Login",
				"type": "auth",
				"description": "User authentication page",
				"uiOptions": [
					{"label": "Username Field", "inputType": "Textbox", "isVisible": true, "value": ""}
				]
			},
			"position": {"x": 100, "y": 50}
		}
	],
	"edges": [],
	"exportedAt": "2026-01-01T00:00:00.000Z",
	"version": "1.0"
}`

func TestProjectHandler(t *testing.T) {
	api := newTestAPI(t)
	api.coord.OnDrop("login", coordinator.Point{X: 420, Y: 150}, coordinator.Point{})
	req := httptest.NewRequest(http.MethodGet, "/project", nil)
	w := httptest.NewRecorder()

	api.ProjectHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var state models.State
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	require.Len(t, state.Nodes, 1)
	assert.Equal(t, models.Position{X: 100, Y: 50}, state.Nodes[0].Position)
	assert.Equal(t, "Untitled Project", state.Meta.ProjectName)
	assert.True(t, state.Meta.IsDirty)
}

func TestImportHandler(t *testing.T) {
	t.Run("replaces the project", func(t *testing.T) {
		api := newTestAPI(t)
		api.coord.OnDrop("table", coordinator.Point{}, coordinator.Point{})
		req := httptest.NewRequest(http.MethodPost, "/project/import", strings.NewReader(sampleProject))
		w := httptest.NewRecorder()

		api.ImportHandler(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var state models.State
		require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
		assert.Equal(t, "Checkout Flow", state.Meta.ProjectName)
		assert.False(t, state.Meta.IsDirty)
		assert.Equal(t, "2026-01-01T00:00:00.000Z", state.Meta.LastSaved)
		require.Len(t, state.Nodes, 1)
		assert.Equal(t, "login-1000", state.Nodes[0].Config.ID)
		assert.Equal(t, "login-1000-0", state.Nodes[0].Config.UIOptions[0].ID)
	})

	t.Run("invalid document leaves the project untouched", func(t *testing.T) {
		api := newTestAPI(t)
		api.coord.OnDrop("table", coordinator.Point{}, coordinator.Point{})
		before := api.coord.Store().State()
		req := httptest.NewRequest(http.MethodPost, "/project/import", strings.NewReader(`{"nodes": []}`))
		w := httptest.NewRecorder()

		api.ImportHandler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid project")
		assert.Contains(t, w.Body.String(), "missing edges")
		assert.Equal(t, before, api.coord.Store().State())
	})

	t.Run("malformed json", func(t *testing.T) {
		api := newTestAPI(t)
		req := httptest.NewRequest(http.MethodPost, "/project/import", strings.NewReader(`{invalid`))
		w := httptest.NewRecorder()

		api.ImportHandler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 405 for GET", func(t *testing.T) {
		api := newTestAPI(t)
		req := httptest.NewRequest(http.MethodGet, "/project/import", nil)
		w := httptest.NewRecorder()

		api.ImportHandler(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestExportHandler(t *testing.T) {
	api := newTestAPI(t)
	api.coord.OnRenameProject("Checkout Flow")
	api.coord.OnDrop("login", coordinator.Point{}, coordinator.Point{})
	req := httptest.NewRequest(http.MethodGet, "/project/export", nil)
	w := httptest.NewRecorder()

	api.ExportHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="checkout_flow.json"`, w.Header().Get("Content-Disposition"))

	var doc models.ProjectDocument
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Equal(t, "Checkout Flow", doc.ProjectName)
	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, "2026-02-03T04:05:06.789Z", doc.ExportedAt)
	assert.Len(t, doc.Nodes, 1)

	meta := api.coord.Store().Meta()
	assert.False(t, meta.IsDirty)
	assert.Equal(t, doc.ExportedAt, meta.LastSaved)
}

func TestExportPNGHandler(t *testing.T) {
	t.Run("renders the diagram", func(t *testing.T) {
		api := newTestAPI(t)
		api.coord.OnDrop("login", coordinator.Point{}, coordinator.Point{})
		req := httptest.NewRequest(http.MethodGet, "/project/export.png", nil)
		w := httptest.NewRecorder()

		api.ExportPNGHandler(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="untitled_project2.png"`, w.Header().Get("Content-Disposition"))
		_, err := png.Decode(w.Body)
		assert.NoError(t, err)
	})

	t.Run("empty diagram exports nothing", func(t *testing.T) {
		api := newTestAPI(t)
		req := httptest.NewRequest(http.MethodGet, "/project/export.png", nil)
		w := httptest.NewRecorder()

		api.ExportPNGHandler(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("oversized diagram is refused", func(t *testing.T) {
		api := newTestAPI(t)
		api.coord.OnDrop("login", coordinator.Point{}, coordinator.Point{})
		api.coord.OnDrop("dashboard", coordinator.Point{X: 1e12, Y: 1e12}, coordinator.Point{})
		req := httptest.NewRequest(http.MethodGet, "/project/export.png", nil)
		w := httptest.NewRecorder()

		api.ExportPNGHandler(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}
