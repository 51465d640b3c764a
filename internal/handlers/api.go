// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/screenflow/core/internal/catalog"
	"github.com/screenflow/core/internal/coordinator"
	"github.com/screenflow/core/internal/render"
)

// API serves one editor session: the catalog, the project held by the
// coordinator's store and a live event feed.
type API struct {
	catalog *catalog.Catalog
	coord   *coordinator.Coordinator
	render  render.Options
	hub     *Hub
}

type Option func(*API)

// WithRenderOptions sets the options used for PNG export.
func WithRenderOptions(o render.Options) Option {
	return func(a *API) { a.render = o }
}

// WithAllowedOrigin restricts websocket upgrades to origin. "*" allows any.
func WithAllowedOrigin(origin string) Option {
	return func(a *API) { a.hub.origin = origin }
}

func New(cat *catalog.Catalog, coord *coordinator.Coordinator, opts ...Option) *API {
	a := &API{
		catalog: cat,
		coord:   coord,
		render:  render.Options{Scale: render.DefaultScale},
		hub:     NewHub("*"),
	}
	for _, opt := range opts {
		opt(a)
	}
	coord.Store().Subscribe(a.hub.Broadcast)
	return a
}

// Routes registers every endpoint on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.HealthHandler)
	mux.HandleFunc("/catalog", a.CatalogHandler)
	mux.HandleFunc("/catalog/categories", a.CategoriesHandler)
	mux.HandleFunc("/project", a.ProjectHandler)
	mux.HandleFunc("/project/import", a.ImportHandler)
	mux.HandleFunc("/project/export", a.ExportHandler)
	mux.HandleFunc("/project/export.png", a.ExportPNGHandler)
	mux.HandleFunc("/commands", a.CommandsHandler)
	mux.HandleFunc("/events", a.EventsHandler)
}

// Hub returns the event hub feeding /events.
func (a *API) Hub() *Hub {
	return a.hub
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
