// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"

	"github.com/screenflow/core/internal/catalog"
)

type CatalogResponse struct {
	Archetypes []catalog.Archetype `json:"archetypes"`
	Count      int                 `json:"count"`
}

// CatalogHandler lists archetypes, optionally filtered by ?q= and ?category=.
func (a *API) CatalogHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	results := a.catalog.Filter(q.Get("q"), q.Get("category"))
	if results == nil {
		results = []catalog.Archetype{}
	}

	writeJSON(w, r, http.StatusOK, CatalogResponse{Archetypes: results, Count: len(results)})
}

func (a *API) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, a.catalog.Categories())
}
