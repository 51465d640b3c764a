// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/screenflow/core/internal/parser"
	"github.com/screenflow/core/internal/render"
)

// maxImportSize bounds the body accepted by ImportHandler.
const maxImportSize = 10 << 20

// ProjectHandler returns the full editor state.
func (a *API) ProjectHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, a.coord.Store().State())
}

// ImportHandler replaces the project with the posted document. A document
// that fails validation leaves the project untouched.
func (a *API) ImportHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()

	if _, err := a.coord.OnImport(body); err != nil {
		http.Error(w, "Invalid project: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, r, http.StatusOK, a.coord.Store().State())
}

// ExportHandler downloads the project document and marks the project saved.
func (a *API) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	doc, data, err := a.coord.OnExport()
	if err != nil {
		log.Printf("Error exporting project: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(parser.FileName(doc.ProjectName, ".json")))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing export: %v", err)
	}
}

// ExportPNGHandler downloads a PNG of the diagram. An empty diagram is
// logged and answered with 204, an oversized one with 422.
func (a *API) ExportPNGHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	snap := a.coord.Store().Snapshot()
	var buf bytes.Buffer
	if err := render.PNG(&buf, snap, a.render); err != nil {
		log.Printf("Error exporting image: %v", err)
		switch {
		case errors.Is(err, render.ErrEmptyDiagram):
			w.WriteHeader(http.StatusNoContent)
			return
		case errors.Is(err, render.ErrDiagramTooLarge):
			http.Error(w, "Diagram too large to export", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", attachment(parser.ImageFileName(snap.ProjectName)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing image: %v", err)
	}
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
