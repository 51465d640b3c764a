// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"net/http"
	"runtime"
	"strconv"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Uptime    string            `json:"uptime,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

var startTime = time.Now()

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}

	s := a.coord.Store()
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   "screenflow-api",
		Uptime:    time.Since(startTime).String(),
		Details: map[string]string{
			"go_version":  runtime.Version(),
			"num_cpu":     strconv.Itoa(runtime.NumCPU()),
			"archetypes":  strconv.Itoa(a.catalog.Len()),
			"nodes":       strconv.Itoa(s.NodeCount()),
			"edges":       strconv.Itoa(s.EdgeCount()),
			"subscribers": strconv.Itoa(a.hub.Len()),
		},
	}

	writeJSON(w, r, http.StatusOK, response)
}
