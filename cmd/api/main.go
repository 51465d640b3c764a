// Package main starts the screenflow HTTP server. It serves the node-type
// catalog, the project held in memory and a websocket feed of state changes
// to the browser editor.
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/screenflow/core/cmd/api/middleware"
	"github.com/screenflow/core/internal/catalog"
	"github.com/screenflow/core/internal/config"
	"github.com/screenflow/core/internal/coordinator"
	"github.com/screenflow/core/internal/handlers"
	"github.com/screenflow/core/internal/render"
	"github.com/screenflow/core/internal/store"
)

func newServer(cfg *config.Config) (http.Handler, error) {
	cat, err := catalog.LoadAll(cfg.Catalog.Dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	coord := coordinator.New(store.New(cat), coordinator.WithLayout(coordinator.Layout{
		SidePanelWidth: cfg.Canvas.SidePanelWidth,
		TopBarHeight:   cfg.Canvas.TopBarHeight,
	}))
	api := handlers.New(cat, coord,
		handlers.WithRenderOptions(render.Options{Scale: cfg.Render.Scale}),
		handlers.WithAllowedOrigin(cfg.Server.CORSOrigin),
	)

	mux := http.NewServeMux()
	api.Routes(mux)
	return middleware.Cors(cfg.Server.CORSOrigin)(mux), nil
}

func main() {
	cfg := config.Load()

	handler, err := newServer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("🚀 Server starting on %s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}
