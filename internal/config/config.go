// Package config loads screenflow settings from a TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds screenflow configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Render  RenderConfig  `toml:"render"`
	Catalog CatalogConfig `toml:"catalog"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	CORSOrigin string `toml:"cors_origin"`
}

// CanvasConfig describes the editor chrome subtracted from drop points.
type CanvasConfig struct {
	SidePanelWidth float64 `toml:"side_panel_width"`
	TopBarHeight   float64 `toml:"top_bar_height"`
}

// RenderConfig controls PNG export.
type RenderConfig struct {
	Scale float64 `toml:"scale"`
}

// CatalogConfig points at extra archetype files.
type CatalogConfig struct {
	Dir string `toml:"dir"` // directory of *.toml archetype files, optional
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080", CORSOrigin: "*"},
		Canvas: CanvasConfig{SidePanelWidth: 320, TopBarHeight: 100},
		Render: RenderConfig{Scale: 2},
	}
}

// ConfigDir returns the screenflow config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "screenflow")
}

// Path returns the location of config.toml.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file and applies environment overrides. A missing
// or unreadable file leaves the defaults in place.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		cfg = Default()
	}
	applyEnv(cfg)
	return cfg
}

// LoadFile reads path over the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Addr = getEnv("SCREENFLOW_ADDR", cfg.Server.Addr)
	cfg.Server.CORSOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.Server.CORSOrigin)
	cfg.Catalog.Dir = getEnv("SCREENFLOW_CATALOG_DIR", cfg.Catalog.Dir)
	cfg.Render.Scale = getEnvFloat("SCREENFLOW_RENDER_SCALE", cfg.Render.Scale)
	cfg.Canvas.SidePanelWidth = getEnvFloat("SCREENFLOW_SIDE_PANEL_WIDTH", cfg.Canvas.SidePanelWidth)
	cfg.Canvas.TopBarHeight = getEnvFloat("SCREENFLOW_TOP_BAR_HEIGHT", cfg.Canvas.TopBarHeight)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}
