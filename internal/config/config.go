package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields Ladle needs to reach the FoodShare API and
// describe the local device.
type Config struct {
	APIBase      string
	SessionToken string
	GeocoderBase string

	LocationEnabled bool
	Latitude        *float64
	Longitude       *float64
}

const (
	defaultConfigPath   = "~/.config/ladle/config.toml"
	defaultAPIBase      = "127.0.0.1:8642"
	defaultGeocoderBase = "https://nominatim.openstreetmap.org"
)

// Load locates and parses the Ladle config, falling back to defaults
// when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIBase: defaultAPIBase, GeocoderBase: defaultGeocoderBase}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase      string `toml:"api_base"`
		SessionToken string `toml:"session_token"`
		GeocoderBase string `toml:"geocoder_base"`
		Location     struct {
			Enabled   bool     `toml:"enabled"`
			Latitude  *float64 `toml:"latitude"`
			Longitude *float64 `toml:"longitude"`
		} `toml:"location"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBase = strings.TrimSpace(raw.APIBase)
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}

	cfg.SessionToken = strings.TrimSpace(raw.SessionToken)

	cfg.GeocoderBase = strings.TrimSpace(raw.GeocoderBase)
	if cfg.GeocoderBase == "" {
		cfg.GeocoderBase = defaultGeocoderBase
	}

	cfg.LocationEnabled = raw.Location.Enabled
	cfg.Latitude = raw.Location.Latitude
	cfg.Longitude = raw.Location.Longitude

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
