// Package config handles loading and parsing Ladle configuration files.
//
// # Overview
//
// This package reads Ladle's TOML configuration to discover the FoodShare
// API endpoint, the session token used for authenticated requests, and the
// device's location settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/ladle/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/ladle/config.toml
//   - API endpoint: 127.0.0.1:8642
//   - Geocoder: https://nominatim.openstreetmap.org
//   - Location: disabled, no fixed coordinates
//
// # TOML Format
//
// Example config.toml:
//
//	api_base = "foodshare.example.org:443"
//	session_token = "tok-123"
//	geocoder_base = "https://nominatim.openstreetmap.org"
//
//	[location]
//	enabled = true
//	latitude = 51.5072
//	longitude = -0.1276
//
// All fields are optional. Tilde expansion is performed on the config path.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
// This allows Ladle to work out-of-the-box against a local FoodShare
// daemon without any configuration file.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	client, err := foodshare.NewClient(cfg.APIBase, cfg.SessionToken)
//
// The config package is read-only and stateless - it loads configuration
// once at startup and returns an immutable Config struct. No global state
// or singleton patterns are used.
package config
