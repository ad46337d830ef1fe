// Package config loads stockboard's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stockboard/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// Command-line flags are applied afterwards with WithOverrides.
//
// # Fields
//
//	source_url = "https://raw.githubusercontent.com/9477781/goods-sales-data/main/inventory.json"
//	poll_interval_ms = 30000
//	request_timeout_ms = 10000
//	fallback_path = ""        # JSON file shown when the first fetch fails
//	disable_fallback = false  # show the error instead of any fallback
//	log_path = "~/.local/state/stockboard/stockboard.log"
//	log_level = "info"
//	metrics_path = ""         # Prometheus textfile, disabled when blank
//
// Every field is optional. Tilde expansion is performed for paths.
// Non-positive intervals and timeouts fall back to their defaults.
//
// # Fallback Dataset
//
// Config.Fallback resolves what the dashboard shows when the very first fetch
// fails: nothing when disable_fallback is set, the file at fallback_path when
// given, and the built-in sample dataset otherwise.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - A source_url that is not an absolute http or https URL
//
// Missing config files are NOT an error. stockboard works out of the box
// against the public inventory document.
package config
