// Package config handles configuration loading and management for xhrkit.
//
// It provides functionality for:
//   - Loading configuration from .xhrkit.yaml, .xhrkit.yml or .xhrkit.json files
//   - Default configuration values
//   - Merging command line overrides over file settings
package config
