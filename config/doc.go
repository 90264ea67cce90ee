// Package config loads and validates guardkit configuration.
//
// It uses Viper to load configuration from YAML files and environment
// variables. Config files are resolved from an explicit path or searched
// in standard locations, a .env file is applied when present, and
// GUARDKIT_-prefixed environment variables override file values using
// underscore-separated paths (e.g. GUARDKIT_RETRY_MAX_ATTEMPTS).
package config
