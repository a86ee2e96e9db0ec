// Package config loads, normalizes, and validates the trackscan TOML
// configuration. Values resolve in order: defaults, config file, environment
// fallbacks (TMDB_API_KEY). Path fields are tilde-expanded and absolute after
// Load returns.
package config
