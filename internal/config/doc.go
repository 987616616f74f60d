// Package config loads, normalizes, and validates mediadock configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DISCORD_WEBHOOK_URL and STORAGE_API_URL. The Config type centralizes every
// knob the daemon and CLI need, so the media root, the database location and
// the three HTTP surfaces are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
