// Package config loads, normalizes, and validates spotigrab configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays environment variables such as
// SPOTIFY_CLIENT_ID and SPOTIGRAB_MUSIC_DIR. The Config type centralizes every
// knob the CLI needs so catalog credentials, yt-dlp settings, and ranking
// weights are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
