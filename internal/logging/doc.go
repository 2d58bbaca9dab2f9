// Package logging assembles structured slog loggers and formatting helpers used
// across spotigrab.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including the rotating JSON log file), and exposes context-aware
// helpers so batch code can tag log lines with run IDs, playlists, track keys,
// and per-track stages. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the tool.
package logging
