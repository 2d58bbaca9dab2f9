// Package services defines shared utilities consumed by the batch pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, track keys, playlist names, and
//     per-track stages for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent per-track failure reasons.
//
// Integrations with the catalog API and the video downloader live in the
// spotify and ytdlp subpackages.
package services
