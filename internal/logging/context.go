package logging

import (
	"context"
	"log/slog"

	"spotigrab/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for the run identifier.
	FieldRunID = "run_id"
	// FieldTrackKey is the standardized structured logging key for "artist - title" dedup keys.
	FieldTrackKey = "track_key"
	// FieldStage is the standardized structured logging key for per-track steps (search, download, tag).
	FieldStage = "stage"
	// FieldPlaylist is the standardized structured logging key for the playlist being processed.
	FieldPlaylist = "playlist"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint carries the suggested next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name, ok := services.PlaylistFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPlaylist, name))
	}
	if key, ok := services.TrackKeyFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTrackKey, key))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
