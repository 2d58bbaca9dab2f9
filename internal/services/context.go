package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	trackKeyKey contextKey = "track_key"
	stageKey    contextKey = "stage"
	playlistKey contextKey = "playlist"
)

// WithRunID annotates context with the identifier of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTrackKey annotates context with the dedup key of the track being processed.
func WithTrackKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, trackKeyKey, key)
}

// TrackKeyFromContext returns the track key if present.
func TrackKeyFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(trackKeyKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the per-track step (search, download, tag).
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithPlaylist annotates context with the playlist being downloaded.
func WithPlaylist(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, playlistKey, name)
}

// PlaylistFromContext returns the playlist name if present.
func PlaylistFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(playlistKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
