package batch

import (
	"context"
	"log/slog"

	"spotigrab/internal/logging"
	"spotigrab/internal/track"
)

// Consent asks whether credentials may be refreshed for n restricted tracks.
type Consent interface {
	Confirm(ctx context.Context, restricted int) bool
}

// CredentialRefresher obtains fresh credentials for the downloader.
type CredentialRefresher interface {
	Refresh(ctx context.Context) bool
}

// Runner executes a batch. *Orchestrator satisfies it.
type Runner interface {
	RunBatch(ctx context.Context, b Batch) []track.Failure
}

// ConsentFunc adapts a function to Consent.
type ConsentFunc func(ctx context.Context, restricted int) bool

// Confirm calls f.
func (f ConsentFunc) Confirm(ctx context.Context, restricted int) bool {
	return f(ctx, restricted)
}

// Recovery retries access-restricted tracks after a credential refresh.
type Recovery struct {
	runner      Runner
	consent     Consent
	refresher   CredentialRefresher
	maxAttempts int
	logger      *slog.Logger
}

// NewRecovery builds a recovery loop. maxAttempts below one disables retries.
func NewRecovery(runner Runner, consent Consent, refresher CredentialRefresher, maxAttempts int, logger *slog.Logger) *Recovery {
	return &Recovery{
		runner:      runner,
		consent:     consent,
		refresher:   refresher,
		maxAttempts: maxAttempts,
		logger:      logging.NewComponentLogger(logger, "recovery"),
	}
}

// Recover returns the final failure list for b. Restricted entries are kept
// as permanent when consent is declined or the refresh fails.
func (r *Recovery) Recover(ctx context.Context, failures []track.Failure, b Batch) []track.Failure {
	current := failures
	logger := logging.WithContext(ctx, r.logger)
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		keys := RestrictedKeys(current)
		if len(keys) == 0 || ctx.Err() != nil {
			return current
		}
		if r.consent == nil || !r.consent.Confirm(ctx, len(keys)) {
			logger.Info("credential refresh declined",
				logging.String(logging.FieldEventType, "recovery_declined"),
				logging.Int("restricted", len(keys)),
			)
			return current
		}
		if r.refresher == nil || !r.refresher.Refresh(ctx) {
			logging.WarnWithContext(logger, "credential refresh failed", "recovery_refresh_failed",
				logging.String(logging.FieldErrorHint, "sign in to YouTube in the configured browser and rerun"),
				logging.String(logging.FieldImpact, "restricted tracks reported as failed"),
				logging.Alert("restricted_tracks_unrecovered"),
				logging.Int("restricted", len(keys)),
			)
			return current
		}
		subset := b.Subset(keys)
		logger.Info("retrying restricted tracks",
			logging.String(logging.FieldEventType, "recovery_retry"),
			logging.Int("attempt", attempt),
			logging.Int("tracks", subset.Len()),
		)
		current = Merge(current, r.runner.RunBatch(ctx, subset))
	}
	return current
}

// RestrictedKeys returns the distinct keys of access-restricted failures in
// first-seen order.
func RestrictedKeys(failures []track.Failure) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, f := range failures {
		if f.Reason != track.ReasonAccessRestricted {
			continue
		}
		if _, dup := seen[f.Key]; dup {
			continue
		}
		seen[f.Key] = struct{}{}
		keys = append(keys, f.Key)
	}
	return keys
}

// Merge replaces the restricted entries of previous with the outcome of a
// re-run. Tracks absent from rerun succeeded.
func Merge(previous, rerun []track.Failure) []track.Failure {
	merged := make([]track.Failure, 0, len(previous)+len(rerun))
	for _, f := range previous {
		if f.Reason != track.ReasonAccessRestricted {
			merged = append(merged, f)
		}
	}
	return append(merged, rerun...)
}
