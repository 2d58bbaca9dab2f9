package services

import (
	"errors"
	"fmt"
	"strings"

	"spotigrab/internal/track"
)

var (
	ErrExternalTool     = errors.New("external tool error")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrNotFound         = errors.New("not found")
	ErrTimeout          = errors.New("timeout")
	ErrTransient        = errors.New("transient failure")
	ErrAccessRestricted = errors.New("access restricted")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// restrictionMarkers are lowercase fragments the downloader prints for videos
// that need a signed-in session.
var restrictionMarkers = []string{
	"confirm your age",
	"age-restricted",
	"age restricted",
	"sign in to confirm",
}

// MentionsRestriction reports whether text carries an access-restriction marker.
func MentionsRestriction(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range restrictionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// FailureReason maps a download error to the per-track failure reason
// reported at the end of a batch.
func FailureReason(err error) track.Reason {
	switch {
	case err == nil:
		return track.ReasonDownloadError
	case errors.Is(err, ErrAccessRestricted), MentionsRestriction(err.Error()):
		return track.ReasonAccessRestricted
	case errors.Is(err, ErrNotFound):
		return track.ReasonFileMissing
	default:
		return track.ReasonDownloadError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
