package spotify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/zmb3/spotify/v2"
)

// Kind is the Spotify object type encoded in a URL or URI.
type Kind string

const (
	KindPlaylist Kind = "playlist"
	KindTrack    Kind = "track"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9]{10,32}$`)

// ParseID extracts the object ID from an open.spotify.com URL, a spotify:
// URI, or a bare ID. The object type in URLs and URIs must match kind.
func ParseID(kind Kind, raw string) (spotify.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty %s reference", kind)
	}

	var id string
	switch {
	case strings.HasPrefix(raw, "spotify:"):
		parts := strings.Split(raw, ":")
		if len(parts) != 3 || parts[1] != string(kind) {
			return "", fmt.Errorf("not a %s URI: %q", kind, raw)
		}
		id = parts[2]
	case strings.Contains(raw, "/"):
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("parse %s url: %w", kind, err)
		}
		if !strings.HasSuffix(strings.ToLower(u.Hostname()), "spotify.com") {
			return "", fmt.Errorf("not a spotify url: %q", raw)
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segments); i++ {
			if segments[i] == string(kind) {
				id = segments[i+1]
				break
			}
		}
		if id == "" {
			return "", fmt.Errorf("not a %s url: %q", kind, raw)
		}
	default:
		id = raw
	}

	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("invalid %s id %q", kind, id)
	}
	return spotify.ID(id), nil
}
