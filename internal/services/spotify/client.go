package spotify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"spotigrab/internal/logging"
	"spotigrab/internal/services"
	"spotigrab/internal/track"
)

const pageLimit = 100

// Playlist is a fetched playlist with its resolvable tracks.
type Playlist struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Owner   string         `json:"owner"`
	Tracks  []track.Record `json:"tracks"`
	Skipped int            `json:"skipped,omitempty"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the OAuth-backed HTTP client (primarily for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the API client at a different endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(base)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps the Spotify Web API.
type Client struct {
	api        *spotify.Client
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New constructs a client authenticated with the client-credentials flow.
// Tokens are fetched lazily on the first request.
func New(ctx context.Context, clientID, clientSecret string, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
			return nil, services.Wrap(services.ErrConfiguration, "spotify", "authenticate", "client id and secret required", nil)
		}
		creds := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		}
		c.httpClient = creds.Client(ctx)
	}
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}

	apiOpts := []spotify.ClientOption{spotify.WithRetry(true)}
	if c.baseURL != "" {
		base := c.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		apiOpts = append(apiOpts, spotify.WithBaseURL(base))
	}
	c.api = spotify.New(c.httpClient, apiOpts...)
	c.logger = logging.NewComponentLogger(c.logger, "spotify")
	return c, nil
}

// Playlist fetches a playlist and all of its tracks.
func (c *Client) Playlist(ctx context.Context, ref string) (Playlist, error) {
	id, err := ParseID(KindPlaylist, ref)
	if err != nil {
		return Playlist{}, services.Wrap(services.ErrValidation, "spotify", "parse playlist", err.Error(), nil)
	}

	full, err := c.api.GetPlaylist(ctx, id)
	if err != nil {
		return Playlist{}, classify(err, "get playlist")
	}

	pl := Playlist{
		ID:    string(full.ID),
		Name:  full.Name,
		Owner: ownerName(full.Owner),
	}

	offset := 0
	for {
		page, err := c.api.GetPlaylistItems(ctx, id, spotify.Limit(pageLimit), spotify.Offset(offset))
		if err != nil {
			return Playlist{}, classify(err, "get playlist items")
		}
		for _, item := range page.Items {
			if item.IsLocal || item.Track.Track == nil {
				pl.Skipped++
				continue
			}
			pl.Tracks = append(pl.Tracks, recordFromTrack(item.Track.Track))
		}
		offset += len(page.Items)
		if len(page.Items) < pageLimit || (int(page.Total) > 0 && offset >= int(page.Total)) {
			break
		}
	}

	c.logger.Info("fetched playlist",
		logging.String(logging.FieldEventType, "playlist_fetched"),
		logging.String(logging.FieldPlaylist, pl.Name),
		logging.String("owner", pl.Owner),
		logging.Int("tracks", len(pl.Tracks)),
		logging.Int("skipped", pl.Skipped))
	return pl, nil
}

// Track fetches a single track.
func (c *Client) Track(ctx context.Context, ref string) (track.Record, error) {
	id, err := ParseID(KindTrack, ref)
	if err != nil {
		return track.Record{}, services.Wrap(services.ErrValidation, "spotify", "parse track", err.Error(), nil)
	}
	full, err := c.api.GetTrack(ctx, id)
	if err != nil {
		return track.Record{}, classify(err, "get track")
	}
	return recordFromTrack(full), nil
}

func recordFromTrack(ft *spotify.FullTrack) track.Record {
	artists := make([]string, 0, len(ft.Artists))
	for _, a := range ft.Artists {
		if name := strings.TrimSpace(a.Name); name != "" {
			artists = append(artists, name)
		}
	}
	rec := track.Record{
		Artist:     strings.Join(artists, ", "),
		Title:      strings.TrimSpace(ft.Name),
		Album:      strings.TrimSpace(ft.Album.Name),
		DurationMS: int(ft.Duration),
	}
	if len(ft.Album.Images) > 0 {
		rec.CoverURL = largestImage(ft.Album.Images)
	}
	return rec
}

func largestImage(images []spotify.Image) string {
	best := images[0]
	for _, img := range images[1:] {
		if img.Width*img.Height > best.Width*best.Height {
			best = img
		}
	}
	return best.URL
}

func ownerName(owner spotify.User) string {
	if name := strings.TrimSpace(owner.DisplayName); name != "" {
		return name
	}
	return owner.ID
}

func classify(err error, operation string) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return services.Wrap(services.ErrNotFound, "spotify", operation, apiErr.Message, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "spotify", operation, "check client credentials", err)
		case http.StatusTooManyRequests:
			return services.Wrap(services.ErrTransient, "spotify", operation, "rate limited", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "spotify", operation, "request timed out", err)
	}
	return services.Wrap(services.ErrExternalTool, "spotify", operation, "request failed", err)
}
