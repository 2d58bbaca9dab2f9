package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spotigrab/internal/config"
	"spotigrab/internal/logging"
	"spotigrab/internal/services"
	"spotigrab/internal/track"
)

const (
	coverDirName = "covers"
	coverTimeout = 20 * time.Second
)

// Option configures the tagger.
type Option func(*Tagger)

// WithHTTPClient sets the client used for cover downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Tagger) {
		if client != nil {
			t.http = client
		}
	}
}

// WithRemuxer replaces the ffmpeg remuxer used for non-MP3 files.
func WithRemuxer(r Remuxer) Option {
	return func(t *Tagger) {
		if r != nil {
			t.remuxer = r
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Tagger writes metadata and cover art into finished downloads.
type Tagger struct {
	embedCover    bool
	saveCovers    bool
	coverSize     int
	coverMaxBytes int
	http          *http.Client
	remuxer       Remuxer
	logger        *slog.Logger
}

// New constructs a tagger from the tagging section and the ffmpeg binary used
// for non-MP3 containers.
func New(cfg config.Tagging, ffmpegBinary string, opts ...Option) *Tagger {
	t := &Tagger{
		embedCover:    cfg.EmbedCover,
		saveCovers:    cfg.SaveCovers,
		coverSize:     cfg.CoverSize,
		coverMaxBytes: cfg.CoverMaxKiB * 1024,
		http:          &http.Client{Timeout: coverTimeout},
		remuxer:       ffmpegRemuxer{binary: ffmpegBinary},
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "tagging")
	return t
}

// Tag writes rec into the file at path. Cover problems are logged and do not
// fail the call.
func (t *Tagger) Tag(ctx context.Context, path string, rec track.Record) error {
	if _, err := os.Stat(path); err != nil {
		return services.Wrap(services.ErrNotFound, "tagging", "tag", "audio file missing", err)
	}
	logger := t.logger.With(logging.String("file", filepath.Base(path)))

	var cover []byte
	if rec.CoverURL != "" && (t.embedCover || t.saveCovers) {
		var err error
		cover, err = t.cover(ctx, rec.CoverURL)
		if err != nil {
			logging.WarnWithContext(logger, "cover art unavailable", "cover_fetch_failed",
				logging.String(logging.FieldErrorHint, "the file is tagged without artwork"),
				logging.String(logging.FieldImpact, "track has no embedded cover"),
				logging.String("cover_url", rec.CoverURL),
				logging.Error(err),
			)
			cover = nil
		}
	}
	if len(cover) > 0 && t.saveCovers {
		if err := saveCover(path, cover); err != nil {
			logging.WarnWithContext(logger, "cover copy not saved", "cover_save_failed",
				logging.String(logging.FieldErrorHint, "check write permissions on the playlist directory"),
				logging.Error(err),
			)
		}
	}

	embedded := cover
	if !t.embedCover {
		embedded = nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		err = writeID3(path, rec, embedded)
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = remuxWithMetadata(t.remuxer, path, rec)
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tagging", "write tags", filepath.Base(path), err)
	}
	logger.Debug("tags written",
		logging.Bool("cover_embedded", len(embedded) > 0),
	)
	return nil
}

func (t *Tagger) cover(ctx context.Context, url string) ([]byte, error) {
	raw, err := FetchCover(ctx, t.http, url)
	if err != nil {
		return nil, err
	}
	return NormalizeCover(raw, t.coverSize, t.coverMaxBytes)
}

// CoverPath returns where the cover copy for an audio file is stored.
func CoverPath(audioPath string) string {
	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(filepath.Dir(audioPath), coverDirName, stem+".jpg")
}

func saveCover(audioPath string, data []byte) error {
	target := CoverPath(audioPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create cover dir: %w", err)
	}
	return os.WriteFile(target, data, 0o644)
}
