package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"spotigrab/internal/logging"
	"spotigrab/internal/services"
	"spotigrab/internal/track"
)

const (
	defaultSearchLimit = 5
	socketTimeout      = 30
	retries            = "3"
)

// Executor abstracts yt-dlp execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd *ytdlp.Command, target string) (Output, error)
}

// Output is what a yt-dlp invocation printed.
type Output struct {
	Stdout string
	Stderr string
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, cmd *ytdlp.Command, target string) (Output, error) {
	res, err := cmd.Run(ctx, target)
	if res == nil {
		return Output{}, err
	}
	return Output{Stdout: res.Stdout, Stderr: res.Stderr}, err
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithFFmpeg sets the ffmpeg location handed to yt-dlp.
func WithFFmpeg(path string) Option {
	return func(c *Client) {
		c.ffmpeg = strings.TrimSpace(path)
	}
}

// WithCookiesFile sets the Netscape cookie file passed to yt-dlp when it
// exists. The browser store is never read here; see CookieRefresher.
func WithCookiesFile(file string) Option {
	return func(c *Client) {
		c.cookiesFile = strings.TrimSpace(file)
	}
}

// WithTimeouts bounds search and download invocations. Zero disables a bound.
func WithTimeouts(search, download time.Duration) Option {
	return func(c *Client) {
		c.searchTimeout = search
		c.downloadTimeout = download
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

// Client wraps yt-dlp search, lookup, and audio download.
type Client struct {
	binary          string
	ffmpeg          string
	searchTimeout   time.Duration
	downloadTimeout time.Duration
	exec            Executor
	logger          *slog.Logger

	mu          sync.RWMutex
	cookiesFile string
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	c := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "ytdlp")
	return c, nil
}

// CookiesFile returns the cookie file currently passed to yt-dlp.
func (c *Client) CookiesFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookiesFile
}

// SetCookiesFile switches subsequent invocations to a different cookie file.
func (c *Client) SetCookiesFile(path string) {
	c.mu.Lock()
	c.cookiesFile = strings.TrimSpace(path)
	c.mu.Unlock()
}

// Search runs a keyword search and returns up to limit candidates.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]track.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "ytdlp", "search", "empty query", nil)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	ctx, cancel := withTimeout(ctx, c.searchTimeout)
	defer cancel()

	cmd := c.base().FlatPlaylist().DumpSingleJSON().SkipDownload()
	out, err := c.exec.Run(ctx, cmd, fmt.Sprintf("ytsearch%d:%s", limit, query))
	if err != nil {
		return nil, c.classify(ctx, "search", out, err)
	}
	doc, err := decodeInfo(out.Stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "ytdlp", "search", "decode results", err)
	}
	candidates := make([]track.Candidate, 0, len(doc.Entries))
	for _, entry := range doc.Entries {
		if entry == nil {
			continue
		}
		candidate, ok := entry.candidate()
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
		if len(candidates) == limit {
			break
		}
	}
	c.logger.Debug("search completed",
		logging.String("query", query),
		logging.Int("results", len(candidates)),
	)
	return candidates, nil
}

// Info resolves a single video URL into a candidate.
func (c *Client) Info(ctx context.Context, videoURL string) (track.Candidate, error) {
	normalized, err := NormalizeVideoURL(videoURL)
	if err != nil {
		return track.Candidate{}, services.Wrap(services.ErrValidation, "ytdlp", "info", err.Error(), nil)
	}
	ctx, cancel := withTimeout(ctx, c.searchTimeout)
	defer cancel()

	cmd := c.base().NoPlaylist().DumpSingleJSON().SkipDownload()
	out, err := c.exec.Run(ctx, cmd, normalized)
	if err != nil {
		return track.Candidate{}, c.classify(ctx, "info", out, err)
	}
	doc, err := decodeInfo(out.Stdout)
	if err != nil {
		return track.Candidate{}, services.Wrap(services.ErrExternalTool, "ytdlp", "info", "decode video info", err)
	}
	if doc.Type == "playlist" {
		if len(doc.Entries) == 0 || doc.Entries[0] == nil {
			return track.Candidate{}, services.Wrap(services.ErrNotFound, "ytdlp", "info", "playlist has no entries", nil)
		}
		doc = *doc.Entries[0]
	}
	candidate, ok := doc.candidate()
	if !ok {
		candidate.URL = normalized
	}
	return candidate, nil
}

// Download extracts the audio of videoURL into outputTemplate. The template
// uses yt-dlp syntax and must end in ".%(ext)s".
func (c *Client) Download(ctx context.Context, videoURL, outputTemplate, format, quality string) error {
	normalized, err := NormalizeVideoURL(videoURL)
	if err != nil {
		return services.Wrap(services.ErrValidation, "ytdlp", "download", err.Error(), nil)
	}
	if strings.TrimSpace(outputTemplate) == "" {
		return services.Wrap(services.ErrValidation, "ytdlp", "download", "output template required", nil)
	}
	ctx, cancel := withTimeout(ctx, c.downloadTimeout)
	defer cancel()

	cmd := c.base().
		Format("bestaudio/best").
		ExtractAudio().
		AudioFormat(format).
		AudioQuality(quality).
		NoPlaylist().
		Retries(retries).
		FragmentRetries(retries).
		Output(outputTemplate)
	if c.ffmpeg != "" {
		cmd = cmd.FFmpegLocation(c.ffmpeg)
	}

	started := time.Now()
	out, err := c.exec.Run(ctx, cmd, normalized)
	if err != nil {
		return c.classify(ctx, "download", out, err)
	}
	c.logger.Debug("download completed",
		logging.String("url", normalized),
		logging.String("output_template", outputTemplate),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// base returns a command carrying the flags every invocation shares.
func (c *Client) base() *ytdlp.Command {
	cmd := ytdlp.New().
		SetExecutable(c.binary).
		Quiet().
		NoWarnings().
		ForceIPv4().
		SocketTimeout(socketTimeout)

	if file := c.CookiesFile(); file != "" && fileExists(file) {
		cmd = cmd.Cookies(file)
	}
	return cmd
}

func (c *Client) classify(ctx context.Context, operation string, out Output, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "ytdlp", operation, "yt-dlp timed out", ctxErr)
		}
		return ctxErr
	}
	detail := lastLine(out.Stderr)
	if services.MentionsRestriction(err.Error()) || services.MentionsRestriction(out.Stderr) {
		return services.Wrap(services.ErrAccessRestricted, "ytdlp", operation, detail, err)
	}
	return services.Wrap(services.ErrExternalTool, "ytdlp", operation, detail, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
