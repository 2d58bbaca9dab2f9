package ytdlp

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"spotigrab/internal/logging"
)

// CookieRefresher exports the browser session into a Netscape cookie file by
// asking yt-dlp to read the browser store and save the jar. The client is
// switched to the refreshed file on success.
type CookieRefresher struct {
	client   *Client
	target   string
	browser  string
	probeURL string
	logger   *slog.Logger
}

// NewCookieRefresher builds a refresher that writes to target.
func NewCookieRefresher(client *Client, target, browser, probeURL string, logger *slog.Logger) *CookieRefresher {
	return &CookieRefresher{
		client:   client,
		target:   strings.TrimSpace(target),
		browser:  strings.TrimSpace(browser),
		probeURL: strings.TrimSpace(probeURL),
		logger:   logging.NewComponentLogger(logger, "cookies"),
	}
}

// Refresh reports whether a non-empty cookie file was produced.
func (r *CookieRefresher) Refresh(ctx context.Context) bool {
	if r == nil || r.client == nil || r.target == "" || r.browser == "" || r.probeURL == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(r.target), 0o755); err != nil {
		logging.WarnWithContext(r.logger, "cookie directory unavailable", "cookie_refresh_failed",
			logging.String(logging.FieldErrorHint, "check permissions on the cookie file directory"),
			logging.String(logging.FieldImpact, "restricted tracks stay failed"),
			logging.Error(err),
		)
		return false
	}

	ctx, cancel := withTimeout(ctx, r.client.searchTimeout)
	defer cancel()

	cmd := ytdlp.New().
		SetExecutable(r.client.binary).
		Quiet().
		NoWarnings().
		SkipDownload().
		NoPlaylist().
		CookiesFromBrowser(r.browser).
		Cookies(r.target)
	out, err := r.client.exec.Run(ctx, cmd, r.probeURL)
	if err != nil {
		logging.WarnWithContext(r.logger, "cookie export failed", "cookie_refresh_failed",
			logging.String(logging.FieldErrorHint, "sign in to the browser and close it so its cookie store is readable"),
			logging.String(logging.FieldImpact, "restricted tracks stay failed"),
			logging.String("browser", r.browser),
			logging.String("stderr", lastLine(out.Stderr)),
			logging.Error(err),
		)
		return false
	}
	info, err := os.Stat(r.target)
	if err != nil || info.Size() == 0 {
		logging.WarnWithContext(r.logger, "cookie export produced no file", "cookie_refresh_failed",
			logging.String(logging.FieldErrorHint, "verify the configured browser has a YouTube session"),
			logging.String(logging.FieldImpact, "restricted tracks stay failed"),
			logging.String("cookies_path", r.target),
		)
		return false
	}
	r.client.SetCookiesFile(r.target)
	r.logger.Info("cookies refreshed",
		logging.String(logging.FieldEventType, "cookie_refresh_succeeded"),
		logging.String("browser", r.browser),
		logging.String("cookies_path", r.target),
	)
	return true
}
