package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spotigrab/internal/batch"
	"spotigrab/internal/config"
	"spotigrab/internal/deps"
	"spotigrab/internal/fileutil"
	"spotigrab/internal/logging"
	"spotigrab/internal/matcher"
	"spotigrab/internal/searchcache"
	"spotigrab/internal/services"
	"spotigrab/internal/services/spotify"
	"spotigrab/internal/services/ytdlp"
	"spotigrab/internal/tagging"
)

const autoCookiesFile = "cookies.txt"

// pipeline bundles everything a download command needs.
type pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	stderr   io.Writer
	client   *ytdlp.Client
	cache    *searchcache.Cache
	finder   *matcher.Finder
	runner   batch.Runner
	recovery *batch.Recovery
}

// playlistSource resolves a playlist reference. *spotify.Client satisfies it.
type playlistSource interface {
	Playlist(ctx context.Context, ref string) (spotify.Playlist, error)
}

type pipelineOptions struct {
	workers  int
	observer func(batch.Outcome)
	consent  batch.Consent
}

func buildPipeline(cfg *config.Config, logger *slog.Logger, stderr io.Writer, opts pipelineOptions) (*pipeline, error) {
	if missing := deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %s (run 'spotigrab deps' for details)", missing[0].Name, missing[0].Detail)
	}
	ffmpeg := deps.ResolveFFmpeg(cfg.FFmpegBinary())
	if !ffmpeg.Available {
		return nil, fmt.Errorf("ffmpeg: %s", ffmpeg.Detail)
	}

	cwd, _ := os.Getwd()
	cookies, hint := resolveCookies(cfg, cwd)
	if hint != "" {
		fmt.Fprintln(stderr, hint)
	}

	client, err := ytdlp.New(cfg.YtDlpBinary(),
		ytdlp.WithFFmpeg(ffmpeg.Command),
		ytdlp.WithCookiesFile(cookies),
		ytdlp.WithTimeouts(seconds(cfg.YouTube.SearchTimeout), seconds(cfg.Download.Timeout)),
		ytdlp.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	cache := searchcache.New(logger)
	finder, err := matcher.NewFinder(client, cache, matcher.PolicyFromConfig(cfg.Matching),
		matcher.WithSearchLimit(cfg.YouTube.SearchResults),
		matcher.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	tagger := tagging.New(cfg.Tagging, ffmpeg.Command, tagging.WithLogger(logger))

	workers := cfg.Download.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}
	runner, err := batch.New(finder, client, tagger,
		batch.WithWorkers(workers),
		batch.WithAudio(cfg.Download.AudioFormat, cfg.Download.AudioQuality),
		batch.WithObserver(opts.observer),
		batch.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		cfg:    cfg,
		logger: logger,
		stderr: stderr,
		client: client,
		cache:  cache,
		finder: finder,
		runner: runner,
	}
	if cfg.Recovery.Enabled && cfg.YouTube.CookiesBrowser != "" {
		refresher := ytdlp.NewCookieRefresher(client, cfg.CookiesTarget(), cfg.YouTube.CookiesBrowser, cfg.YouTube.ProbeURL, logger)
		p.recovery = batch.NewRecovery(runner, opts.consent, refresher, cfg.Recovery.MaxAttempts, logger)
	}
	return p, nil
}

// run downloads b and, when enabled, retries restricted tracks.
func (p *pipeline) run(ctx context.Context, b batch.Batch) batchResult {
	started := time.Now()
	failures := p.runner.RunBatch(ctx, b)
	if p.recovery != nil {
		failures = p.recovery.Recover(ctx, failures, b)
	}
	return batchResult{
		Dir:      b.Dir,
		Total:    b.Len(),
		Failures: failures,
		Elapsed:  time.Since(started),
	}
}

// downloadPlaylists fetches and downloads each ref in order into its own
// directory under root. A ref that cannot be fetched is recorded in the
// report and skipped. With fresh set, search results are not shared between
// playlists. emit receives each playlist's result as soon as it finishes.
func (p *pipeline) downloadPlaylists(ctx context.Context, source playlistSource, refs []string, root string, fresh bool, emit func(batchResult)) (downloadReport, error) {
	var report downloadReport
	for i, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		if fresh && i > 0 {
			p.cache.Clear()
		}
		pl, err := source.Playlist(ctx, ref)
		if err != nil {
			logging.ErrorWithContext(logging.WithContext(ctx, p.logger), "playlist fetch failed", "playlist_fetch_failed",
				logging.String(logging.FieldErrorHint, "check the playlist URL and that the playlist is public"),
				logging.String("playlist_ref", ref),
				logging.Error(err),
			)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", ref, err))
			continue
		}
		if len(pl.Tracks) == 0 {
			fmt.Fprintf(p.stderr, "%s has no downloadable tracks\n", pl.Name)
			continue
		}
		dir, err := outputDir(root, batch.PlaylistDirName(pl.Name, pl.Owner))
		if err != nil {
			return report, err
		}
		result := p.run(services.WithPlaylist(ctx, pl.Name), batch.Plan(dir, pl.Tracks))
		result.Name = pl.Name
		result.Owner = pl.Owner
		result.Skipped = pl.Skipped
		report.Playlists = append(report.Playlists, result)
		if emit != nil {
			emit(result)
		}
	}
	return report, nil
}

func (p *pipeline) spotifyClient(ctx context.Context) (*spotify.Client, error) {
	if err := p.cfg.RequireSpotify(); err != nil {
		return nil, err
	}
	return spotify.New(ctx, p.cfg.Spotify.ClientID, p.cfg.Spotify.ClientSecret,
		seconds(p.cfg.Spotify.RequestTimeout), spotify.WithLogger(p.logger))
}

// outputDir creates a fresh directory for name under root.
func outputDir(root, name string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create output root %q: %w", root, err)
	}
	return fileutil.CreateUniqueDir(filepath.Join(root, name))
}

// resolveCookies picks the cookie file handed to yt-dlp. A configured file
// wins; otherwise cookies.txt in the working directory is used when present.
// hint is non-empty when a configured file is missing.
func resolveCookies(cfg *config.Config, cwd string) (path string, hint string) {
	if configured := strings.TrimSpace(cfg.YouTube.CookiesFile); configured != "" {
		if fileutil.FileExists(configured) {
			return configured, ""
		}
		return configured, cookieExportHint(configured, cfg.YouTube.CookiesBrowser)
	}
	if cwd != "" {
		if candidate := filepath.Join(cwd, autoCookiesFile); fileutil.FileExists(candidate) {
			return candidate, ""
		}
	}
	return "", ""
}

func cookieExportHint(path, browser string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cookie file %s not found; age-restricted videos may fail.\n", path)
	b.WriteString("Export one with a browser extension that writes Netscape cookies.txt while signed in to YouTube")
	if browser != "" {
		fmt.Fprintf(&b, ",\nor let spotigrab export it from %s when a restricted video is hit", browser)
	}
	b.WriteString(".")
	return b.String()
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
