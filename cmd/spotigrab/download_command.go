package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotigrab/internal/config"
	"spotigrab/internal/fileutil"
)

type downloadReport struct {
	RunID     string        `json:"run_id"`
	Playlists []batchResult `json:"playlists"`
	Errors    []string      `json:"errors,omitempty"`
}

// fetchError summarises playlists that could not be fetched, or nil.
func (r downloadReport) fetchError(requested int) error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d playlists could not be fetched", len(r.Errors), requested)
}

// downloadFlags are shared by the commands that write audio.
type downloadFlags struct {
	output  string
	json    bool
	refresh bool
}

func (f *downloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Directory to write into (defaults to paths.music_dir)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&f.refresh, "refresh-credentials", false, "Export browser cookies without asking when a video is restricted")
}

func (f *downloadFlags) root(cfg *config.Config) (string, error) {
	if strings.TrimSpace(f.output) == "" {
		return cfg.Paths.MusicDir, nil
	}
	return config.ExpandPath(strings.TrimSpace(f.output))
}

// session is the per-command state every download command sets up.
type session struct {
	cfg      *config.Config
	pipeline *pipeline
	lock     *fileutil.RunLock
}

func (s *session) close() {
	if s != nil && s.lock != nil {
		_ = s.lock.Release()
	}
}

func openSession(cmd *cobra.Command, ctx *commandContext, flags *downloadFlags, workers int) (*session, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}
	lock, err := fileutil.AcquireRunLock(cfg.LockPath())
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return nil, fmt.Errorf("another spotigrab run holds %s", cfg.LockPath())
		}
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	p, err := buildPipeline(cfg, logger, stderr, pipelineOptions{
		workers:  workers,
		observer: progressObserver(stderr, shouldColorize(stderr)),
		consent:  refreshConsent(flags.refresh, cfg.YouTube.CookiesBrowser),
	})
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	return &session{cfg: cfg, pipeline: p, lock: lock}, nil
}

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags
	var workers int
	var fresh bool

	cmd := &cobra.Command{
		Use:     "download <playlist-url>...",
		Aliases: []string{"playlist"},
		Short:   "Download Spotify playlists into tagged audio files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSpotify(); err != nil {
				return err
			}
			root, err := flags.root(cfg)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			sess, err := openSession(cmd, ctx, &flags, workers)
			if err != nil {
				return err
			}
			defer sess.close()

			runCtx, runID := runContext(cmd.Context())
			p := sess.pipeline
			catalog, err := p.spotifyClient(runCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var emit func(batchResult)
			if !flags.json {
				emit = func(r batchResult) { renderResult(out, r) }
			}
			report, err := p.downloadPlaylists(runCtx, catalog, args, root, fresh, emit)
			report.RunID = runID
			if err != nil {
				return err
			}
			if flags.json {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			}
			if err := runCtx.Err(); err != nil {
				return err
			}
			return report.fetchError(len(args))
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent downloads (defaults to download.workers)")
	cmd.Flags().BoolVar(&fresh, "fresh-search", false, "Do not reuse search results between playlists")
	return cmd
}
