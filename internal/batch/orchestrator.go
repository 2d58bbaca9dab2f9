package batch

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"spotigrab/internal/fileutil"
	"spotigrab/internal/logging"
	"spotigrab/internal/services"
	"spotigrab/internal/textutil"
	"spotigrab/internal/track"
)

const (
	// DefaultWorkers is the parallelism used when none is configured.
	DefaultWorkers = 3

	detailNoMatch   = "no matching video found"
	detailCancelled = "cancelled before start"
	detailNoFile    = "audio file not created"
)

// Finder resolves a record to a video.
type Finder interface {
	Find(ctx context.Context, rec track.Record) (track.Match, error)
}

// Downloader fetches and transcodes audio into outputTemplate.
type Downloader interface {
	Download(ctx context.Context, videoURL, outputTemplate, format, quality string) error
}

// Tagger writes metadata into a finished file.
type Tagger interface {
	Tag(ctx context.Context, path string, rec track.Record) error
}

// Outcome reports a finished job to an observer.
type Outcome struct {
	Job       Job
	Path      string
	Failure   *track.Failure
	Completed int
	Total     int
	Elapsed   time.Duration
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the number of concurrent jobs.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithAudio sets the target container and bitrate passed to the downloader.
func WithAudio(format, quality string) Option {
	return func(o *Orchestrator) {
		if format != "" {
			o.format = format
		}
		if quality != "" {
			o.quality = quality
		}
	}
}

// WithObserver registers a callback invoked once per finished job. Calls are
// serialized.
func WithObserver(fn func(Outcome)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator runs batches of jobs.
type Orchestrator struct {
	finder     Finder
	downloader Downloader
	tagger     Tagger
	workers    int
	format     string
	quality    string
	observer   func(Outcome)
	logger     *slog.Logger
}

// New constructs an orchestrator. A nil tagger skips tagging.
func New(finder Finder, downloader Downloader, tagger Tagger, opts ...Option) (*Orchestrator, error) {
	if finder == nil {
		return nil, errors.New("batch: finder required")
	}
	if downloader == nil {
		return nil, errors.New("batch: downloader required")
	}
	o := &Orchestrator{
		finder:     finder,
		downloader: downloader,
		tagger:     tagger,
		workers:    DefaultWorkers,
		format:     "mp3",
		quality:    "320",
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "batch")
	return o, nil
}

// RunBatch processes every job and returns the non-successes in completion
// order. A failing job never affects another. Once ctx is done no further jobs
// start; those are reported as download errors.
func (o *Orchestrator) RunBatch(ctx context.Context, b Batch) []track.Failure {
	total := len(b.Jobs)
	if total == 0 {
		return nil
	}
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_started"),
		logging.Int("tracks", total),
		logging.Int("workers", o.workers),
		logging.String("output_dir", b.Dir),
	)
	started := time.Now()

	var (
		mu        sync.Mutex
		failures  []track.Failure
		completed int
	)
	finish := func(job Job, path string, failure *track.Failure, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if failure != nil {
			failures = append(failures, *failure)
		}
		if o.observer != nil {
			o.observer(Outcome{Job: job, Path: path, Failure: failure, Completed: completed, Total: total, Elapsed: elapsed})
		}
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, job := range b.Jobs {
		if ctx.Err() != nil {
			for _, rest := range b.Jobs[i:] {
				f := track.NewFailure(rest.Track, track.ReasonDownloadError, detailCancelled)
				finish(rest, "", &f, 0)
			}
			break
		}
		g.Go(func() error {
			jobStart := time.Now()
			path, failure := o.runJob(ctx, b.Dir, job)
			finish(job, path, failure, time.Since(jobStart))
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finished"),
		logging.Int("tracks", total),
		logging.Int("failed", len(failures)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return failures
}

func (o *Orchestrator) runJob(ctx context.Context, dir string, job Job) (string, *track.Failure) {
	ctx = services.WithTrackKey(ctx, job.Track.Key())
	fail := func(reason track.Reason, detail string) (string, *track.Failure) {
		f := track.NewFailure(job.Track, reason, detail)
		o.logFailure(ctx, f)
		return "", &f
	}
	if ctx.Err() != nil {
		return fail(track.ReasonDownloadError, detailCancelled)
	}

	match, err := o.match(ctx, job)
	if err != nil {
		return fail(track.ReasonDownloadError, err.Error())
	}
	if !match.Found {
		return fail(track.ReasonDownloadError, detailNoMatch)
	}

	template := filepath.Join(textutil.EscapeTemplate(dir), textutil.EscapeTemplate(job.Stem)) + ".%(ext)s"
	dlCtx := services.WithStage(ctx, "download")
	if err := o.downloader.Download(dlCtx, match.Candidate.URL, template, o.format, o.quality); err != nil {
		reason := services.FailureReason(err)
		if reason == track.ReasonFileMissing {
			reason = track.ReasonDownloadError
		}
		return fail(reason, err.Error())
	}

	path := filepath.Join(dir, job.Stem+"."+AudioExtension(o.format))
	if !fileutil.FileExists(path) {
		return fail(track.ReasonFileMissing, detailNoFile)
	}

	if o.tagger != nil {
		tagCtx := services.WithStage(ctx, "tag")
		if err := o.tagger.Tag(tagCtx, path, job.Track); err != nil {
			logging.WarnWithContext(logging.WithContext(tagCtx, o.logger), "tagging failed", "tag_failed",
				logging.String(logging.FieldErrorHint, "the audio is kept; retag it manually if needed"),
				logging.String(logging.FieldImpact, "file saved without complete metadata"),
				logging.String("file", filepath.Base(path)),
				logging.Error(err),
			)
		}
	}

	logging.WithContext(ctx, o.logger).Info("track downloaded",
		logging.String(logging.FieldEventType, "track_downloaded"),
		logging.String("file", filepath.Base(path)),
		logging.String("video", match.Candidate.Title),
	)
	return path, nil
}

// AudioExtension returns the file extension yt-dlp writes for an
// --audio-format value.
func AudioExtension(format string) string {
	switch format {
	case "vorbis":
		return "ogg"
	case "aac", "alac":
		return "m4a"
	default:
		return format
	}
}

func (o *Orchestrator) match(ctx context.Context, job Job) (track.Match, error) {
	if job.Pinned != nil {
		return track.Found(*job.Pinned), nil
	}
	return o.finder.Find(services.WithStage(ctx, "search"), job.Track)
}

func (o *Orchestrator) logFailure(ctx context.Context, f track.Failure) {
	hint := "check the log file for the downloader output"
	switch f.Reason {
	case track.ReasonAccessRestricted:
		hint = "refresh browser cookies and retry the restricted tracks"
	case track.ReasonFileMissing:
		hint = "verify ffmpeg is installed and the audio format is supported"
	}
	if f.Detail == detailNoMatch {
		hint = "no result fell inside the duration tolerance; try the track command with --pick"
	}
	logging.WarnWithContext(logging.WithContext(ctx, o.logger), "track failed", "track_failed",
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "track missing from the output directory"),
		logging.String("reason", string(f.Reason)),
		logging.String("detail", f.Detail),
	)
}
