package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spotigrab/internal/logging"
	"spotigrab/internal/searchcache"
	"spotigrab/internal/services"
	"spotigrab/internal/track"
)

// DefaultSearchLimit is the number of results requested per query.
const DefaultSearchLimit = 5

// Searcher returns up to limit candidates for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]track.Candidate, error)
}

// Option configures the finder.
type Option func(*Finder)

// WithSearchLimit overrides the per-query result count.
func WithSearchLimit(limit int) Option {
	return func(f *Finder) {
		if limit > 0 {
			f.limit = limit
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Finder resolves a track to a video by searching, pooling, and ranking.
type Finder struct {
	searcher Searcher
	cache    *searchcache.Cache
	policy   Policy
	limit    int
	logger   *slog.Logger
}

// NewFinder constructs a finder. A nil cache disables memoization.
func NewFinder(searcher Searcher, cache *searchcache.Cache, policy Policy, opts ...Option) (*Finder, error) {
	if searcher == nil {
		return nil, errors.New("matcher: searcher required")
	}
	f := &Finder{
		searcher: searcher,
		cache:    cache,
		policy:   policy.normalized(),
		limit:    DefaultSearchLimit,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "matcher")
	return f, nil
}

// Policy returns the normalized ranking policy.
func (f *Finder) Policy() Policy {
	return f.policy
}

// Queries returns the search queries issued for a record, most specific first.
func Queries(rec track.Record) []string {
	return []string{
		fmt.Sprintf("%s - %s official audio", rec.Artist, rec.Title),
		fmt.Sprintf("%s - %s", rec.Artist, rec.Title),
		fmt.Sprintf("%s %s", rec.Title, rec.Artist),
		rec.Title,
	}
}

// Find returns the cached decision for rec or searches and ranks afresh.
// Individual query failures are logged and skipped; an error is returned
// only when ctx is done, and such results are never cached.
func (f *Finder) Find(ctx context.Context, rec track.Record) (track.Match, error) {
	compute := func() (track.Match, error) {
		pool, err := f.pool(ctx, rec)
		if err != nil {
			return track.Match{}, err
		}
		scored := ScoreAll(f.policy, rec, pool)
		match := best(scored)
		f.logDecision(ctx, rec, scored, match)
		return match, nil
	}
	if f.cache == nil {
		return compute()
	}
	return f.cache.LookupOrCompute(rec.Key(), compute)
}

// Candidates returns every pooled candidate scored against rec, in display
// order. Results bypass the cache since the caller picks manually.
func (f *Finder) Candidates(ctx context.Context, rec track.Record) ([]Scored, error) {
	pool, err := f.pool(ctx, rec)
	if err != nil {
		return nil, err
	}
	return Rank(ScoreAll(f.policy, rec, pool)), nil
}

func (f *Finder) pool(ctx context.Context, rec track.Record) ([]track.Candidate, error) {
	logger := logging.WithContext(services.WithStage(ctx, "search"), f.logger)
	seen := make(map[string]struct{})
	var pooled []track.Candidate
	for _, query := range Queries(rec) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := f.searcher.Search(ctx, query, f.limit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("search query failed",
				logging.String(logging.FieldEventType, "search_query_failed"),
				logging.String("query", query),
				logging.Error(err))
			continue
		}
		for _, cand := range results {
			if cand.URL == "" {
				continue
			}
			if _, dup := seen[cand.URL]; dup {
				continue
			}
			seen[cand.URL] = struct{}{}
			pooled = append(pooled, cand)
		}
	}
	return pooled, nil
}

func (f *Finder) logDecision(ctx context.Context, rec track.Record, scored []Scored, match track.Match) {
	logger := logging.WithContext(services.WithStage(services.WithTrackKey(ctx, rec.Key()), "search"), f.logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		for i, s := range scored {
			logger.Debug("scored candidate",
				logging.Int("rank", i+1),
				logging.String("title", s.Candidate.Title),
				logging.Float64("duration_diff", s.DurationDiff),
				logging.Float64("score", s.Score),
				logging.Bool("eligible", s.Eligible))
		}
	}
	if !match.Found {
		logger.Info("no candidate within tolerance",
			logging.String(logging.FieldEventType, "match_not_found"),
			logging.Int("candidates", len(scored)),
			logging.Float64("tolerance_seconds", f.policy.ToleranceSeconds))
		return
	}
	logger.Debug("selected candidate",
		logging.String(logging.FieldEventType, "match_selected"),
		logging.String("title", match.Candidate.Title),
		logging.String("url", match.Candidate.URL))
}
