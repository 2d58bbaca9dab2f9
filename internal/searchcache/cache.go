package searchcache

import (
	"log/slog"
	"strings"
	"sync"

	"spotigrab/internal/logging"
	"spotigrab/internal/track"
)

// Cache provides thread-safe access to match results keyed by track key.
type Cache struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]track.Match
}

// New creates an empty cache.
func New(logger *slog.Logger) *Cache {
	return &Cache{
		logger:  logging.NewComponentLogger(logger, "searchcache"),
		entries: make(map[string]track.Match),
	}
}

// Lookup returns the cached match for key if present. A cached "no match"
// is reported as found.
func (c *Cache) Lookup(key string) (track.Match, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return track.Match{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	match, found := c.entries[key]
	return match, found
}

// Store records a match decision for key.
func (c *Cache) Store(key string, match track.Match) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	c.entries[key] = match
	c.mu.Unlock()

	c.logger.Debug("cached match decision",
		logging.String(logging.FieldTrackKey, key),
		logging.Bool("found", match.Found),
		logging.String("url", match.Candidate.URL))
}

// LookupOrCompute returns the cached match for key or runs compute and
// stores its result. The lock is not held while compute runs, so two workers
// missing on the same key may both compute; the last store wins and both
// results are equivalent.
func (c *Cache) LookupOrCompute(key string, compute func() (track.Match, error)) (track.Match, error) {
	if match, ok := c.Lookup(key); ok {
		c.logger.Debug("search cache hit", logging.String(logging.FieldTrackKey, key))
		return match, nil
	}
	match, err := compute()
	if err != nil {
		return track.Match{}, err
	}
	c.Store(key, match)
	return match, nil
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]track.Match)
	c.mu.Unlock()

	c.logger.Debug("cleared search cache", logging.Int("entries", n))
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
