package track

import (
	"fmt"
	"strings"
)

// Record is a catalog track as returned by the playlist API.
type Record struct {
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Album      string `json:"album"`
	DurationMS int    `json:"duration_ms"`
	CoverURL   string `json:"cover_url,omitempty"`
}

// Key returns the dedup key used for caching and recovery.
func (r Record) Key() string {
	return strings.ToLower(r.Label())
}

// Label returns the "artist - title" display form.
func (r Record) Label() string {
	return fmt.Sprintf("%s - %s", r.Artist, r.Title)
}

// DurationSeconds returns the catalog duration in fractional seconds.
func (r Record) DurationSeconds() float64 {
	if r.DurationMS <= 0 {
		return 0
	}
	return float64(r.DurationMS) / 1000
}

// Candidate is a single video search result.
type Candidate struct {
	Title           string `json:"title"`
	Uploader        string `json:"uploader,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	HasDuration     bool   `json:"has_duration"`
	URL             string `json:"url"`
	Thumbnail       string `json:"thumbnail,omitempty"`
}

// Match is the ranker's decision for a record. Found is false when no
// candidate fell inside the tolerance window.
type Match struct {
	Candidate Candidate
	Found     bool
}

// NoMatch is the "nothing eligible" result.
var NoMatch = Match{}

// Found wraps a selected candidate.
func Found(c Candidate) Match {
	return Match{Candidate: c, Found: true}
}
