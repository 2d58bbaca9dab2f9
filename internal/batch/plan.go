package batch

import (
	"fmt"
	"strings"

	"spotigrab/internal/textutil"
	"spotigrab/internal/track"
)

const (
	unknownArtist = "Unknown Artist"
	unknownTitle  = "Unknown Title"
)

// Job is one track scheduled for download. Pinned skips the search when the
// user already chose a video.
type Job struct {
	Track  track.Record     `json:"track"`
	Stem   string           `json:"stem"`
	Pinned *track.Candidate `json:"pinned,omitempty"`
}

// Batch is the set of jobs written to one directory.
type Batch struct {
	Dir  string `json:"dir"`
	Jobs []Job  `json:"jobs"`
}

// Stem returns the "artist - title" file stem for rec with unsafe characters
// removed.
func Stem(rec track.Record) string {
	artist := textutil.SanitizeDirName(rec.Artist, unknownArtist)
	title := textutil.SanitizeDirName(rec.Title, unknownTitle)
	return artist + " - " + title
}

// PlaylistDirName returns the directory name used for a playlist.
func PlaylistDirName(name, owner string) string {
	label := strings.TrimSpace(name)
	if owner = strings.TrimSpace(owner); owner != "" {
		label = fmt.Sprintf("%s (%s)", label, owner)
	}
	return textutil.SanitizeDirName(label, "playlist")
}

// Plan assigns stems to records in input order. Stems that collide
// case-insensitively get " (2)", " (3)", ... so no two jobs share a file.
func Plan(dir string, records []track.Record) Batch {
	b := Batch{Dir: dir, Jobs: make([]Job, 0, len(records))}
	used := make(map[string]struct{}, len(records))
	for _, rec := range records {
		stem := uniqueStem(Stem(rec), used)
		b.Jobs = append(b.Jobs, Job{Track: rec, Stem: stem})
	}
	return b
}

// PlanPinned builds a single-job batch for a candidate the user picked.
func PlanPinned(dir string, rec track.Record, cand track.Candidate) Batch {
	pinned := cand
	return Batch{Dir: dir, Jobs: []Job{{Track: rec, Stem: Stem(rec), Pinned: &pinned}}}
}

// Subset keeps the jobs whose track key is in keys. Stems are preserved so a
// re-run writes to the same files.
func (b Batch) Subset(keys []string) Batch {
	want := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		want[key] = struct{}{}
	}
	out := Batch{Dir: b.Dir}
	for _, job := range b.Jobs {
		if _, ok := want[job.Track.Key()]; ok {
			out.Jobs = append(out.Jobs, job)
		}
	}
	return out
}

// Len returns the number of jobs.
func (b Batch) Len() int {
	return len(b.Jobs)
}

func uniqueStem(stem string, used map[string]struct{}) string {
	candidate := stem
	for n := 2; ; n++ {
		key := strings.ToLower(candidate)
		if _, taken := used[key]; !taken {
			used[key] = struct{}{}
			return candidate
		}
		candidate = fmt.Sprintf("%s (%d)", stem, n)
	}
}
