package ytdlp

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"spotigrab/internal/track"
)

// videoInfo is the subset of yt-dlp's info dict the client reads. Search
// results arrive as a playlist whose entries are flat video dicts.
type videoInfo struct {
	Type       string       `json:"_type"`
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Uploader   string       `json:"uploader"`
	Channel    string       `json:"channel"`
	Duration   *float64     `json:"duration"`
	URL        string       `json:"url"`
	WebpageURL string       `json:"webpage_url"`
	Thumbnail  string       `json:"thumbnail"`
	Thumbnails []thumbnail  `json:"thumbnails"`
	Entries    []*videoInfo `json:"entries"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// decodeInfo parses the JSON document yt-dlp prints with --dump-single-json.
// Stray non-JSON lines before the document are ignored.
func decodeInfo(stdout string) (videoInfo, error) {
	var doc videoInfo
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		if err := json.Unmarshal([]byte(line), &doc); err != nil {
			return videoInfo{}, err
		}
		return doc, nil
	}
	return videoInfo{}, errors.New("no json document in yt-dlp output")
}

// candidate converts the dict to a track.Candidate. ok is false when no
// watch URL can be derived.
func (v videoInfo) candidate() (track.Candidate, bool) {
	c := track.Candidate{
		Title:    strings.TrimSpace(v.Title),
		Uploader: strings.TrimSpace(v.Uploader),
	}
	if c.Uploader == "" {
		c.Uploader = strings.TrimSpace(v.Channel)
	}
	if v.Duration != nil && *v.Duration > 0 {
		c.DurationSeconds = int(math.Round(*v.Duration))
		c.HasDuration = true
	}
	c.Thumbnail = v.Thumbnail
	if n := len(v.Thumbnails); n > 0 && v.Thumbnails[n-1].URL != "" {
		c.Thumbnail = v.Thumbnails[n-1].URL
	}
	for _, raw := range []string{v.WebpageURL, v.URL} {
		if raw == "" {
			continue
		}
		if normalized, err := NormalizeVideoURL(raw); err == nil {
			c.URL = normalized
			return c, true
		}
	}
	if v.ID != "" {
		c.URL = watchURL + v.ID
		return c, true
	}
	return c, false
}
