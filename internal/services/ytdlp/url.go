package ytdlp

import (
	"errors"
	"net/url"
	"strings"
)

const watchURL = "https://www.youtube.com/watch?v="

// NormalizeVideoURL reduces a video link to a single canonical watch URL.
// Playlist context (list, index) is dropped and youtu.be links are expanded.
func NormalizeVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty video url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	host = strings.TrimPrefix(host, "music.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", errors.New("short link has no video id")
		}
		return watchURL + id, nil
	case "youtube.com":
		if strings.HasPrefix(u.Path, "/shorts/") {
			id := strings.Trim(strings.TrimPrefix(u.Path, "/shorts/"), "/")
			if id != "" {
				return watchURL + id, nil
			}
		}
		id := u.Query().Get("v")
		if id == "" {
			return "", errors.New("video url has no v parameter")
		}
		return watchURL + id, nil
	default:
		return "", errors.New("not a youtube url: " + u.Host)
	}
}

// GuessArtistTitle splits an "Artist - Title" video title. When the title has
// no separator the artist is empty and the whole title is returned.
func GuessArtistTitle(videoTitle string) (string, string) {
	artist, title, ok := strings.Cut(videoTitle, " - ")
	artist = strings.TrimSpace(artist)
	title = strings.TrimSpace(title)
	if ok && artist != "" && title != "" {
		return artist, title
	}
	return "", strings.TrimSpace(videoTitle)
}
