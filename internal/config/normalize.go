package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSpotify()
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeDownload()
	c.normalizeMatching()
	c.normalizeTagging()
	c.normalizeRecovery()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MusicDir) == "" {
		c.Paths.MusicDir = defaultMusicDir
	}
	if c.Paths.MusicDir, err = expandPath(strings.TrimSpace(c.Paths.MusicDir)); err != nil {
		return fmt.Errorf("paths.music_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	if c.Spotify.RequestTimeout <= 0 {
		c.Spotify.RequestTimeout = defaultSpotifyTimeout
	}
}

func (c *Config) normalizeYouTube() error {
	c.YouTube.YtDlpBinary = strings.TrimSpace(c.YouTube.YtDlpBinary)
	c.YouTube.CookiesBrowser = strings.ToLower(strings.TrimSpace(c.YouTube.CookiesBrowser))
	c.YouTube.ProbeURL = strings.TrimSpace(c.YouTube.ProbeURL)
	if c.YouTube.ProbeURL == "" {
		c.YouTube.ProbeURL = defaultProbeURL
	}
	var err error
	if c.YouTube.CookiesFile, err = expandPath(strings.TrimSpace(c.YouTube.CookiesFile)); err != nil {
		return fmt.Errorf("youtube.cookies_file: %w", err)
	}
	if c.YouTube.SearchResults <= 0 {
		c.YouTube.SearchResults = defaultSearchResults
	}
	if c.YouTube.SearchTimeout <= 0 {
		c.YouTube.SearchTimeout = defaultSearchTimeout
	}
	return nil
}

func (c *Config) normalizeDownload() {
	if c.Download.Workers <= 0 {
		c.Download.Workers = defaultWorkers
	}
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
	if c.Download.AudioFormat == "" {
		c.Download.AudioFormat = defaultAudioFormat
	}
	c.Download.AudioQuality = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(c.Download.AudioQuality)), "k")
	if c.Download.AudioQuality == "" {
		c.Download.AudioQuality = defaultAudioQuality
	}
	c.Download.FFmpegBinary = strings.TrimSpace(c.Download.FFmpegBinary)
	if c.Download.Timeout < 0 {
		c.Download.Timeout = 0
	}
}

func (c *Config) normalizeMatching() {
	c.Matching.BonusKeywords = normalizeKeywords(c.Matching.BonusKeywords)
	c.Matching.PenaltyKeywords = normalizeKeywords(c.Matching.PenaltyKeywords)
}

func (c *Config) normalizeTagging() {
	if c.Tagging.CoverSize <= 0 {
		c.Tagging.CoverSize = defaultCoverSize
	}
	if c.Tagging.CoverMaxKiB <= 0 {
		c.Tagging.CoverMaxKiB = defaultCoverMaxKiB
	}
}

func (c *Config) normalizeRecovery() {
	if c.Recovery.MaxAttempts < 0 {
		c.Recovery.MaxAttempts = 0
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}

func normalizeKeywords(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
