package config

import (
	"errors"
	"fmt"
	"strconv"
)

// supportedAudioFormats mirrors yt-dlp's --audio-format choices, minus "best"
// whose output extension cannot be known ahead of the download.
var supportedAudioFormats = map[string]struct{}{
	"mp3":    {},
	"aac":    {},
	"alac":   {},
	"m4a":    {},
	"opus":   {},
	"vorbis": {},
	"flac":   {},
	"wav":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTagging(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Paths.MusicDir == "" {
		return errors.New("paths.music_dir must be set")
	}
	if c.Download.Workers > 32 {
		return fmt.Errorf("download.workers must be between 1 and 32, got %d", c.Download.Workers)
	}
	if _, ok := supportedAudioFormats[c.Download.AudioFormat]; !ok {
		return fmt.Errorf("download.audio_format: unsupported value %q", c.Download.AudioFormat)
	}
	if bitrate, err := strconv.Atoi(c.Download.AudioQuality); err != nil || bitrate <= 0 {
		return fmt.Errorf("download.audio_quality must be a positive bitrate in kbps, got %q", c.Download.AudioQuality)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	for name, weight := range map[string]float64{
		"matching.title_weight":    m.TitleWeight,
		"matching.artist_weight":   m.ArtistWeight,
		"matching.duration_weight": m.DurationWeight,
		"matching.bonus":           m.Bonus,
		"matching.penalty":         m.Penalty,
	} {
		if weight < 0 || weight > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if m.TitleWeight+m.ArtistWeight+m.DurationWeight == 0 {
		return errors.New("matching weights must not all be zero")
	}
	if m.ToleranceSeconds < 0 {
		return errors.New("matching.tolerance_seconds must be non-negative")
	}
	return nil
}

func (c *Config) validateTagging() error {
	if c.Tagging.CoverSize > 3000 {
		return fmt.Errorf("tagging.cover_size must be at most 3000, got %d", c.Tagging.CoverSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
