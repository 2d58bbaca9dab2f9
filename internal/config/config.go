package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and log directory configuration.
type Paths struct {
	MusicDir string `toml:"music_dir" env:"SPOTIGRAB_MUSIC_DIR"`
	LogDir   string `toml:"log_dir" env:"SPOTIGRAB_LOG_DIR"`
}

// Spotify contains catalog API credentials.
type Spotify struct {
	ClientID       string `toml:"client_id" env:"SPOTIFY_CLIENT_ID"`
	ClientSecret   string `toml:"client_secret" env:"SPOTIFY_CLIENT_SECRET"`
	RequestTimeout int    `toml:"request_timeout"`
}

// YouTube contains yt-dlp search and credential settings.
type YouTube struct {
	YtDlpBinary    string `toml:"ytdlp_binary" env:"SPOTIGRAB_YTDLP_BINARY"`
	CookiesFile    string `toml:"cookies_file" env:"SPOTIGRAB_COOKIES_FILE"`
	CookiesBrowser string `toml:"cookies_browser" env:"SPOTIGRAB_COOKIES_BROWSER"`
	ProbeURL       string `toml:"probe_url"`
	SearchResults  int    `toml:"search_results"`
	SearchTimeout  int    `toml:"search_timeout"`
}

// Download contains audio extraction and concurrency settings.
type Download struct {
	Workers      int    `toml:"workers" env:"SPOTIGRAB_WORKERS"`
	AudioFormat  string `toml:"audio_format"`
	AudioQuality string `toml:"audio_quality"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
	Timeout      int    `toml:"timeout"`
}

// Matching contains the candidate ranking weights and thresholds.
type Matching struct {
	TitleWeight      float64  `toml:"title_weight"`
	ArtistWeight     float64  `toml:"artist_weight"`
	DurationWeight   float64  `toml:"duration_weight"`
	ToleranceSeconds float64  `toml:"tolerance_seconds"`
	BonusKeywords    []string `toml:"bonus_keywords"`
	Bonus            float64  `toml:"bonus"`
	PenaltyKeywords  []string `toml:"penalty_keywords"`
	Penalty          float64  `toml:"penalty"`
}

// Tagging contains metadata and cover art settings.
type Tagging struct {
	EmbedCover  bool `toml:"embed_cover"`
	SaveCovers  bool `toml:"save_covers"`
	CoverSize   int  `toml:"cover_size"`
	CoverMaxKiB int  `toml:"cover_max_kib"`
}

// Recovery contains settings for the access-restriction retry loop.
type Recovery struct {
	Enabled     bool `toml:"enabled"`
	MaxAttempts int  `toml:"max_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format" env:"SPOTIGRAB_LOG_FORMAT"`
	Level      string `toml:"level" env:"SPOTIGRAB_LOG_LEVEL"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for spotigrab.
//
// Configuration sections by subsystem:
//   - Paths: music library root and log directory
//   - Spotify: catalog API client credentials
//   - YouTube: yt-dlp binary, cookies, and search breadth
//   - Download: worker count and audio extraction format
//   - Matching: ranking weights, tolerance, and keyword adjustments
//   - Tagging: cover art embedding and normalisation
//   - Recovery: access-restriction retry behaviour
//   - Logging: log format, level, and file rotation
type Config struct {
	Paths    Paths    `toml:"paths"`
	Spotify  Spotify  `toml:"spotify"`
	YouTube  YouTube  `toml:"youtube"`
	Download Download `toml:"download"`
	Matching Matching `toml:"matching"`
	Tagging  Tagging  `toml:"tagging"`
	Recovery Recovery `toml:"recovery"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. Environment
// variables override file values. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("spotigrab.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the music and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MusicDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireSpotify reports whether catalog credentials are present. Commands
// that only handle direct video URLs skip this check.
func (c *Config) RequireSpotify() error {
	if c.Spotify.ClientID != "" && c.Spotify.ClientSecret != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("spotify.client_id and spotify.client_secret are required. Set SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET or edit %s (create with 'spotigrab config init')", defaultPath)
}

// YtDlpBinary returns the yt-dlp executable name.
func (c *Config) YtDlpBinary() string {
	if c.YouTube.YtDlpBinary != "" {
		return c.YouTube.YtDlpBinary
	}
	return defaultYtDlpBinary
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if c.Download.FFmpegBinary != "" {
		return c.Download.FFmpegBinary
	}
	return defaultFFmpegBinary
}

// LockPath returns the advisory lock file guarding the music directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.MusicDir, ".spotigrab.lock")
}

// CookiesTarget returns where refreshed browser cookies are written: the
// configured cookie file, or cookies.txt beside the log directory.
func (c *Config) CookiesTarget() string {
	if c.YouTube.CookiesFile != "" {
		return c.YouTube.CookiesFile
	}
	if c.Paths.LogDir != "" {
		return filepath.Join(filepath.Dir(c.Paths.LogDir), "cookies.txt")
	}
	return filepath.Join(c.Paths.MusicDir, ".spotigrab-cookies.txt")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
