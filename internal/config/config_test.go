package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"spotigrab/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPOTIFY_CLIENT_ID",
		"SPOTIFY_CLIENT_SECRET",
		"SPOTIGRAB_MUSIC_DIR",
		"SPOTIGRAB_LOG_DIR",
		"SPOTIGRAB_COOKIES_FILE",
		"SPOTIGRAB_COOKIES_BROWSER",
		"SPOTIGRAB_YTDLP_BINARY",
		"SPOTIGRAB_WORKERS",
		"SPOTIGRAB_LOG_LEVEL",
		"SPOTIGRAB_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "spotigrab", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.MusicDir != filepath.Join(tempHome, "Music") {
		t.Fatalf("unexpected music dir: got %q", cfg.Paths.MusicDir)
	}
	wantLog := filepath.Join(tempHome, ".local", "share", "spotigrab", "logs")
	if cfg.Paths.LogDir != wantLog {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLog)
	}
	if cfg.Download.Workers != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.Download.Workers)
	}
	if cfg.Download.AudioFormat != "mp3" || cfg.Download.AudioQuality != "320" {
		t.Fatalf("unexpected audio settings: %q %q", cfg.Download.AudioFormat, cfg.Download.AudioQuality)
	}
	if cfg.Matching.ToleranceSeconds != 20 {
		t.Fatalf("unexpected tolerance: %v", cfg.Matching.ToleranceSeconds)
	}
	if cfg.Recovery.MaxAttempts != 1 {
		t.Fatalf("unexpected recovery attempts: %d", cfg.Recovery.MaxAttempts)
	}
	if err := cfg.RequireSpotify(); err == nil {
		t.Fatal("expected missing spotify credentials to be reported")
	}
	if cfg.LockPath() != filepath.Join(cfg.Paths.MusicDir, ".spotigrab.lock") {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if want := filepath.Join(tempHome, ".local", "share", "spotigrab", "cookies.txt"); cfg.CookiesTarget() != want {
		t.Fatalf("unexpected cookies target: %q want %q", cfg.CookiesTarget(), want)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.MusicDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "spotigrab.toml")

	type payload struct {
		Paths struct {
			MusicDir string `toml:"music_dir"`
		} `toml:"paths"`
		Spotify struct {
			ClientID     string `toml:"client_id"`
			ClientSecret string `toml:"client_secret"`
		} `toml:"spotify"`
		Download struct {
			Workers      int    `toml:"workers"`
			AudioFormat  string `toml:"audio_format"`
			AudioQuality string `toml:"audio_quality"`
		} `toml:"download"`
		Matching struct {
			BonusKeywords []string `toml:"bonus_keywords"`
		} `toml:"matching"`
	}
	custom := payload{}
	custom.Paths.MusicDir = filepath.Join(tempDir, "music")
	custom.Spotify.ClientID = " id "
	custom.Spotify.ClientSecret = "secret"
	custom.Download.Workers = 5
	custom.Download.AudioFormat = "M4A"
	custom.Download.AudioQuality = "256k"
	custom.Matching.BonusKeywords = []string{" Official ", "official", "", "Lyrics"}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.MusicDir != custom.Paths.MusicDir {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if cfg.Spotify.ClientID != "id" {
		t.Fatalf("expected trimmed client id, got %q", cfg.Spotify.ClientID)
	}
	if err := cfg.RequireSpotify(); err != nil {
		t.Fatalf("expected credentials to satisfy RequireSpotify: %v", err)
	}
	if cfg.Download.Workers != 5 {
		t.Fatalf("unexpected workers: %d", cfg.Download.Workers)
	}
	if cfg.Download.AudioFormat != "m4a" || cfg.Download.AudioQuality != "256" {
		t.Fatalf("unexpected audio settings: %q %q", cfg.Download.AudioFormat, cfg.Download.AudioQuality)
	}
	want := []string{"official", "lyrics"}
	if strings.Join(cfg.Matching.BonusKeywords, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected bonus keywords: %v", cfg.Matching.BonusKeywords)
	}
	// Untouched sections keep defaults.
	if cfg.Matching.TitleWeight != 0.6 {
		t.Fatalf("expected default title weight, got %v", cfg.Matching.TitleWeight)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "spotigrab.toml")
	body := "[spotify]\nclient_id = \"from-file\"\n\n[logging]\nlevel = \"warn\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	musicDir := filepath.Join(tempDir, "library")
	t.Setenv("SPOTIFY_CLIENT_ID", "from-env")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
	t.Setenv("SPOTIGRAB_MUSIC_DIR", musicDir)
	t.Setenv("SPOTIGRAB_LOG_LEVEL", "DEBUG")
	t.Setenv("SPOTIGRAB_WORKERS", "7")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Spotify.ClientID != "from-env" || cfg.Spotify.ClientSecret != "env-secret" {
		t.Fatalf("expected env credentials, got %q/%q", cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
	}
	if cfg.Paths.MusicDir != musicDir {
		t.Fatalf("unexpected music dir: %q", cfg.Paths.MusicDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized env log level, got %q", cfg.Logging.Level)
	}
	if cfg.Download.Workers != 7 {
		t.Fatalf("expected env workers, got %d", cfg.Download.Workers)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"format", func(c *config.Config) { c.Download.AudioFormat = "wma" }, "download.audio_format"},
		{"ogg is an extension not a codec", func(c *config.Config) { c.Download.AudioFormat = "ogg" }, "download.audio_format"},
		{"best has no fixed extension", func(c *config.Config) { c.Download.AudioFormat = "best" }, "download.audio_format"},
		{"bitrate", func(c *config.Config) { c.Download.AudioQuality = "best" }, "download.audio_quality"},
		{"workers", func(c *config.Config) { c.Download.Workers = 100 }, "download.workers"},
		{"weight", func(c *config.Config) { c.Matching.TitleWeight = 1.5 }, "matching.title_weight"},
		{"tolerance", func(c *config.Config) { c.Matching.ToleranceSeconds = -1 }, "matching.tolerance_seconds"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.MusicDir = t.TempDir()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateAcceptsYtDlpAudioFormats(t *testing.T) {
	for _, format := range []string{"mp3", "aac", "alac", "m4a", "opus", "vorbis", "flac", "wav"} {
		cfg := config.Default()
		cfg.Paths.MusicDir = t.TempDir()
		cfg.Download.AudioFormat = format
		if err := cfg.Validate(); err != nil {
			t.Fatalf("format %q rejected: %v", format, err)
		}
	}
}

func TestCreateSampleLoads(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.YouTube.CookiesBrowser != "chrome" {
		t.Fatalf("unexpected cookies browser: %q", cfg.YouTube.CookiesBrowser)
	}
	if cfg.YouTube.CookiesFile != "" {
		t.Fatalf("expected empty cookies file, got %q", cfg.YouTube.CookiesFile)
	}
}
