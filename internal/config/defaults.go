package config

const (
	defaultConfigPath       = "~/.config/spotigrab/config.toml"
	defaultMusicDir         = "~/Music"
	defaultLogDir           = "~/.local/share/spotigrab/logs"
	defaultYtDlpBinary      = "yt-dlp"
	defaultFFmpegBinary     = "ffmpeg"
	defaultCookiesBrowser   = "chrome"
	defaultProbeURL         = "https://www.youtube.com/watch?v=jNQXAC9IVRw"
	defaultSearchResults    = 5
	defaultSearchTimeout    = 60
	defaultSpotifyTimeout   = 30
	defaultWorkers          = 3
	defaultAudioFormat      = "mp3"
	defaultAudioQuality     = "320"
	defaultTitleWeight      = 0.6
	defaultArtistWeight     = 0.3
	defaultDurationWeight   = 0.1
	defaultToleranceSeconds = 20
	defaultKeywordBonus     = 0.1
	defaultKeywordPenalty   = 0.2
	defaultCoverSize        = 640
	defaultCoverMaxKiB      = 400
	defaultRecoveryAttempts = 1
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 5
	defaultLogMaxAgeDays    = 30
)

var (
	defaultBonusKeywords   = []string{"official", "original", "audio", "lyrics"}
	defaultPenaltyKeywords = []string{"cover", "remix", "speed up"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MusicDir: defaultMusicDir,
			LogDir:   defaultLogDir,
		},
		Spotify: Spotify{
			RequestTimeout: defaultSpotifyTimeout,
		},
		YouTube: YouTube{
			YtDlpBinary:    defaultYtDlpBinary,
			CookiesBrowser: defaultCookiesBrowser,
			ProbeURL:       defaultProbeURL,
			SearchResults:  defaultSearchResults,
			SearchTimeout:  defaultSearchTimeout,
		},
		Download: Download{
			Workers:      defaultWorkers,
			AudioFormat:  defaultAudioFormat,
			AudioQuality: defaultAudioQuality,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Matching: Matching{
			TitleWeight:      defaultTitleWeight,
			ArtistWeight:     defaultArtistWeight,
			DurationWeight:   defaultDurationWeight,
			ToleranceSeconds: defaultToleranceSeconds,
			BonusKeywords:    append([]string(nil), defaultBonusKeywords...),
			Bonus:            defaultKeywordBonus,
			PenaltyKeywords:  append([]string(nil), defaultPenaltyKeywords...),
			Penalty:          defaultKeywordPenalty,
		},
		Tagging: Tagging{
			EmbedCover:  true,
			SaveCovers:  true,
			CoverSize:   defaultCoverSize,
			CoverMaxKiB: defaultCoverMaxKiB,
		},
		Recovery: Recovery{
			Enabled:     true,
			MaxAttempts: defaultRecoveryAttempts,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
