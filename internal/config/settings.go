package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ytget/yt-converter/internal/model"
)

// Environment variable keys
const (
	EnvListenAddr      = "YTC_LISTEN_ADDR"
	EnvProviderBaseURL = "YTC_PROVIDER_BASE_URL"
	EnvFFmpegPath      = "YTC_FFMPEG_PATH"
	EnvCatalogTimeout  = "YTC_CATALOG_TIMEOUT_SECONDS"
	EnvLogLevel        = "YTC_LOG_LEVEL"
)

// Default values
const (
	DefaultListenAddr     = ":3001"
	DefaultFFmpegPath     = "ffmpeg"
	DefaultCatalogTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
)

// Settings holds process-wide configuration. It is resolved once at startup
// and read-only afterwards; sessions never mutate it.
type Settings struct {
	// ListenAddr is the HTTP listen address of the front door
	ListenAddr string `yaml:"listenAddr"`

	// ProviderBaseURL is the base URL of the encoding catalog provider
	ProviderBaseURL string `yaml:"providerBaseURL"`

	// FFmpegPath is the encoder binary path or bare command name
	FFmpegPath string `yaml:"ffmpegPath"`

	// CatalogTimeout bounds a single catalog fetch. Segment downloads are
	// deliberately unbounded; a deployment wrapper may add one.
	CatalogTimeout time.Duration `yaml:"catalogTimeout"`

	// DefaultAudioQuality is the MP3 bitrate target used when the caller
	// states no preference
	DefaultAudioQuality model.AudioQuality `yaml:"defaultAudioQuality"`

	// LogLevel is the zerolog level name
	LogLevel string `yaml:"logLevel"`
}

// Defaults returns settings populated with built-in defaults.
func Defaults() Settings {
	return Settings{
		ListenAddr:          DefaultListenAddr,
		FFmpegPath:          DefaultFFmpegPath,
		CatalogTimeout:      DefaultCatalogTimeout,
		DefaultAudioQuality: model.DefaultAudioQuality,
		LogLevel:            DefaultLogLevel,
	}
}

// Load resolves settings from defaults, an optional YAML file, and
// environment overrides, in that order of precedence.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&s)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// applyEnv overrides file/default values from the process environment.
func applyEnv(s *Settings) {
	if v := os.Getenv(EnvListenAddr); v != "" {
		s.ListenAddr = v
	}
	if v := os.Getenv(EnvProviderBaseURL); v != "" {
		s.ProviderBaseURL = v
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		s.FFmpegPath = v
	}
	if v := os.Getenv(EnvCatalogTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			s.CatalogTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
}

// Validate checks settings for internal consistency.
func (s Settings) Validate() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if s.ProviderBaseURL == "" {
		return fmt.Errorf("provider base URL must be configured")
	}
	if s.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg path must not be empty")
	}
	if s.DefaultAudioQuality != "" && s.DefaultAudioQuality.Rank() == 0 {
		return fmt.Errorf("unknown default audio quality: %q", s.DefaultAudioQuality)
	}
	return nil
}
