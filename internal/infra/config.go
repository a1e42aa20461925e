package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	RunwayAPIKey  string
	RunwayBaseURL string
	RunwayModel   string

	ElevenAPIKey   string
	ElevenBaseURL  string
	ElevenModel    string
	DefaultVoiceID string

	HFAPIToken string
	HFBaseURL  string
	HFModel    string

	OutputDir      string
	StorageBaseURL string
	GeoIPDBPath    string
	DefaultLocale  string

	PollInterval time.Duration
	PollMaxWait  time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. Provider credentials are validated here so that a
// missing key fails at startup rather than in the middle of a workflow.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RunwayAPIKey:  os.Getenv("RUNWAY_API_KEY"),
		RunwayBaseURL: getEnv("RUNWAY_BASE_URL", "https://api.runwayml.com/v1"),
		RunwayModel:   getEnv("RUNWAY_MODEL", "gen-2"),

		ElevenAPIKey:   os.Getenv("ELEVEN_API_KEY"),
		ElevenBaseURL:  getEnv("ELEVEN_BASE_URL", "https://api.elevenlabs.io/v1"),
		ElevenModel:    getEnv("ELEVEN_MODEL", "eleven_multilingual_v2"),
		DefaultVoiceID: getEnv("DEFAULT_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),

		HFAPIToken: os.Getenv("HF_API_TOKEN"),
		HFBaseURL:  getEnv("HF_BASE_URL", "https://api-inference.huggingface.co"),
		HFModel:    getEnv("HF_MODEL", "black-forest-labs/FLUX.1-schnell"),

		OutputDir:      getEnv("OUTPUT_DIR", "/tmp/mediagen_outputs"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:  getEnv("DEFAULT_LOCALE", "en"),

		PollInterval: time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 12)),
		PollMaxWait:  time.Second * time.Duration(getEnvInt("POLL_MAX_WAIT_SECONDS", 600)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RunwayAPIKey == "" {
		return nil, fmt.Errorf("RUNWAY_API_KEY is required")
	}
	if cfg.ElevenAPIKey == "" {
		return nil, fmt.Errorf("ELEVEN_API_KEY is required")
	}
	if cfg.HFAPIToken == "" {
		return nil, fmt.Errorf("HF_API_TOKEN is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.PollMaxWait <= 0 {
		return nil, fmt.Errorf("POLL_MAX_WAIT_SECONDS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
