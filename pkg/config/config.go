package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// configPath is the fixed location of the optional settings file
var configPath = filepath.Clean("./config/settings.yaml")

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load()
	})

	return initErr
}

// load sets defaults, binds the environment and reads the optional settings file
func load() error {
	setDefaults()

	// Set up environment variable reading for overrides
	viper.SetEnvPrefix("RECIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine - defaults and env vars apply
		var notFound viper.ConfigFileNotFoundError
		if !os.IsNotExist(err) && !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	backend := viper.GetString("handoff.backend")
	if backend != HandoffBackendFile && backend != HandoffBackendRedis {
		return fmt.Errorf("invalid handoff backend %q: must be %q or %q", backend, HandoffBackendFile, HandoffBackendRedis)
	}

	if viper.GetString("handoff.shared_dir") == "" {
		return fmt.Errorf("handoff.shared_dir is required")
	}

	if err := validateAPIKeys(); err != nil {
		return err
	}

	// Auto-correct invalid polling settings
	if viper.GetDuration("apify.poll_interval") <= 0 {
		viper.Set("apify.poll_interval", 2*time.Second)
	}
	if viper.GetDuration("apify.max_wait") <= 0 {
		viper.Set("apify.max_wait", 60*time.Second)
	}
	if viper.GetDuration("handoff.poll_interval") <= 0 {
		viper.Set("handoff.poll_interval", 5*time.Second)
	}

	return nil
}

// validateAPIKeys rejects placeholder credentials in production and warns otherwise
func validateAPIKeys() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	keys := map[string]string{
		"gemini.api_key": "Gemini API key",
		"apify.token":    "Apify token",
	}

	for key, label := range keys {
		if !isPlaceholder(viper.GetString(key)) {
			continue
		}
		if isProduction {
			return fmt.Errorf("invalid %s: cannot use placeholder values in production", label)
		}
		fmt.Fprintf(os.Stderr, "Warning: %s is not configured\n", label)
	}

	return nil
}

// isPlaceholder reports whether a credential is empty or a known placeholder
func isPlaceholder(value string) bool {
	switch value {
	case "", "YOUR_KEY_HERE", "YOUR_API_KEY", "YOUR_TOKEN_HERE", "changeme", "CHANGEME":
		return true
	}
	return false
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Handoff.Backend != HandoffBackendFile && c.Handoff.Backend != HandoffBackendRedis {
		return fmt.Errorf("invalid handoff backend %q", c.Handoff.Backend)
	}

	if c.Apify.PollInterval <= 0 {
		c.Apify.PollInterval = 2 * time.Second
	}

	if c.Apify.MaxWait <= 0 {
		c.Apify.MaxWait = 60 * time.Second
	}

	if c.Handoff.PollInterval <= 0 {
		c.Handoff.PollInterval = 5 * time.Second
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/recipes.db")
	viper.SetDefault("database.verbose", false)

	// Gemini defaults
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.temperature", 0.1)
	viper.SetDefault("gemini.max_output_tokens", 2048)
	viper.SetDefault("gemini.timeout", 90*time.Second)

	// Apify defaults
	viper.SetDefault("apify.base_url", "https://api.apify.com/v2")
	viper.SetDefault("apify.instagram_actor", "apify~instagram-scraper")
	viper.SetDefault("apify.tiktok_actor", "clockworks~tiktok-scraper")
	viper.SetDefault("apify.poll_interval", 2*time.Second)
	viper.SetDefault("apify.max_wait", 60*time.Second)
	viper.SetDefault("apify.timeout", 30*time.Second)
	viper.SetDefault("apify.cache_ttl", 30*time.Minute)
	viper.SetDefault("apify.cache_size_mb", 16)

	// Processing defaults
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.ffmpeg_timeout", 5*time.Minute)
	viper.SetDefault("processing.audio_bitrate", "64k")
	viper.SetDefault("processing.audio_sample_rate", 22050)
	viper.SetDefault("processing.audio_mime_type", "audio/mp4")
	viper.SetDefault("processing.extraction_timeout", 5*time.Minute)

	// Download defaults
	viper.SetDefault("download.max_size", 200*1024*1024)
	viper.SetDefault("download.timeout", 2*time.Minute)
	viper.SetDefault("download.user_agent", "RecipeAPI/1.0")

	// Storage defaults
	viper.SetDefault("storage.temp_dir", os.TempDir())
	viper.SetDefault("storage.max_temp_age", 6*time.Hour)
	viper.SetDefault("storage.cleanup_interval", 1*time.Hour)

	// Handoff defaults
	viper.SetDefault("handoff.backend", HandoffBackendFile)
	viper.SetDefault("handoff.shared_dir", "./data/shared")
	viper.SetDefault("handoff.payload_file", "pending_extraction.json")
	viper.SetDefault("handoff.poll_interval", 5*time.Second)
	viper.SetDefault("handoff.watch", true)
	viper.SetDefault("handoff.prefetch_caption", true)

	// Redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key", "recipe:pending_extraction")
	viper.SetDefault("redis.dial_timeout", 5*time.Second)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.development", false)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}
