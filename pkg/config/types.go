package config

import "time"

// Handoff backends
const (
	HandoffBackendFile  = "file"
	HandoffBackendRedis = "redis"
)

// Config represents the complete application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	Apify       ApifyConfig      `mapstructure:"apify"`
	Processing  ProcessingConfig `mapstructure:"processing"`
	Download    DownloadConfig   `mapstructure:"download"`
	Storage     StorageConfig    `mapstructure:"storage"`
	Handoff     HandoffConfig    `mapstructure:"handoff"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Monitoring  MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// GeminiConfig contains generative-AI endpoint settings
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ApifyConfig contains scraping actor settings
type ApifyConfig struct {
	Token          string        `mapstructure:"token"`
	BaseURL        string        `mapstructure:"base_url"`
	InstagramActor string        `mapstructure:"instagram_actor"`
	TikTokActor    string        `mapstructure:"tiktok_actor"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	MaxWait        time.Duration `mapstructure:"max_wait"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"` // 0 disables the caption cache
	CacheSizeMB    int64         `mapstructure:"cache_size_mb"`
}

// ProcessingConfig contains audio extraction settings
type ProcessingConfig struct {
	FFmpegPath        string        `mapstructure:"ffmpeg_path"`
	FFprobePath       string        `mapstructure:"ffprobe_path"`
	FFmpegTimeout     time.Duration `mapstructure:"ffmpeg_timeout"`
	AudioBitrate      string        `mapstructure:"audio_bitrate"`
	AudioSampleRate   int           `mapstructure:"audio_sample_rate"`
	AudioMIMEType     string        `mapstructure:"audio_mime_type"`
	ExtractionTimeout time.Duration `mapstructure:"extraction_timeout"`
}

// DownloadConfig contains remote video download settings
type DownloadConfig struct {
	MaxSize   int64         `mapstructure:"max_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// StorageConfig contains temp storage settings
type StorageConfig struct {
	TempDir         string        `mapstructure:"temp_dir"`
	MaxTempAge      time.Duration `mapstructure:"max_temp_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// HandoffConfig contains cross-process mailbox settings
type HandoffConfig struct {
	Backend         string        `mapstructure:"backend"`
	SharedDir       string        `mapstructure:"shared_dir"`
	PayloadFile     string        `mapstructure:"payload_file"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	Watch           bool          `mapstructure:"watch"`
	PrefetchCaption bool          `mapstructure:"prefetch_caption"`
}

// RedisConfig contains settings for the redis mailbox backend
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	Key         string        `mapstructure:"key"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	Development bool   `mapstructure:"development"`
}

// MonitoringConfig contains metrics settings
type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}
