package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values
const (
	DefaultMaxFileSizeMB   = 50 // Telegram bot API upload ceiling
	DefaultDownloadTimeout = 600
	DefaultTempDir         = "./downloads"
	DefaultMaxPerHour      = 5
	DefaultRateWindowSecs  = 3600
	DefaultLogLevel        = "info"
	DefaultProgressStepPct = 10
	DefaultHistoryPath     = "history.db"
)

// Config holds all runtime settings for the bot.
type Config struct {
	Bot       BotConfig       `yaml:"bot"`
	Download  DownloadConfig  `yaml:"download"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Ops       OpsConfig       `yaml:"ops"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type BotConfig struct {
	Token string `yaml:"token"`
}

type DownloadConfig struct {
	MaxFileSizeMB   int    `yaml:"max_file_size_mb"`
	TimeoutSeconds  int    `yaml:"timeout_s"`
	TempDir         string `yaml:"temp_dir"`
	ProgressStepPct int    `yaml:"progress_step_pct"`
	// RegistryPath points at a quality-registry override file; empty
	// means the built-in defaults.
	RegistryPath string `yaml:"registry_path"`
}

type RateLimitConfig struct {
	MaxPerWindow  int `yaml:"max_per_window"`
	WindowSeconds int `yaml:"window_s"`
}

// RedisConfig selects the Redis-backed limiter when an address is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type OpsConfig struct {
	Listen string `yaml:"listen"`
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Download: DownloadConfig{
			MaxFileSizeMB:   DefaultMaxFileSizeMB,
			TimeoutSeconds:  DefaultDownloadTimeout,
			TempDir:         DefaultTempDir,
			ProgressStepPct: DefaultProgressStepPct,
		},
		RateLimit: RateLimitConfig{
			MaxPerWindow:  DefaultMaxPerHour,
			WindowSeconds: DefaultRateWindowSecs,
		},
		History: HistoryConfig{Path: DefaultHistoryPath},
		Logging: LoggingConfig{Level: DefaultLogLevel},
	}
}

// Load reads the config file at path (if it exists), applies environment
// overrides, and validates the result. A missing file is not an error;
// a missing bot token is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.clampDefaults()

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required (set bot.token or TELEGRAM_BOT_TOKEN)")
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv("MAX_FILE_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv("DOWNLOAD_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Download.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.Download.TempDir = v
	}
	if v := os.Getenv("MAX_DOWNLOADS_PER_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.MaxPerWindow = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) clampDefaults() {
	if c.Download.MaxFileSizeMB <= 0 {
		c.Download.MaxFileSizeMB = DefaultMaxFileSizeMB
	}
	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = DefaultDownloadTimeout
	}
	if c.Download.TempDir == "" {
		c.Download.TempDir = DefaultTempDir
	}
	if c.Download.ProgressStepPct <= 0 {
		c.Download.ProgressStepPct = DefaultProgressStepPct
	}
	if c.RateLimit.MaxPerWindow <= 0 {
		c.RateLimit.MaxPerWindow = DefaultMaxPerHour
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = DefaultRateWindowSecs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Download.MaxFileSizeMB) * 1024 * 1024
}

// DownloadTimeout returns the download ceiling as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Download.TimeoutSeconds) * time.Second
}

// RateWindow returns the rate-limit window as a duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
