package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all fastbunkai settings
type Config struct {
	LogLevel     string            `yaml:"log_level" mapstructure:"log_level"`
	Engine       EngineConfig      `yaml:"engine" mapstructure:"engine"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// EngineConfig configures the segmentation engine
type EngineConfig struct {
	LargeTextWarnBytes int    `yaml:"large_text_warn_bytes" mapstructure:"large_text_warn_bytes"` // Warn above this estimated size
	PolicyFile         string `yaml:"policy_file,omitempty" mapstructure:"policy_file"`           // Optional boundary policy YAML
}

// CacheConfig configures the segmentation result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures fetching of URL inputs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RateLimitConfig configures per-domain request rates
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig configures batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Format               string `yaml:"format" mapstructure:"format"`                               // text, json, boundaries, tokens
	Separator            string `yaml:"separator" mapstructure:"separator"`                         // Between sentences in text output
	LinebreakPlaceholder string `yaml:"linebreak_placeholder" mapstructure:"linebreak_placeholder"` // Stands in for newlines on one line
	Verbose              bool   `yaml:"-" mapstructure:"verbose"`
}

// DefaultLargeTextWarnBytes is the estimated input size above which a warning is logged
const DefaultLargeTextWarnBytes = 10 * 1024 * 1024

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "fastbunkai-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".fastbunkai", "cache")
	}

	return &Config{
		LogLevel: "info",
		Engine: EngineConfig{
			LargeTextWarnBytes: DefaultLargeTextWarnBytes,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "FastBunkai/0.1 (+https://github.com/ppiankov/fastbunkai)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Format:               "text",
			Separator:            "│",
			LinebreakPlaceholder: "▁",
		},
	}
}
