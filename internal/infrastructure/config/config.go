package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Desktop   DesktopConfig
	AI        AIConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig holds VFS persistence configuration.
// An empty Path keeps the file system in memory only.
type StorageConfig struct {
	Path     string `envconfig:"VFS_PATH" default:"/tmp/webdesk/fs.json"`
	SeedPath string `envconfig:"VFS_SEED_PATH"`
	SeedDir  string `envconfig:"VFS_SEED_DIR"`
}

// DesktopConfig holds window manager and shell configuration.
type DesktopConfig struct {
	ViewportWidth     int           `envconfig:"VIEWPORT_WIDTH" default:"1440"`
	ViewportHeight    int           `envconfig:"VIEWPORT_HEIGHT" default:"900"`
	TopBarHeight      int           `envconfig:"TOPBAR_HEIGHT" default:"28"`
	DockWidth         int           `envconfig:"DOCK_WIDTH" default:"70"`
	CascadeStep       int           `envconfig:"CASCADE_STEP" default:"20"`
	ZBase             int           `envconfig:"Z_BASE" default:"10"`
	MinWindowWidth    int           `envconfig:"MIN_WINDOW_WIDTH" default:"320"`
	MinWindowHeight   int           `envconfig:"MIN_WINDOW_HEIGHT" default:"200"`
	CatalogPath       string        `envconfig:"CATALOG_PATH"`
	FilesPollInterval time.Duration `envconfig:"FILES_POLL_INTERVAL" default:"2s"`
}

// AIConfig holds AI text service configuration.
type AIConfig struct {
	APIKey   string        `envconfig:"GEMINI_API_KEY"`
	Model    string        `envconfig:"AI_MODEL" default:"gemini-2.5-flash"`
	Endpoint string        `envconfig:"AI_ENDPOINT" default:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout  time.Duration `envconfig:"AI_TIMEOUT" default:"2m"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Storage: StorageConfig{
			Path: "/tmp/webdesk/fs.json",
		},
		Desktop: DesktopConfig{
			ViewportWidth:     1440,
			ViewportHeight:    900,
			TopBarHeight:      28,
			DockWidth:         70,
			CascadeStep:       20,
			ZBase:             10,
			MinWindowWidth:    320,
			MinWindowHeight:   200,
			FilesPollInterval: 2 * time.Second,
		},
		AI: AIConfig{
			Model:    "gemini-2.5-flash",
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  2 * time.Minute,
		},
	}
}
