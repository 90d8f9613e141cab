package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Comment document configuration
	Store StoreConfig

	// Real-time fan-out configuration
	Broadcast BroadcastConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8088"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8081,http://localhost:8082,http://localhost:8083,http://localhost:8084,https://your-frontend-domain.com"`
}

// StoreConfig holds settings for the file-backed comment document
type StoreConfig struct {
	Path string `env:"COMMENTS_FILE" envDefault:"./data/comments.yaml"`
	// NodeID seeds the id generator, 0-1023
	NodeID int64 `env:"NODE_ID" envDefault:"1"`
}

// BroadcastConfig holds subscriber settings
type BroadcastConfig struct {
	// Buffer is the number of pending events kept per subscriber before drops
	Buffer int `env:"BROADCAST_BUFFER" envDefault:"16"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "pretty"
	Env    string `env:"ENV"`
}

// Load reads configuration from a .env file (if present) and the environment.
// Variables already set in the environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("PORT is required")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("COMMENTS_FILE is required")
	}
	if c.Store.NodeID < 0 || c.Store.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be between 0 and 1023, got %d", c.Store.NodeID)
	}
	if c.Broadcast.Buffer < 1 {
		return fmt.Errorf("BROADCAST_BUFFER must be positive, got %d", c.Broadcast.Buffer)
	}
	return nil
}

// AllowAllOrigins reports whether the origin list contains the "*" wildcard
func (c *ServerConfig) AllowAllOrigins() bool {
	for _, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// OriginAllowed reports whether a browser origin may call the API
func (c *ServerConfig) OriginAllowed(origin string) bool {
	if c.AllowAllOrigins() {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}
	return false
}
