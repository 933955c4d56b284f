package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds all runtime configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	DataDir   string `env:"DATA_DIR"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	MaxDisplayClients int   `env:"MAX_DISPLAY_CLIENTS" default:"50"`
	MaxUploadBytes    int64 `env:"MAX_UPLOAD_BYTES" default:"5242880"` // 5 MiB

	MaxConnectionsPerIP    int     `env:"MAX_CONNECTIONS_PER_IP" default:"20"`
	WSConnectionsPerSecond float64 `env:"WS_CONNECTIONS_PER_SECOND" default:"10"`
	WSConnectionBurst      int     `env:"WS_CONNECTION_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// DATA_DIR falls back to /data when a persistent disk is mounted there,
	// otherwise to the working directory.
	if cfg.DataDir == "" {
		cfg.DataDir = "."
		if info, err := os.Stat("/data"); err == nil && info.IsDir() {
			cfg.DataDir = "/data"
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MaxDisplayClients <= 0 {
		return fmt.Errorf("MAX_DISPLAY_CLIENTS must be positive, got %d", cfg.MaxDisplayClients)
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.MaxConnectionsPerIP <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS_PER_IP must be positive, got %d", cfg.MaxConnectionsPerIP)
	}
	if cfg.WSConnectionsPerSecond <= 0 {
		return fmt.Errorf("WS_CONNECTIONS_PER_SECOND must be positive, got %f", cfg.WSConnectionsPerSecond)
	}
	if cfg.WSConnectionBurst <= 0 {
		return fmt.Errorf("WS_CONNECTION_BURST must be positive, got %d", cfg.WSConnectionBurst)
	}
	return nil
}

// DatabasePath returns the SQLite database file location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "drawdrum.db")
}

// UploadsDir returns the directory uploaded logos are stored in.
func (c *Config) UploadsDir() string {
	return filepath.Join(c.DataDir, "uploads")
}
