package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the trade simulation server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Economy  Economy        `yaml:"economy"`

	// SnapshotPath is where compressed economy snapshots are written.
	SnapshotPath string `yaml:"snapshot_path"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// ServerConfig holds the HTTP query surface listener settings.
type ServerConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns the root config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BindAddress: "0.0.0.0",
			Port:        8380,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "tradewinds",
			DBName:  "tradewinds",
			SSLMode: "disable",
		},
		Economy:      DefaultEconomy(),
		SnapshotPath: "data/economy.snap",
		LogLevel:     "info",
	}
}

// Load reads config from a YAML file layered over defaults. A missing file
// yields pure defaults, not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Economy.Clamp()
	return cfg, nil
}
