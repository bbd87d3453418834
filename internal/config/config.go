package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
	Site   SiteConfig   `yaml:"site"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Transport selects the serving surface: "http" or "mcp".
	Transport string `yaml:"transport"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SiteConfig struct {
	// SeedPath points at a YAML website seed imported on first start when
	// the database holds no websites.
	SeedPath string `yaml:"seed_path"`

	// DeniedNodes lists node ids the access gate rejects.
	DeniedNodes []string `yaml:"denied_nodes"`

	// MarkerRoutes maps request paths to site-marker names served ahead of
	// ordinary page lookup.
	MarkerRoutes map[string]string `yaml:"marker_routes"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			Transport: "http",
		},
		DB: DBConfig{
			Path: "sitetree.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Site: SiteConfig{
			// A stable alias to the not-found page wherever the marker
			// target sits in the tree.
			MarkerRoutes: map[string]string{
				"/page-not-found/": "Page Not Found",
			},
		},
	}

	if path := os.Getenv("SITETREE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("SITETREE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("SITETREE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SITETREE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if transport := os.Getenv("SITETREE_SERVER_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if dbPath := os.Getenv("SITETREE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("SITETREE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if seedPath := os.Getenv("SITETREE_SEED_PATH"); seedPath != "" {
		cfg.Site.SeedPath = seedPath
	}

	switch cfg.Server.Transport {
	case "http", "mcp":
	default:
		return Config{}, fmt.Errorf("invalid transport %q", cfg.Server.Transport)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
