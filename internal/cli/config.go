package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds server configuration. Flags override file values.
type Config struct {
	Addr string `yaml:"addr"`
	DB   string `yaml:"db"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		DB:   "conduit.db",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.DB == "" {
		cfg.DB = DefaultConfig().DB
	}
	return cfg, nil
}
