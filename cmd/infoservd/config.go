package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration. Every field has a flag
// counterpart; flags set explicitly on the command line win over the
// config file.
type Config struct {
	Listen       string `yaml:"listen"`
	DBPath       string `yaml:"db"`
	TLSCert      string `yaml:"tls_cert"`
	TLSKey       string `yaml:"tls_key"`
	LogLevel     string `yaml:"log_level"`
	Syslog       bool   `yaml:"syslog"`
	SyslogSocket string `yaml:"syslog_socket"`
}

// DefaultConfig returns the configuration used when neither flags nor
// a config file override it.
func DefaultConfig() Config {
	return Config{
		Listen:   ":20181",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level.
// Unknown names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
