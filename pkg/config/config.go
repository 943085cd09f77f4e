// Package config loads laddergrid settings from a TOML file.
//
// A missing file is not an error: [Load] falls back to [Default]. Values
// given on the command line override the file.
//
//	[convert]
//	ids = "sequential"
//	normalize = true
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "info"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ids"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Config is the full configuration.
type Config struct {
	Convert Convert `toml:"convert"`
	Cache   Cache   `toml:"cache"`
	Server  Server  `toml:"server"`
	Log     Log     `toml:"log"`
}

// Convert configures conversion calls.
type Convert struct {
	IDs       string `toml:"ids"`
	Normalize bool   `toml:"normalize"`
}

// Cache configures the conversion result cache.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	TTL       string `toml:"ttl"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Convert: Convert{IDs: ids.StrategySequential, Normalize: true},
		Cache:   Cache{Backend: BackendFile, TTL: "24h", RedisAddr: "localhost:6379"},
		Server:  Server{Addr: ":8080", MaxBodyBytes: 1 << 20},
		Log:     Log{Level: "info"},
	}
}

// Load reads path on top of Default. An empty path loads the file from the
// user config directory if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(p); err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "load %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of Default.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values and durations.
func (c Config) Validate() error {
	if !ids.ValidStrategy(c.Convert.IDs) {
		return errors.New(errors.ErrCodeInvalidConfig, "convert.ids: unknown strategy %q (must be sequential or uuid)", c.Convert.IDs)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.ttl")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "log.level: unknown level %q", c.Log.Level)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return nil
}

// TTLDuration parses TTL. An empty TTL means entries never expire.
func (c Cache) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.TTL)
}

// DefaultPath returns $XDG_CONFIG_HOME/laddergrid/config.toml, falling
// back to ~/.config/laddergrid/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "laddergrid", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "laddergrid", FileName), nil
}
