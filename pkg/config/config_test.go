package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/laddergrid/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(`
[convert]
ids = "uuid"
normalize = false

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "1h"
`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Convert.IDs != "uuid" || cfg.Convert.Normalize {
		t.Errorf("convert = %+v", cfg.Convert)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if ttl, _ := cfg.Cache.TTLDuration(); ttl != time.Hour {
		t.Errorf("ttl = %v", ttl)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Addr != ":8080" || cfg.Log.Level != "info" {
		t.Errorf("defaults lost: server %+v, log %+v", cfg.Server, cfg.Log)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `[convert`},
		{"ids", "[convert]\nids = \"random\""},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"ttl", "[cache]\nttl = \"soon\""},
		{"level", "[log]\nlevel = \"trace\""},
		{"body", "[server]\nmax_body_bytes = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Decode() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") without a file = %+v, want defaults", cfg)
	}

	p, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(filepath.Dir(p)) != "laddergrid" || filepath.Base(p) != FileName {
		t.Errorf("DefaultPath() = %q", p)
	}
}

func TestTTLDuration(t *testing.T) {
	if d, err := (Cache{}).TTLDuration(); err != nil || d != 0 {
		t.Errorf("empty ttl = %v, %v", d, err)
	}
	if _, err := (Cache{TTL: "x"}).TTLDuration(); err == nil {
		t.Error("invalid ttl parsed")
	}
}
