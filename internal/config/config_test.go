package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s

logging:
  level: debug
  format: console

engine:
  swing_lookback: 3
  track_mitigation: true

cache:
  backend: redis
  ttl: 1m
  redis:
    addr: "redis:6379"

batch:
  workers: 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Engine.SwingLookback != 3 || !cfg.Engine.TrackMitigation {
		t.Errorf("unexpected engine section %+v", cfg.Engine)
	}
	if cfg.Engine.MaxFairValueGaps != 15 || cfg.Engine.LiquidityWindow != 20 {
		t.Errorf("expected engine defaults to fill the rest, got %+v", cfg.Engine)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL != time.Minute || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("unexpected cache section %+v", cfg.Cache)
	}
	if cfg.Batch.Workers != 8 || cfg.Batch.MaxSeries != 100 {
		t.Errorf("unexpected batch section %+v", cfg.Batch)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Cache.Backend != CacheMemory || cfg.Logging.Level != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Schedule.CacheSweep != "0 */5 * * * *" {
		t.Errorf("unexpected sweep schedule %q", cfg.Schedule.CacheSweep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SENTINEL_PORT", "7000")
	t.Setenv("SENTINEL_LOG_LEVEL", "warn")
	t.Setenv("SENTINEL_CACHE_BACKEND", "none")
	t.Setenv("REDIS_ADDR", "cache:6380")

	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected env port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" || cfg.Cache.Backend != CacheNone || cfg.Cache.Redis.Addr != "cache:6380" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("SENTINEL_PORT", "http")
	if _, err := Load(""); err == nil {
		t.Error("expected a non-numeric port to fail")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"no workers", func(c *Config) { c.Batch.Workers = -1 }},
		{"bad cron", func(c *Config) { c.Schedule.Stats = "every hour" }},
		{"bad engine", func(c *Config) { c.Engine.SupportProximity = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
