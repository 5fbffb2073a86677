package main

import (
	"os"
	"path/filepath"
	"testing"
)

// testConfig returns the default tuning with a fixed seed
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 1
	return cfg
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"tiny arena":      func(c *Config) { c.ArenaWidth = c.PlayerSize },
		"zero tick rate":  func(c *Config) { c.TickRate = 0 },
		"negative speed":  func(c *Config) { c.MaxSpeed = -1 },
		"zero shot step":  func(c *Config) { c.ShotStep = 0 },
		"zero cap":        func(c *Config) { c.ExplosionCap = 0 },
		"negative budget": func(c *Config) { c.DeathCooldownTicks = -1 },
	}
	for name, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestTickDuration(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 50
	if got := cfg.TickDuration().Milliseconds(); got != 20 {
		t.Errorf("expected 20ms tick, got %dms", got)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("RAMPAGE_ARENA_WIDTH", "640")
	t.Setenv("RAMPAGE_COUNTDOWN_TICKS", "10")
	t.Setenv("RAMPAGE_SEED", "42")
	t.Setenv("RAMPAGE_STRICT", "true")
	t.Setenv("RAMPAGE_ADDR", ":9999")

	cfg, srv, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ArenaWidth != 640 {
		t.Errorf("expected arena width 640, got %v", cfg.ArenaWidth)
	}
	if cfg.CountdownTicks != 10 {
		t.Errorf("expected countdown 10, got %d", cfg.CountdownTicks)
	}
	if cfg.Seed != 42 || !cfg.Strict {
		t.Errorf("expected seed 42 and strict, got %d %v", cfg.Seed, cfg.Strict)
	}
	if srv.Addr != ":9999" {
		t.Errorf("expected addr :9999, got %s", srv.Addr)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("RAMPAGE_MAX_SPEED=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("RAMPAGE_MAX_SPEED") })

	cfg, _, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxSpeed != 7 {
		t.Errorf("expected max speed 7 from .env, got %v", cfg.MaxSpeed)
	}
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	if _, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("RAMPAGE_TICK_RATE", "0")
	if _, _, err := LoadConfig(""); err == nil {
		t.Error("expected error for zero tick rate")
	}
}
