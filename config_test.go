package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WorldWidth != 2000 || cfg.WorldHeight != 2000 {
		t.Errorf("unexpected world size: %f x %f", cfg.WorldWidth, cfg.WorldHeight)
	}
	if cfg.MaxHealth != 100 {
		t.Errorf("unexpected max health: %d", cfg.MaxHealth)
	}
	if cfg.MinBots != 4 || cfg.MaxBots != 10 {
		t.Errorf("unexpected bot bounds: %d..%d", cfg.MinBots, cfg.MaxBots)
	}
	if cfg.PingCooldown() != 5*time.Second {
		t.Errorf("unexpected ping cooldown: %v", cfg.PingCooldown())
	}
	if cfg.BulletLifetime() != 3*time.Second {
		t.Errorf("unexpected bullet lifetime: %v", cfg.BulletLifetime())
	}
	if cfg.RespawnTime() != 3*time.Second {
		t.Errorf("unexpected respawn time: %v", cfg.RespawnTime())
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()
	if cfg.WorldWidth != def.WorldWidth || cfg.MinBots != def.MinBots {
		t.Error("no file should mean pure defaults")
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := "min_bots: 2\nworld_width: 800\nping_cooldown_ms: 1000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MinBots != 2 {
		t.Errorf("expected min_bots override 2, got %d", cfg.MinBots)
	}
	if cfg.WorldWidth != 800 {
		t.Errorf("expected world_width override 800, got %f", cfg.WorldWidth)
	}
	if cfg.PingCooldown() != time.Second {
		t.Errorf("expected 1s ping cooldown, got %v", cfg.PingCooldown())
	}
	// Untouched keys keep their defaults
	if cfg.MaxBots != 10 {
		t.Errorf("expected default max_bots 10, got %d", cfg.MaxBots)
	}
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("an explicitly named but missing config file should error")
	}
}
