package main

import (
	"strings"
	"testing"
	"time"
)

func TestNewPlayerDefaults(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPlayer("Tester", cfg)

	if !strings.HasPrefix(p.ID, "player-") {
		t.Errorf("player ID should carry the player- namespace, got %s", p.ID)
	}
	if !p.Alive || p.Health != cfg.MaxHealth {
		t.Errorf("expected alive at full health, got alive=%v health=%d", p.Alive, p.Health)
	}
	if p.X < 0 || p.X > cfg.WorldWidth || p.Y < 0 || p.Y > cfg.WorldHeight {
		t.Errorf("spawn out of bounds: (%f, %f)", p.X, p.Y)
	}
	if p.Color != HueColor(p.ID) {
		t.Error("color must be derived from the ID")
	}
	if p.AuthPlayerID != 0 {
		t.Error("fresh players are guests")
	}
}

func TestNewBotDefaults(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBot(cfg)

	if !strings.HasPrefix(b.ID, "bot-") {
		t.Errorf("bot ID should carry the bot- namespace, got %s", b.ID)
	}
	if b.Speed != cfg.BotSpeed {
		t.Errorf("expected speed %f, got %f", cfg.BotSpeed, b.Speed)
	}
	if b.TargetHeading != b.Heading {
		t.Error("initial target heading should match heading")
	}
	if b.Name == "" {
		t.Error("bots get a callsign")
	}
}

func TestTakeDamageClampsAndDiesOnce(t *testing.T) {
	e := &Entity{Health: 100, Alive: true}

	if died := e.TakeDamage(40); died {
		t.Error("non-lethal damage must not report death")
	}
	if e.Health != 60 {
		t.Errorf("expected 60 health, got %d", e.Health)
	}

	if died := e.TakeDamage(70); !died {
		t.Error("lethal damage must report death")
	}
	if e.Health != 0 || e.Alive {
		t.Errorf("expected dead at 0 health, got alive=%v health=%d", e.Alive, e.Health)
	}

	// Further damage on a corpse is a no-op
	if died := e.TakeDamage(10); died {
		t.Error("a dead entity must not die twice")
	}
	if e.Health != 0 {
		t.Errorf("health must stay clamped at 0, got %d", e.Health)
	}
}

func TestRespawnRestoresEntity(t *testing.T) {
	cfg := DefaultConfig()
	e := &Entity{Health: 0, Alive: false, X: -10, Y: -10}
	e.Respawn(cfg)

	if !e.Alive || e.Health != cfg.MaxHealth {
		t.Errorf("expected alive at full health, got alive=%v health=%d", e.Alive, e.Health)
	}
	if e.X < 0 || e.X > cfg.WorldWidth || e.Y < 0 || e.Y > cfg.WorldHeight {
		t.Errorf("respawn out of bounds: (%f, %f)", e.X, e.Y)
	}
}

func TestRecomputeScoreDerivation(t *testing.T) {
	now := time.Now()
	e := &Entity{JoinedAt: now.Add(-30 * time.Second), Kills: 2}

	e.RecomputeScore(now)
	if e.Score != 30+200 {
		t.Errorf("expected score 230, got %d", e.Score)
	}

	// Idempotent for fixed inputs
	e.RecomputeScore(now)
	if e.Score != 230 {
		t.Errorf("recompute drifted: %d", e.Score)
	}
}
