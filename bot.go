package main

import (
	"math"
	"math/rand"
	"time"
)

const (
	botWallMargin    = 50.0  // bounce this far from any world edge
	botRetreatRange  = 150.0 // closer than this, cautious bots back off
	botBlindPingDist = 200.0 // farther than this, the threat counts as "out of sight"
	botSteerFactor   = 0.1   // low-pass factor toward target heading per tick
	botPursuitMul    = 1.5   // speed multiplier while pursuing
	botJitterSpread  = 0.5   // cautious-mode heading jitter, ±0.25 rad
)

// BotDecision is what a bot wants the world to do after one AI tick.
// The bot mutates its own position and heading; projectile and ping
// creation stay with the world so broadcasts happen in one place.
type BotDecision struct {
	Fire      bool
	FireAngle float64
	Ping      bool
}

// Update runs one AI tick: perceive the nearest living target, re-roll
// the behavior (no persistent state machine), decide on firing and
// pinging, steer, and move with wall bouncing.
func (b *Bot) Update(cfg *WorldConfig, targets []*Entity, now time.Time) BotDecision {
	var dec BotDecision
	if !b.Alive {
		return dec
	}

	// Perception: nearest living entity within detection range
	var threat *Entity
	best := cfg.BotDetectionRange
	for _, t := range targets {
		if !t.Alive || t.ID == b.ID {
			continue
		}
		if d := Distance(b.X, b.Y, t.X, t.Y); d < best {
			best = d
			threat = t
		}
	}

	if threat != nil {
		angleTo := math.Atan2(threat.Y-b.Y, threat.X-b.X)

		// Behavior is re-rolled every tick, which reads as erratic,
		// jumpy movement — intended for a stealth game.
		if rand.Float64() < cfg.BotAggressiveness {
			b.TargetHeading = angleTo
			b.Speed = cfg.BotSpeed * botPursuitMul
		} else {
			b.Speed = cfg.BotSpeed
			if best < botRetreatRange {
				b.TargetHeading = angleTo + math.Pi
			} else {
				b.TargetHeading = angleTo + (rand.Float64()-0.5)*botJitterSpread
			}
		}

		// Fire with jitter that grows linearly with distance. The
		// cooldown stamp belongs to the world: it is set only when the
		// projectile actually spawns, so a shot dropped at the
		// projectile cap does not burn the cooldown.
		if best < cfg.BotShootRange && now.Sub(b.LastShot) >= cfg.BotShootCooldown() {
			spread := cfg.BotAccuracy * (1 + best/cfg.BotShootRange)
			dec.Fire = true
			dec.FireAngle = angleTo + (rand.Float64()-0.5)*2*spread
		}
	} else {
		// Wander: hold speed, occasionally pick a new heading
		if rand.Float64() < cfg.BotDirectionChangeChance {
			b.TargetHeading = rand.Float64() * 2 * math.Pi
		}
	}

	// Ping when blind, at double the base chance — a blind bot needs
	// the sonar more than one that can see its threat.
	if threat == nil || best > botBlindPingDist {
		if now.Sub(b.LastPing) >= cfg.PingCooldown() && rand.Float64() < 2*cfg.BotPingChance {
			dec.Ping = true
			b.LastPing = now
		}
	}

	// Smooth turning instead of snapping to the target heading
	b.Heading += NormalizeAngle(b.TargetHeading-b.Heading) * botSteerFactor

	// Move, reflecting off walls at the margin. Target heading is reset
	// to the reflected heading so the bot does not immediately steer
	// back into the wall.
	nx := b.X + math.Cos(b.Heading)*b.Speed
	ny := b.Y + math.Sin(b.Heading)*b.Speed
	if nx < botWallMargin || nx > cfg.WorldWidth-botWallMargin {
		b.Heading = math.Pi - b.Heading
		b.TargetHeading = b.Heading
		nx = Clamp(nx, botWallMargin, cfg.WorldWidth-botWallMargin)
	}
	if ny < botWallMargin || ny > cfg.WorldHeight-botWallMargin {
		b.Heading = -b.Heading
		b.TargetHeading = b.Heading
		ny = Clamp(ny, botWallMargin, cfg.WorldHeight-botWallMargin)
	}
	b.X, b.Y = nx, ny

	return dec
}
