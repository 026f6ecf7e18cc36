package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Entity is the state shared by players and bots. Player and Bot embed
// it; the Combat Resolver only ever sees *Entity, so both kinds are
// valid targets without any runtime kind checks.
type Entity struct {
	ID    string
	Name  string
	Color string

	X, Y float64

	Health int
	Alive  bool

	JoinedAt time.Time
	LastPing time.Time
	LastShot time.Time

	Kills  int
	Deaths int
	Score  int // derived: recomputed every tick, never incremented
}

// Player is a human-controlled entity. Position updates arrive from the
// client; the server only clamps them.
type Player struct {
	Entity
	AuthPlayerID int64 // 0 = guest
}

// Bot is an AI-controlled entity steered by the Bot Controller.
type Bot struct {
	Entity
	Heading       float64
	TargetHeading float64
	Speed         float64
}

var botCallsigns = []string{
	"Viper", "Ghost", "Static", "Echo", "Umbra",
	"Drift", "Fathom", "Murk", "Shade", "Abyss",
}

// NewPlayer creates a player entity at a random in-bounds position.
// Player IDs are connection-derived UUIDs under the "player-" namespace
// so they can never collide with bot IDs.
func NewPlayer(name string, cfg *WorldConfig) *Player {
	id := "player-" + uuid.NewString()
	p := &Player{
		Entity: Entity{
			ID:       id,
			Name:     name,
			Color:    HueColor(id),
			Health:   cfg.MaxHealth,
			Alive:    true,
			JoinedAt: time.Now(),
		},
	}
	p.X, p.Y = randomPosition(cfg)
	return p
}

// NewBot creates a bot entity with a generator-derived ID and a random
// initial heading.
func NewBot(cfg *WorldConfig) *Bot {
	id := "bot-" + GenerateID(4)
	b := &Bot{
		Entity: Entity{
			ID:       id,
			Name:     botCallsigns[rand.Intn(len(botCallsigns))] + "-" + id[len(id)-4:],
			Color:    HueColor(id),
			Health:   cfg.MaxHealth,
			Alive:    true,
			JoinedAt: time.Now(),
		},
		Heading: rand.Float64() * 2 * math.Pi,
		Speed:   cfg.BotSpeed,
	}
	b.TargetHeading = b.Heading
	b.X, b.Y = randomPosition(cfg)
	return b
}

// TakeDamage reduces health, clamping at 0, and returns true exactly
// once when the entity dies.
func (e *Entity) TakeDamage(dmg int) bool {
	if !e.Alive {
		return false
	}
	e.Health -= dmg
	if e.Health <= 0 {
		e.Health = 0
		e.Alive = false
		return true
	}
	return false
}

// Respawn restores the entity at a fresh random position
func (e *Entity) Respawn(cfg *WorldConfig) {
	e.X, e.Y = randomPosition(cfg)
	e.Health = cfg.MaxHealth
	e.Alive = true
}

// RecomputeScore derives the score from uptime and kills. Idempotent:
// calling it any number of times with the same inputs yields the same
// value, so there is no accumulation drift.
func (e *Entity) RecomputeScore(now time.Time) {
	e.Score = int(now.Sub(e.JoinedAt).Seconds()) + e.Kills*100
}

func (e *Entity) toState(bot bool, maxHealth int) EntityState {
	return EntityState{
		ID:        e.ID,
		Name:      e.Name,
		Color:     e.Color,
		X:         e.X,
		Y:         e.Y,
		Health:    e.Health,
		MaxHealth: maxHealth,
		Alive:     e.Alive,
		Bot:       bot,
		Score:     e.Score,
		Kills:     e.Kills,
		Deaths:    e.Deaths,
	}
}

// ToState converts to protocol state
func (p *Player) ToState(cfg *WorldConfig) EntityState {
	return p.toState(false, cfg.MaxHealth)
}

// ToState converts to protocol state
func (b *Bot) ToState(cfg *WorldConfig) EntityState {
	return b.toState(true, cfg.MaxHealth)
}

func randomPosition(cfg *WorldConfig) (float64, float64) {
	return rand.Float64() * cfg.WorldWidth, rand.Float64() * cfg.WorldHeight
}
