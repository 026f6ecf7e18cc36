package main

import (
	"math"
	"time"
)

// Projectile is a live bullet. Velocity is stored as per-tick deltas.
// Owner name and color are denormalized so kill messages and rendering
// survive the owner disconnecting mid-flight.
type Projectile struct {
	ID        string
	OwnerID   string
	OwnerName string
	Color     string
	X, Y      float64
	VX, VY    float64
	Damage    int
	CreatedAt time.Time
}

// NewProjectile spawns a bullet at the owner's position along angle
func NewProjectile(owner *Entity, angle float64, cfg *WorldConfig, now time.Time) *Projectile {
	return &Projectile{
		ID:        GenerateID(3),
		OwnerID:   owner.ID,
		OwnerName: owner.Name,
		Color:     owner.Color,
		X:         owner.X,
		Y:         owner.Y,
		VX:        math.Cos(angle) * cfg.BulletSpeed,
		VY:        math.Sin(angle) * cfg.BulletSpeed,
		Damage:    cfg.BulletDamage,
		CreatedAt: now,
	}
}

// Advance integrates one tick of motion
func (p *Projectile) Advance() {
	p.X += p.VX
	p.Y += p.VY
}

// Expired reports whether the projectile outlived its lifetime
func (p *Projectile) Expired(cfg *WorldConfig, now time.Time) bool {
	return now.Sub(p.CreatedAt) > cfg.BulletLifetime()
}

// OutOfBounds reports whether the projectile left the world
func (p *Projectile) OutOfBounds(cfg *WorldConfig) bool {
	return p.X < 0 || p.X > cfg.WorldWidth || p.Y < 0 || p.Y > cfg.WorldHeight
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:      p.ID,
		OwnerID: p.OwnerID,
		Color:   p.Color,
		X:       p.X,
		Y:       p.Y,
		VX:      p.VX,
		VY:      p.VY,
	}
}
