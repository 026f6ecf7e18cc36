package main

import (
	"time"
)

// resolveCombat advances every projectile one tick and applies hits.
// Expiry, bounds exit, and hits each remove the projectile with exactly
// one projectileRemoved broadcast. Hit candidates are scanned in store
// iteration order and the first within the hit radius wins — this is
// deliberately order-dependent, not closest-first.
func (w *World) resolveCombat(now time.Time) {
	for id, proj := range w.projectiles {
		proj.Advance()

		if proj.Expired(w.cfg, now) || proj.OutOfBounds(w.cfg) {
			delete(w.projectiles, id)
			w.broadcastAll(Envelope{T: MsgProjectileRemoved, Data: map[string]string{"id": id}})
			continue
		}

		for _, target := range w.livingEntities() {
			if target.ID == proj.OwnerID {
				continue
			}
			if Distance(proj.X, proj.Y, target.X, target.Y) < w.cfg.HitRadius {
				w.applyHit(proj, target, now)
				break
			}
		}
	}
}

// applyHit damages the target and removes the projectile. A lethal hit
// flows into death handling.
func (w *World) applyHit(proj *Projectile, target *Entity, now time.Time) {
	died := target.TakeDamage(proj.Damage)

	w.broadcastAll(Envelope{T: MsgEntityHit, Data: EntityHitMsg{
		ID:        target.ID,
		Damage:    proj.Damage,
		Health:    target.Health,
		ShooterID: proj.OwnerID,
	}})

	delete(w.projectiles, proj.ID)
	w.broadcastAll(Envelope{T: MsgProjectileRemoved, Data: map[string]string{"id": proj.ID}})

	if died {
		w.creditAndAnnounceDeath(target, proj.OwnerID, proj.OwnerName, now)
		if _, isBot := w.bots[target.ID]; isBot {
			// Bots skip the death screen: fresh position, full
			// health, same tick.
			target.Respawn(w.cfg)
			w.broadcastAll(Envelope{T: MsgEntityRespawned, Data: EntityRespawnedMsg{
				ID:     target.ID,
				X:      target.X,
				Y:      target.Y,
				Health: target.Health,
			}})
		} else {
			w.scheduleRespawn(target.ID)
		}
	}
}

// creditAndAnnounceDeath books the death, credits the eliminator if the
// ID resolves across either store, and broadcasts the elimination. An
// unresolvable eliminator still applies the death, just without credit.
// Caller must already have marked the target dead.
func (w *World) creditAndAnnounceDeath(target *Entity, eliminatorID, eliminatorName string, now time.Time) {
	target.Deaths++
	target.RecomputeScore(now)

	if eliminator := w.lookupEntity(eliminatorID); eliminator != nil {
		eliminator.Kills++
		eliminator.RecomputeScore(now)
		eliminatorName = eliminator.Name
		w.analytics.Track(EvtKill, 0, eliminatorID, target.ID)
	}
	w.analytics.Track(EvtDeath, 0, target.ID, eliminatorID)

	w.broadcastAll(Envelope{T: MsgEntityDied, Data: EntityDiedMsg{
		ID:             target.ID,
		EliminatorID:   eliminatorID,
		EliminatorName: eliminatorName,
		Kills:          target.Kills,
		Deaths:         target.Deaths,
		Score:          target.Score,
	}})
}

// scheduleRespawn arms the deferred player respawn. The callback
// re-validates under the lock that the player still exists and is still
// dead — a disconnect or a competing respawn in the meantime simply
// voids the timer.
func (w *World) scheduleRespawn(playerID string) {
	time.AfterFunc(w.cfg.RespawnTime(), func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		p, ok := w.players[playerID]
		if !ok || p.Alive {
			return
		}
		p.Respawn(w.cfg)
		w.broadcastAll(Envelope{T: MsgEntityRespawned, Data: EntityRespawnedMsg{
			ID:     p.ID,
			X:      p.X,
			Y:      p.Y,
			Health: p.Health,
		}})
	})
}

// recomputeScores rederives the score of every living entity from
// uptime and kills. Dead entities keep their last computed value until
// respawn.
func (w *World) recomputeScores(now time.Time) {
	for _, p := range w.players {
		if p.Alive {
			p.RecomputeScore(now)
		}
	}
	for _, b := range w.bots {
		if b.Alive {
			b.RecomputeScore(now)
		}
	}
}
