package main

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickInterval = 100 * time.Millisecond // 10Hz simulation and snapshot rate

	maxProjectiles    = 500
	defaultPlayerName = "Operative"
	maxNameLen        = 16
	leaderboardSize   = 10
)

// Broadcaster is the outbound side of a session. JSON carries discrete
// events; binary carries the msgpack snapshot.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// World owns all game state: the entity stores, the projectile store,
// and the session registry. A single mutex serializes gateway intents
// and the tick loop, so every mutation is atomic with respect to every
// other — the stores need no further locking discipline.
type World struct {
	mu          sync.Mutex
	cfg         *WorldConfig
	players     map[string]*Player
	bots        map[string]*Bot
	botOrder    []string // insertion order, oldest first — removal preference
	projectiles map[string]*Projectile
	clients     map[string]Broadcaster
	analytics   *Analytics
	tick        uint64
	running     bool
	stop        chan struct{}
}

// NewWorld creates an empty world. analytics may be nil.
func NewWorld(cfg *WorldConfig, analytics *Analytics) *World {
	return &World{
		cfg:         cfg,
		players:     make(map[string]*Player),
		bots:        make(map[string]*Bot),
		projectiles: make(map[string]*Projectile),
		clients:     make(map[string]Broadcaster),
		analytics:   analytics,
		stop:        make(chan struct{}),
	}
}

// Run starts the fixed-interval tick loop
func (w *World) Run() {
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.update()
		case <-w.stop:
			return
		}
	}
}

// Stop terminates the tick loop
func (w *World) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.running = false
		close(w.stop)
	}
}

// update runs one tick, strictly in order: bots, combat, population,
// score recomputation, snapshot.
func (w *World) update() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	w.tick++

	w.runBots(now)
	w.resolveCombat(now)
	w.adjustPopulation()
	w.recomputeScores(now)
	w.broadcastSnapshot(now)
}

// runBots executes the Bot Controller for every bot. Each bot gets a
// movement broadcast every tick whether or not it moved — clients
// reconcile against the stream instead of guessing.
func (w *World) runBots(now time.Time) {
	targets := w.livingEntities()
	for _, b := range w.bots {
		dec := b.Update(w.cfg, targets, now)
		if dec.Fire && len(w.projectiles) < maxProjectiles {
			b.LastShot = now
			proj := NewProjectile(&b.Entity, dec.FireAngle, w.cfg, now)
			w.projectiles[proj.ID] = proj
			w.broadcastAll(Envelope{T: MsgProjectileFired, Data: proj.ToState()})
		}
		if dec.Ping {
			w.broadcastAll(Envelope{T: MsgPingEmitted, Data: PingEmittedMsg{
				OriginID:  b.ID,
				X:         b.X,
				Y:         b.Y,
				Timestamp: now.UnixMilli(),
				Color:     b.Color,
				MaxRadius: w.cfg.PingMaxRadius,
			}})
		}
		w.broadcastAll(Envelope{T: MsgEntityMoved, Data: EntityMovedMsg{ID: b.ID, X: b.X, Y: b.Y}})
	}
}

// livingEntities returns every living player and bot as plain entities.
// Only the Combat Resolver and the Bot Controller's perception pass
// consume this cross-store view.
func (w *World) livingEntities() []*Entity {
	out := make([]*Entity, 0, len(w.players)+len(w.bots))
	for _, p := range w.players {
		if p.Alive {
			out = append(out, &p.Entity)
		}
	}
	for _, b := range w.bots {
		if b.Alive {
			out = append(out, &b.Entity)
		}
	}
	return out
}

// lookupEntity resolves an ID across both stores
func (w *World) lookupEntity(id string) *Entity {
	if p, ok := w.players[id]; ok {
		return &p.Entity
	}
	if b, ok := w.bots[id]; ok {
		return &b.Entity
	}
	return nil
}

// AddPlayer creates a player entity and announces it to everyone else.
// The caller attaches the Broadcaster and sends the bootstrap.
func (w *World) AddPlayer(name string) *Player {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := NewPlayer(name, w.cfg)
	w.players[p.ID] = p
	w.broadcastExcept(p.ID, Envelope{T: MsgEntityJoined, Data: p.ToState(w.cfg)})
	w.analytics.Track(EvtConnect, 0, p.ID, "")
	return p
}

// RemovePlayer finalizes and removes a player, then re-checks the bot
// population. Returns the final stats for persistence.
func (w *World) RemovePlayer(id string) (finalScore, kills, deaths int, playtime float64, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, exists := w.players[id]
	if !exists {
		return 0, 0, 0, 0, false
	}
	now := time.Now()
	p.RecomputeScore(now)
	delete(w.players, id)
	delete(w.clients, id)
	w.broadcastAll(Envelope{T: MsgEntityLeft, Data: EntityLeftMsg{ID: id, FinalScore: p.Score}})
	w.analytics.Track(EvtDisconnect, p.AuthPlayerID, id, "")
	w.adjustPopulation()
	return p.Score, p.Kills, p.Deaths, now.Sub(p.JoinedAt).Seconds(), true
}

// SetClient associates a broadcaster with a player
func (w *World) SetClient(playerID string, client Broadcaster) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[playerID] = client
}

// SetAuth links an authenticated account to a live player
func (w *World) SetAuth(playerID string, authID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if p, ok := w.players[playerID]; ok {
		p.AuthPlayerID = authID
	}
}

// Bootstrap builds the initial full-state message for a new session
func (w *World) Bootstrap(playerID string) *BootstrapMsg {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[playerID]
	if !ok {
		return nil
	}
	msg := &BootstrapMsg{
		SelfID: p.ID,
		Self:   p.ToState(w.cfg),
		Config: w.cfg,
	}
	for _, other := range w.players {
		msg.Entities = append(msg.Entities, other.ToState(w.cfg))
	}
	for _, b := range w.bots {
		msg.Entities = append(msg.Entities, b.ToState(w.cfg))
	}
	return msg
}

// HandleMove applies a movement intent. Out-of-bounds coordinates are
// clamped, not rejected; intents from dead or absent entities are
// dropped silently.
func (w *World) HandleMove(id string, x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	p.X = Clamp(x, 0, w.cfg.WorldWidth)
	p.Y = Clamp(y, 0, w.cfg.WorldHeight)
	w.broadcastExcept(id, Envelope{T: MsgEntityMoved, Data: EntityMovedMsg{ID: id, X: p.X, Y: p.Y}})
}

// HandleEmitPing emits a sonar ping, or answers with the remaining
// cooldown if the last ping was too recent.
func (w *World) HandleEmitPing(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	now := time.Now()
	if elapsed := now.Sub(p.LastPing); elapsed < w.cfg.PingCooldown() {
		w.sendTo(id, Envelope{T: MsgPingOnCooldown, Data: PingOnCooldownMsg{
			RemainingMs: (w.cfg.PingCooldown() - elapsed).Milliseconds(),
		}})
		return
	}
	p.LastPing = now
	w.broadcastAll(Envelope{T: MsgPingEmitted, Data: PingEmittedMsg{
		OriginID:  p.ID,
		X:         p.X,
		Y:         p.Y,
		Timestamp: now.UnixMilli(),
		Color:     p.Color,
		MaxRadius: w.cfg.PingMaxRadius,
	}})
	w.analytics.Track(EvtPing, p.AuthPlayerID, id, "")
}

// HandleShoot fires a projectile. Premature shots are dropped silently;
// the shoot cooldown is the only validation beyond liveness.
func (w *World) HandleShoot(id string, angle float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	now := time.Now()
	if now.Sub(p.LastShot) < w.cfg.ShootCooldown() {
		return
	}
	if len(w.projectiles) >= maxProjectiles {
		return
	}
	p.LastShot = now
	proj := NewProjectile(&p.Entity, angle, w.cfg, now)
	w.projectiles[proj.ID] = proj
	w.broadcastAll(Envelope{T: MsgProjectileFired, Data: proj.ToState()})
}

// HandleSetName renames a player, falling back to the default label
func (w *World) HandleSetName(id, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultPlayerName
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	p.Name = name
	w.broadcastAll(Envelope{T: MsgNameUpdated, Data: NameUpdatedMsg{ID: id, Name: name}})
}

// HandleChat relays a chat line verbatim to everyone
func (w *World) HandleChat(id, text string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	w.broadcastAll(Envelope{T: MsgChat, Data: ChatRelayMsg{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}})
	w.analytics.Track(EvtChat, p.AuthPlayerID, id, "")
}

// HandleReportElim is the client-trusted elimination path. It coexists
// with server-side hit detection; the already-dead guard keeps the two
// from double-counting a single death.
func (w *World) HandleReportElim(id, eliminatorID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.players[id]
	if !ok || !p.Alive {
		return
	}
	p.Health = 0
	p.Alive = false
	w.creditAndAnnounceDeath(&p.Entity, eliminatorID, "", time.Now())
	w.scheduleRespawn(id)
}

// PlayerCount returns the number of human players
func (w *World) PlayerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.players)
}

// BotCount returns the number of bots
func (w *World) BotCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bots)
}

// broadcastSnapshot sends the msgpack full-state frame to every
// session. Skipped entirely while the world is empty.
func (w *World) broadcastSnapshot(now time.Time) {
	if len(w.players)+len(w.bots) == 0 {
		return
	}
	snap := Snapshot{
		Entities:    make([]EntityState, 0, len(w.players)+len(w.bots)),
		Projectiles: make([]ProjectileState, 0, len(w.projectiles)),
		Leaderboard: w.leaderboard(),
		Timestamp:   now.UnixMilli(),
	}
	for _, p := range w.players {
		snap.Entities = append(snap.Entities, p.ToState(w.cfg))
	}
	for _, b := range w.bots {
		snap.Entities = append(snap.Entities, b.ToState(w.cfg))
	}
	for _, proj := range w.projectiles {
		snap.Projectiles = append(snap.Projectiles, proj.ToState())
	}

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return
	}
	for _, client := range w.clients {
		client.SendBinary(data)
	}
}

// leaderboard returns the top entities by score, annotated with a
// kill/death ratio (kills when deaths is zero).
func (w *World) leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(w.players)+len(w.bots))
	add := func(e *Entity) {
		kd := float64(e.Kills)
		if e.Deaths > 0 {
			kd = round2(float64(e.Kills) / float64(e.Deaths))
		}
		entries = append(entries, LeaderboardEntry{
			ID:     e.ID,
			Name:   e.Name,
			Score:  e.Score,
			Kills:  e.Kills,
			Deaths: e.Deaths,
			KD:     kd,
		})
	}
	for _, p := range w.players {
		add(&p.Entity)
	}
	for _, b := range w.bots {
		add(&b.Entity)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}

// broadcastAll sends a JSON event to every session
func (w *World) broadcastAll(msg Envelope) {
	for _, client := range w.clients {
		client.SendJSON(msg)
	}
}

// broadcastExcept sends a JSON event to everyone but one session
func (w *World) broadcastExcept(id string, msg Envelope) {
	for pid, client := range w.clients {
		if pid == id {
			continue
		}
		client.SendJSON(msg)
	}
}

// sendTo sends a JSON event to a single session
func (w *World) sendTo(id string, msg Envelope) {
	if client, ok := w.clients[id]; ok {
		client.SendJSON(msg)
	}
}
