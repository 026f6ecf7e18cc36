package main

import (
	"log"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 200
)

// Hub tracks connected clients and owns the single authoritative world.
// There is exactly one world per process — no rooms, no sharding.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	world      *World
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Accounts & telemetry
	db        *DB
	auth      *Auth
	analytics *Analytics
}

// NewHub creates a Hub around a fresh world. db may be nil (guest-only
// mode, no stats persistence).
func NewHub(cfg *WorldConfig, db *DB, analytics *Analytics) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		ipConns:    make(map[string]int),
		db:         db,
		analytics:  analytics,
		world:      NewWorld(cfg, analytics),
	}
	if db != nil {
		h.auth = NewAuth(db)
	}
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.finalizePlayer(client)
		}
	}
}

// finalizePlayer removes the departed client's entity and, for
// authenticated accounts, folds the session into lifetime stats.
func (h *Hub) finalizePlayer(client *Client) {
	if client.playerID == "" {
		return
	}
	_, kills, deaths, playtime, ok := h.world.RemovePlayer(client.playerID)
	if !ok {
		return
	}
	if h.db != nil && client.authPlayerID != 0 {
		if err := h.db.AddLifetimeStats(client.authPlayerID, kills, deaths, playtime); err != nil {
			log.Printf("stats persist error for %s: %v", client.authUsername, err)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
