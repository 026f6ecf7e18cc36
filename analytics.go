package main

import (
	"log"
	"sync"
	"time"
)

// Event types for telemetry tracking
const (
	EvtConnect    = "connect"
	EvtDisconnect = "disconnect"
	EvtKill       = "kill"
	EvtDeath      = "death"
	EvtPing       = "ping"
	EvtChat       = "chat"
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	PlayerID  int64  // account ID, 0 for guests and bots
	EntityID  string // in-world entity ID
	Data      string // optional metadata
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes.
// A nil *Analytics is valid and tracks nothing, so the world never has
// to check whether telemetry is enabled.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event for async persistence. Never blocks: a full
// channel drops the event rather than stalling the game loop.
func (a *Analytics) Track(evtType string, playerID int64, entityID, data string) {
	if a == nil {
		return
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		EntityID:  entityID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
	}
}

// Stop gracefully shuts down the analytics writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer batches events and flushes them to the database
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain whatever is queued before exiting
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					if len(batch) > 0 {
						a.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (a *Analytics) flush(batch []AnalyticsEvent) {
	if err := a.db.InsertEvents(batch); err != nil {
		log.Printf("analytics flush error: %v", err)
	}
}
