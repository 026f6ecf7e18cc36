package main

// adjustPopulation keeps minBots <= humans+bots <= maxBots. Called with
// the world lock held, once per tick and on every disconnect. This is a
// soft control loop: a one-step overshoot is fine, it re-converges on
// the next tick.
func (w *World) adjustPopulation() {
	total := len(w.players) + len(w.bots)

	for total < w.cfg.MinBots {
		w.addBot()
		total++
	}

	// Remove excess bots oldest-first (insertion order); humans are
	// never removed, so the total can stay above max when the surplus
	// is all human.
	for total > w.cfg.MaxBots && len(w.bots) > 0 {
		w.removeBot(w.botOrder[0])
		total--
	}
}

// addBot creates a bot and announces it, mirroring the Entity Store's
// one-notification-per-creation contract.
func (w *World) addBot() {
	b := NewBot(w.cfg)
	w.bots[b.ID] = b
	w.botOrder = append(w.botOrder, b.ID)
	w.broadcastAll(Envelope{T: MsgEntityJoined, Data: b.ToState(w.cfg)})
}

// removeBot deletes a bot and announces its departure
func (w *World) removeBot(id string) {
	b, ok := w.bots[id]
	if !ok {
		return
	}
	delete(w.bots, id)
	for i, bid := range w.botOrder {
		if bid == id {
			w.botOrder = append(w.botOrder[:i], w.botOrder[i+1:]...)
			break
		}
	}
	w.broadcastAll(Envelope{T: MsgEntityLeft, Data: EntityLeftMsg{ID: id, FinalScore: b.Score}})
}
