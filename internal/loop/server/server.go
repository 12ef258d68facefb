// Package server tracks the terminal sessions connected to one process:
// who is online, their match results, and graceful shutdown. Each session
// runs its own match; the hub only shares bookkeeping between them.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// GameServer is the interface clients use to talk to the hub.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	Players() int
	RecordResult(clientID int, won bool) Standing
	Standings(n int) []Standing
}

// Hub is the process-wide registry of sessions. It is safe for concurrent use.
type Hub struct {
	clients      map[int]*ClientHandle
	standings    map[string]*Standing
	nextClientID int
	mu           sync.RWMutex
	log          *log.Logger
}

// Compile-time check that Hub implements GameServer.
var _ GameServer = (*Hub)(nil)

// ClientHandle represents a session's registration with the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the session; closed on unregister
}

// ClientEvent represents an event sent from the hub to a session.
type ClientEvent struct {
	Type    ClientEventType
	Players int // Online sessions after the change
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPlayersChanged ClientEventType = iota
	EventServerShutdown
)

// eventBuffer is the per-session event channel capacity. Sends never block;
// a session that stops reading just misses updates.
const eventBuffer = 16

// NewHub creates an empty hub. A nil logger uses the default logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		standings:    make(map[string]*Standing),
		nextClientID: 1,
		log:          logger,
	}
}

// RegisterClient registers a new session and returns its handle.
// An empty username gets a generated one.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextClientID
	h.nextClientID++
	if username == "" {
		username = fmt.Sprintf("player-%d", id)
	}

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, eventBuffer),
	}
	h.clients[id] = handle
	if _, ok := h.standings[username]; !ok {
		h.standings[username] = &Standing{Username: username}
	}

	h.log.Info("client registered", "id", id, "user", username, "players", len(h.clients))
	h.broadcastLocked(ClientEvent{Type: EventPlayersChanged, Players: len(h.clients)})
	return handle
}

// UnregisterClient removes a session and closes its event channel.
// Unknown or already removed IDs are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return
	}
	delete(h.clients, clientID)
	close(handle.EventsCh)

	h.log.Info("client unregistered", "id", clientID, "user", handle.Username, "players", len(h.clients))
	h.broadcastLocked(ClientEvent{Type: EventPlayersChanged, Players: len(h.clients)})
}

// Players returns the number of connected sessions.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RecordResult adds a finished match to the session's tally and returns the
// updated standing. Unknown sessions get a zero Standing.
func (h *Hub) RecordResult(clientID int, won bool) Standing {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return Standing{}
	}
	s := h.standings[handle.Username]
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
	h.log.Debug("match recorded", "user", s.Username, "won", won, "wins", s.Wins, "losses", s.Losses)
	return *s
}

// Standings returns up to n standings, best first. n <= 0 returns all.
func (h *Hub) Standings(n int) []Standing {
	h.mu.RLock()
	entries := make([]Standing, 0, len(h.standings))
	for _, s := range h.standings {
		entries = append(entries, *s)
	}
	h.mu.RUnlock()

	sortStandings(entries)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Shutdown notifies every connected session and waits for them to
// disconnect, up to the given timeout.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		sendEvicting(handle.EventsCh, ClientEvent{Type: EventServerShutdown})
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			h.log.Warn("shutdown timed out", "remaining", h.Players())
			return
		case <-ticker.C:
		}
	}
}

// sendEvicting sends ev, dropping the oldest queued event if the buffer is
// full. Player counts are superseded by later ones, so losing one is safe.
func sendEvicting(ch chan ClientEvent, ev ClientEvent) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// broadcastLocked sends ev to every session without blocking.
// Must be called with the lock held.
func (h *Hub) broadcastLocked(ev ClientEvent) {
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}
