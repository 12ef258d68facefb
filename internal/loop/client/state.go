package client

import (
	"time"

	"github.com/tomz197/paddles/internal/input"
	"github.com/tomz197/paddles/internal/loop/server"
)

// Phase is what the session is showing.
type Phase int

const (
	PhasePlaying  Phase = iota // Match running (including its countdowns)
	PhaseShutdown              // Server is shutting down
)

// ClientState holds per-session state outside the match itself.
type ClientState struct {
	Input         input.Input
	Phase         Phase
	Running       bool            // Client loop running
	Players       int             // Sessions online, as last reported by the server
	Standing      server.Standing // This player's tally
	delta         time.Duration   // Capped frame delta
	shutdownTimer float64         // Countdown before auto-disconnect on shutdown
	prevPhase     Phase
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Phase:   PhasePlaying,
		Running: true,
	}
}
