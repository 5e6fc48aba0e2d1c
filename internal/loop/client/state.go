package client

import (
	"time"

	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/input"
)

// Screen is what the client is showing, derived from the session's game
// state plus client-only conditions.
type Screen int

const (
	ScreenTitle    Screen = iota // Engine idle: title and level picker
	ScreenPlaying                // Engine running
	ScreenOver                   // Engine over: final score
	ScreenShutdown               // Server is shutting down
)

// screenFor maps an engine state to the screen showing it.
func screenFor(state engine.GameState) Screen {
	switch state {
	case engine.StateRunning:
		return ScreenPlaying
	case engine.StateOver:
		return ScreenOver
	default:
		return ScreenTitle
	}
}

// ClientState holds per-connection state.
type ClientState struct {
	Input         input.Input
	Screen        Screen
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	bestFlash     float64       // Seconds left to highlight a new high score

	prevScreen  Screen
	wasInactive bool
	tooSmall    bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenTitle,
		prevScreen: -1,
		Running:    true,
	}
}
