package server

import (
	"time"

	"github.com/Lam1900/Snakegame/internal/engine"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string    `json:"user"`
	Score    int       `json:"score"`
	At       time.Time `json:"at"` // Earlier entries win ties
}

// GameSummary is one live session as seen from the lobby.
type GameSummary struct {
	ID       string
	Username string
	Snapshot *engine.Snapshot
}

// LobbySnapshot is an immutable view of all sessions, rebuilt periodically.
type LobbySnapshot struct {
	Players   int
	Best      int // Highest score known to the server
	TopScores []TopScoreEntry
	Games     []GameSummary
	UpdatedAt time.Time
}

// CommandType identifies a lifecycle command sent by a client.
type CommandType int

const (
	CmdStart       CommandType = iota // Idle -> Running
	CmdReset                          // Any -> Idle, optionally with a new level
	CmdRestart                        // Reset then start, keeping the level
	CmdSelectLevel                    // Change the level while Idle
	cmdShutdown
)

// ClientCommand is a lifecycle command for a client's session.
type ClientCommand struct {
	Type  CommandType
	Level engine.SpeedLevel // For CmdReset and CmdSelectLevel; zero keeps the current level
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventGameOver ClientEventType = iota
	EventNewHighScore
	EventServerShutdown
)

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type  ClientEventType
	Score int
	Won   bool // For EventGameOver: the snake filled the grid
}
