// Package config centralizes the tunables of the session server and the
// terminal clients.
package config

import "time"

// Board rendering. Each grid cell is drawn as CellWidth terminal columns
// so cells look roughly square.
const (
	CellWidth = 2
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Max render area; larger terminals get the board centered.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Lobby
const (
	TopScoresCount      = 5
	LobbyRefreshTime    = 250 * time.Millisecond
	SessionCommandQueue = 16
	SessionEventQueue   = 16
)

// Spectator feed
const (
	SpectateInterval     = 200 * time.Millisecond
	SpectateWriteTimeout = 2 * time.Second
)
