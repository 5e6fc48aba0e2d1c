package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lam1900/Snakegame/internal/config"
)

// GameState is the lifecycle phase of an engine.
type GameState int

const (
	StateIdle    GameState = iota // Before the first start, or after a reset
	StateRunning                  // Accepting ticks
	StateOver                     // Terminal until reset
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("GameState(%d)", int(s))
	}
}

// ErrInvalidSpeedLevel is returned by ParseSpeedLevel for unknown input.
var ErrInvalidSpeedLevel = errors.New("engine: invalid speed level")

// SpeedLevel selects the base tick rate of a game.
type SpeedLevel int

const (
	LevelNovice SpeedLevel = iota + 1
	LevelNormal
	LevelExpert
)

// DefaultLevel is used when no level has been chosen.
const DefaultLevel = LevelNormal

// Valid reports whether l is a known level.
func (l SpeedLevel) Valid() bool {
	return l >= LevelNovice && l <= LevelExpert
}

// BaseSpeed returns the starting ticks per second for the level.
func (l SpeedLevel) BaseSpeed() int {
	switch l {
	case LevelNovice:
		return config.SpeedNovice
	case LevelExpert:
		return config.SpeedExpert
	default:
		return config.SpeedNormal
	}
}

// MaxSpeed returns the ceiling the level's speed can grow to.
func (l SpeedLevel) MaxSpeed() int {
	return l.BaseSpeed() + config.MaxSpeedBonus
}

func (l SpeedLevel) String() string {
	switch l {
	case LevelNovice:
		return "novice"
	case LevelNormal:
		return "normal"
	case LevelExpert:
		return "expert"
	default:
		return fmt.Sprintf("SpeedLevel(%d)", int(l))
	}
}

// ParseSpeedLevel accepts a level number ("1".."3") or name.
func ParseSpeedLevel(s string) (SpeedLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "novice":
		return LevelNovice, nil
	case "2", "normal":
		return LevelNormal, nil
	case "3", "expert":
		return LevelExpert, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSpeedLevel, s)
}

// TickResult reports what a call to Tick did.
type TickResult int

const (
	TickIgnored  TickResult = iota // Engine not running, or no velocity
	TickMoved                      // Snake advanced one cell
	TickAte                        // Snake advanced onto the food and grew
	TickCollided                   // Snake hit a wall or itself; game over
	TickWon                        // Snake filled the grid; game over
)

func (r TickResult) String() string {
	switch r {
	case TickIgnored:
		return "ignored"
	case TickMoved:
		return "moved"
	case TickAte:
		return "ate"
	case TickCollided:
		return "collided"
	case TickWon:
		return "won"
	default:
		return fmt.Sprintf("TickResult(%d)", int(r))
	}
}

// Over reports whether the tick ended the game.
func (r TickResult) Over() bool {
	return r == TickCollided || r == TickWon
}
