package engine

import "time"

// Snapshot is an immutable view of an engine for renderers. Callers must
// not modify the Snake slice.
type Snapshot struct {
	Snake     []Cell // Head first
	Food      Cell
	HasFood   bool
	Score     int
	HighScore int
	State     GameState
	Level     SpeedLevel
	Speed     int // Ticks per second
	Direction Direction
	Won       bool // Over because the snake filled the grid
	NewBest   bool // This game raised the high score
	Ticks     uint64
	TileCount int
}

// Head returns the snake's head cell.
func (s *Snapshot) Head() Cell {
	return s.Snake[0]
}

// Interval is the tick interval implied by Speed.
func (s *Snapshot) Interval() time.Duration {
	return time.Second / time.Duration(s.Speed)
}

// Snapshot returns the state as of the last completed command or tick.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// publish copies the current state into a new snapshot.
func (e *Engine) publish() {
	snake := make([]Cell, len(e.body))
	for i, c := range e.body {
		snake[len(e.body)-1-i] = c
	}
	e.snapshot.Store(&Snapshot{
		Snake:     snake,
		Food:      e.food,
		HasFood:   e.hasFood,
		Score:     e.score,
		HighScore: e.highScore,
		State:     e.state,
		Level:     e.level,
		Speed:     e.speed,
		Direction: e.direction,
		Won:       e.won,
		NewBest:   e.newBest,
		Ticks:     e.ticks,
		TileCount: e.tileCount,
	})
}
