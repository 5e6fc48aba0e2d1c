// Package engine implements the snake simulation: an authoritative grid
// model advanced one discrete step at a time by an external scheduler.
//
// An Engine has a single owner. Reset, Start, SetSpeedLevel, Tick and
// ObserveHighScore must be called from one goroutine; SetDirection and
// Snapshot are safe to call from any goroutine at any time.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"

	"github.com/Lam1900/Snakegame/internal/config"
)

// Options configures a new Engine. Zero values pick the defaults.
type Options struct {
	TileCount int         // Grid side length (default config.TileCount)
	Start     *Cell       // Spawn cell (default grid center)
	Level     SpeedLevel  // Initial speed level (default DefaultLevel)
	Store     ScoreStore  // High score persistence (nil keeps it in memory)
	Rand      *rand.Rand  // Food placement source (default time-seeded)
	Logger    *log.Logger // Default log.Default()
}

// Engine owns all state of one game.
type Engine struct {
	tileCount int
	start     Cell
	store     ScoreStore
	rng       *rand.Rand
	logger    *log.Logger

	state     GameState
	level     SpeedLevel
	direction Direction
	speed     int
	score     int
	highScore int
	won       bool
	newBest   bool
	ticks     uint64

	// body is stored tail first so the head is appended and the tail
	// dropped by reslicing. occupied counts body cells per grid index.
	body     []Cell
	occupied []uint16
	food     Cell
	hasFood  bool

	pending  atomic.Uint32 // Direction requested since the last tick
	snapshot atomic.Pointer[Snapshot]
}

// New creates an engine in the Idle state. The high score is loaded from
// the store once; a failing store is logged and treated as empty.
func New(opts Options) *Engine {
	tileCount := opts.TileCount
	if tileCount <= 0 {
		tileCount = config.TileCount
	}
	start := Cell{X: tileCount / 2, Y: tileCount / 2}
	if opts.Start != nil && opts.Start.In(tileCount) {
		start = *opts.Start
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	level := opts.Level
	if !level.Valid() {
		level = DefaultLevel
	}

	e := &Engine{
		tileCount: tileCount,
		start:     start,
		store:     opts.Store,
		rng:       rng,
		logger:    logger,
		level:     level,
		occupied:  make([]uint16, tileCount*tileCount),
	}
	e.loadHighScore()
	e.Reset(level)
	return e
}

func (e *Engine) loadHighScore() {
	if e.store == nil {
		return
	}
	score, err := e.store.Get()
	if err != nil {
		e.logger.Warn("high score unavailable, starting from zero", "err", err)
		return
	}
	if score > 0 {
		e.highScore = score
	}
}

// Reset returns the engine to Idle with a fresh one-cell snake and new food.
// An invalid level keeps the current one. The high score is untouched.
func (e *Engine) Reset(level SpeedLevel) {
	if level.Valid() {
		e.level = level
	}
	e.state = StateIdle
	e.direction = DirNone
	e.pending.Store(uint32(DirNone))
	e.score = 0
	e.speed = e.level.BaseSpeed()
	e.won = false
	e.newBest = false
	e.ticks = 0

	clear(e.occupied)
	e.body = append(e.body[:0], e.start)
	e.occupy(e.start)

	if err := e.placeFood(); err != nil {
		// Only a 1x1 grid gets here.
		e.hasFood = false
	}
	e.publish()
}

// Start moves an Idle engine to Running, heading right. It reports false
// and does nothing in any other state.
func (e *Engine) Start() bool {
	if e.state != StateIdle {
		return false
	}
	e.state = StateRunning
	e.direction = DirRight
	e.pending.Store(uint32(DirNone))
	e.publish()
	return true
}

// SetSpeedLevel changes the level while Idle and re-bases the speed.
// It reports false outside Idle or for an unknown level.
func (e *Engine) SetSpeedLevel(level SpeedLevel) bool {
	if e.state != StateIdle || !level.Valid() {
		return false
	}
	e.level = level
	e.speed = level.BaseSpeed()
	e.publish()
	return true
}

// SetDirection buffers a direction for the next tick. Later calls before
// the tick overwrite earlier ones. A request opposite to the current
// direction is dropped when the tick applies it.
func (e *Engine) SetDirection(d Direction) {
	if !d.Valid() {
		return
	}
	e.pending.Store(uint32(d))
}

// ObserveHighScore raises the high score to a best reached elsewhere,
// such as another game sharing the same store. It never lowers it and
// does not write to the store.
func (e *Engine) ObserveHighScore(score int) {
	if score <= e.highScore {
		return
	}
	e.highScore = score
	e.newBest = false
	e.publish()
}

// Interval is the time the scheduler should wait before the next tick.
func (e *Engine) Interval() time.Duration {
	return time.Second / time.Duration(e.speed)
}

// State returns the lifecycle phase.
func (e *Engine) State() GameState {
	return e.state
}

// Tick advances a running game by one cell.
func (e *Engine) Tick() TickResult {
	if e.state != StateRunning {
		return TickIgnored
	}
	e.applyPendingDirection()
	if e.direction == DirNone {
		return TickIgnored
	}
	e.ticks++

	head := e.body[len(e.body)-1].Add(e.direction)
	ate := e.hasFood && head == e.food

	e.body = append(e.body, head)
	e.occupy(head)
	if !ate {
		tail := e.body[0]
		e.body = e.body[1:]
		e.release(tail)
	}

	// Checked after the move commits: a cell the tail just left is free.
	if !head.In(e.tileCount) || e.occupied[e.index(head)] > 1 {
		e.state = StateOver
		e.recordHighScore()
		e.publish()
		return TickCollided
	}

	if !ate {
		e.publish()
		return TickMoved
	}

	e.score++
	e.recordHighScore()
	if e.score%config.PointsPerSpeedBump == 0 {
		e.speed = min(e.speed+1, e.level.MaxSpeed())
	}
	if err := e.placeFood(); err != nil {
		e.hasFood = false
		e.won = true
		e.state = StateOver
		e.logger.Info("grid filled", "score", e.score)
		e.publish()
		return TickWon
	}
	e.publish()
	return TickAte
}

func (e *Engine) applyPendingDirection() {
	requested := Direction(e.pending.Swap(uint32(DirNone)))
	if !requested.Valid() || requested == e.direction.Opposite() {
		return
	}
	e.direction = requested
}

func (e *Engine) recordHighScore() {
	if e.score <= e.highScore {
		return
	}
	e.highScore = e.score
	e.newBest = true
	if e.store == nil {
		return
	}
	if err := e.store.Set(e.highScore); err != nil {
		e.logger.Warn("failed to persist high score", "score", e.highScore, "err", err)
	}
}

func (e *Engine) index(c Cell) int {
	return c.Y*e.tileCount + c.X
}

func (e *Engine) occupy(c Cell) {
	if c.In(e.tileCount) {
		e.occupied[e.index(c)]++
	}
}

func (e *Engine) release(c Cell) {
	if c.In(e.tileCount) {
		e.occupied[e.index(c)]--
	}
}

func (e *Engine) occupiedAt(c Cell) bool {
	return c.In(e.tileCount) && e.occupied[e.index(c)] > 0
}
