package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"
)

var errStoreDown = errors.New("store down")

// recordingStore is an in-memory ScoreStore that remembers every Set.
type recordingStore struct {
	value  int
	getErr error
	setErr error
	sets   []int
}

func (s *recordingStore) Get() (int, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.value, nil
}

func (s *recordingStore) Set(score int) error {
	s.sets = append(s.sets, score)
	if s.setErr != nil {
		return s.setErr
	}
	s.value = score
	return nil
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return New(opts)
}

// setBody replaces the snake, given head first, and rebuilds occupancy.
func (e *Engine) setBody(cells ...Cell) {
	clear(e.occupied)
	e.body = e.body[:0]
	for i := len(cells) - 1; i >= 0; i-- {
		e.body = append(e.body, cells[i])
		e.occupy(cells[i])
	}
	e.publish()
}

func (e *Engine) setFood(c Cell) {
	e.food = c
	e.hasFood = true
	e.publish()
}

func (e *Engine) setHeading(d Direction) {
	e.direction = d
}

// eatOnce resets the snake to a single cell with food right in front of
// it and ticks once.
func eatOnce(t *testing.T, e *Engine) {
	t.Helper()
	e.setBody(Cell{X: 5, Y: 5})
	e.setHeading(DirRight)
	e.setFood(Cell{X: 6, Y: 5})
	if got := e.Tick(); got != TickAte {
		t.Fatalf("expected TickAte, got %v", got)
	}
}

func running(t *testing.T, opts Options) *Engine {
	t.Helper()
	e := newTestEngine(t, opts)
	if !e.Start() {
		t.Fatalf("expected Start to succeed from idle")
	}
	return e
}
