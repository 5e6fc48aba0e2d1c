package score

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Lam1900/Snakegame/internal/engine"
)

// ErrClosed is returned by Set after Close.
var ErrClosed = errors.New("score: store closed")

// Async wraps a store so Set never blocks the caller. Writes are handed to
// a background goroutine and coalesced: only the best score seen so far is
// written, and a burst of Sets results in at most one pending write.
//
// Async is safe for use by many engines at once, which makes it the shared
// high score for every session on a server.
type Async struct {
	store  engine.ScoreStore
	logger *log.Logger

	mu      sync.Mutex
	best    int // Highest score passed to Set or loaded by Get
	written int // Highest score the inner store accepted
	closed  bool

	wake chan struct{}
	done chan struct{}
}

var _ engine.ScoreStore = (*Async)(nil)

// NewAsync starts the writer goroutine. Call Close to flush and stop it.
func NewAsync(store engine.ScoreStore, logger *log.Logger) *Async {
	if logger == nil {
		logger = log.Default()
	}
	a := &Async{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Get reads the inner store and returns the larger of it and any score
// still waiting to be written.
func (a *Async) Get() (int, error) {
	stored, err := a.store.Get()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err == nil && stored > a.best {
		a.best = stored
		a.written = stored
	}
	if err != nil && a.best == 0 {
		return 0, err
	}
	return a.best, nil
}

// Set queues score for writing if it beats the best seen so far.
func (a *Async) Set(score int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	if score <= a.best {
		return nil
	}
	a.best = score

	select {
	case a.wake <- struct{}{}:
	default:
		// A write is already pending and will pick up the new best.
	}
	return nil
}

// Close writes any pending score and stops the writer.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.wake)
	a.mu.Unlock()

	<-a.done
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for range a.wake {
		a.flush()
	}
	a.flush()
}

func (a *Async) flush() {
	a.mu.Lock()
	best, written := a.best, a.written
	a.mu.Unlock()
	if best <= written {
		return
	}

	if err := a.store.Set(best); err != nil {
		a.logger.Warn("failed to persist high score", "score", best, "err", err)
		return
	}

	a.mu.Lock()
	if best > a.written {
		a.written = best
	}
	a.mu.Unlock()
}
