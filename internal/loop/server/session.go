package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lam1900/Snakegame/internal/engine"
)

// session owns one engine. Its goroutine is the engine's only writer:
// commands arrive on a channel and ticks fire from a timer re-armed with
// the engine's interval after every step.
type session struct {
	id       string
	username string
	engine   *engine.Engine
	commands chan ClientCommand
	events   chan ClientEvent
	cancel   context.CancelFunc
	logger   *log.Logger
	onResult func(username string, score int)
	// Best score across all sessions, read before each step and raised
	// when this session beats it. Nil for a standalone session.
	globalBest func() int
	onBest     func(score int)

	announcedBest bool // EventNewHighScore already sent this game
}

// run processes commands and ticks until ctx is cancelled. It closes the
// events channel on exit.
func (s *session) run(ctx context.Context) {
	defer close(s.events)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	var tick <-chan time.Time

	arm := func() {
		if s.engine.State() == engine.StateRunning {
			timer.Reset(s.engine.Interval())
			tick = timer.C
		} else {
			timer.Stop()
			tick = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			// Only commands that changed the game touch the timer, so a
			// stream of rejected commands can't hold back the next tick.
			if s.handleCommand(cmd) {
				arm()
			}
		case <-tick:
			s.step()
			arm()
		}
	}
}

// handleCommand applies a lifecycle command and reports whether it
// changed the game.
func (s *session) handleCommand(cmd ClientCommand) bool {
	switch cmd.Type {
	case CmdStart:
		if cmd.Level.Valid() {
			s.engine.SetSpeedLevel(cmd.Level)
		}
		s.syncBest()
		if !s.engine.Start() {
			return false
		}
		s.announcedBest = false
		s.logger.Debug("game started", "level", s.engine.Snapshot().Level)
		return true
	case CmdReset:
		s.engine.Reset(cmd.Level)
		s.syncBest()
		return true
	case CmdRestart:
		s.engine.Reset(cmd.Level)
		s.syncBest()
		s.engine.Start()
		s.announcedBest = false
		return true
	case CmdSelectLevel:
		return s.engine.SetSpeedLevel(cmd.Level)
	case cmdShutdown:
		s.send(ClientEvent{Type: EventServerShutdown})
	}
	return false
}

// syncBest pulls in a best score set by another session.
func (s *session) syncBest() {
	if s.globalBest != nil {
		s.engine.ObserveHighScore(s.globalBest())
	}
}

// step runs one tick and reports its consequences.
func (s *session) step() engine.TickResult {
	s.syncBest()
	result := s.engine.Tick()
	snap := s.engine.Snapshot()

	if snap.NewBest && s.onBest != nil {
		s.onBest(snap.HighScore)
	}
	if snap.NewBest && !s.announcedBest {
		s.announcedBest = true
		s.send(ClientEvent{Type: EventNewHighScore, Score: snap.Score})
	}
	if result.Over() {
		s.logger.Info("game over", "score", snap.Score, "won", snap.Won, "ticks", snap.Ticks)
		if s.onResult != nil {
			s.onResult(s.username, snap.Score)
		}
		s.send(ClientEvent{Type: EventGameOver, Score: snap.Score, Won: snap.Won})
	}
	return result
}

func (s *session) send(ev ClientEvent) {
	select {
	case s.events <- ev:
	default:
		// Client not draining events, drop
	}
}
