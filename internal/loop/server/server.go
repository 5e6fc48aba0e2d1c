// Package server hosts game sessions. Each session runs its own engine in
// its own goroutine; the server keeps the registry, the shared high score
// store and a periodically rebuilt lobby snapshot.
package server

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the game server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID string)
	SendCommand(clientID string, cmd ClientCommand)
	SendDirection(clientID string, d engine.Direction)
	GetSnapshot(clientID string) *engine.Snapshot
	GetLobby() *LobbySnapshot
}

// Options configures a Server.
type Options struct {
	Store     engine.ScoreStore // Shared by every session; nil keeps scores in memory
	Level     engine.SpeedLevel // Initial level for new sessions
	TileCount int               // Grid size, zero for the default
	TopScores int               // Leaderboard length, zero for the default
	Logger    *log.Logger
}

// Server manages the session registry.
type Server struct {
	opts   Options
	logger *log.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu        sync.RWMutex
	sessions  map[string]*session
	topScores []TopScoreEntry

	best  atomic.Int64 // Highest score reached by any session

	lobby atomic.Pointer[LobbySnapshot]
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       string
	Username string
	EventsCh <-chan ClientEvent // Closed when the session ends
}

// NewServer creates a game server. Sessions can be registered right away;
// Run keeps the lobby snapshot fresh.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.TopScores <= 0 {
		opts.TopScores = config.TopScoresCount
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   logger,
		baseCtx:  ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
	}
	if opts.Store != nil {
		if best, err := opts.Store.Get(); err == nil {
			s.raiseBest(best)
		} else {
			logger.Warn("could not load high score", "err", err)
		}
	}
	s.lobby.Store(&LobbySnapshot{Best: s.globalBest(), UpdatedAt: time.Now()})
	return s
}

// Run refreshes the lobby snapshot until ctx is cancelled, then stops all
// sessions and waits for them to exit.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.LobbyRefreshTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cancel()
			s.wg.Wait()
			return
		case <-ticker.C:
			s.refreshLobby()
		}
	}
}

// Shutdown notifies all connected clients and waits for them to
// disconnect, up to timeout. Cancel the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, sess := range s.sessions {
		select {
		case sess.commands <- ClientCommand{Type: cmdShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.sessions)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient creates a session for username and starts its goroutine.
func (s *Server) RegisterClient(username string) *ClientHandle {
	id := uuid.NewString()
	logger := s.logger.With("session", id[:8], "user", username)

	ctx, cancel := context.WithCancel(s.baseCtx)
	sess := &session{
		id:       id,
		username: username,
		engine: engine.New(engine.Options{
			TileCount: s.opts.TileCount,
			Level:     s.opts.Level,
			Store:     s.opts.Store,
			Logger:    logger,
		}),
		commands: make(chan ClientCommand, config.SessionCommandQueue),
		events:   make(chan ClientEvent, config.SessionEventQueue),
		cancel:   cancel,
		logger:     logger,
		onResult:   s.recordResult,
		globalBest: s.globalBest,
		onBest:     s.raiseBest,
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.run(ctx)
	}()

	logger.Info("session registered")
	return &ClientHandle{ID: id, Username: username, EventsCh: sess.events}
}

// UnregisterClient stops and removes a session.
func (s *Server) UnregisterClient(clientID string) {
	s.mu.Lock()
	sess, ok := s.sessions[clientID]
	delete(s.sessions, clientID)
	s.mu.Unlock()

	if ok {
		sess.cancel()
		sess.logger.Info("session unregistered")
	}
}

// SendCommand queues a lifecycle command. Commands are dropped if the
// session's queue is full.
func (s *Server) SendCommand(clientID string, cmd ClientCommand) {
	sess := s.session(clientID)
	if sess == nil {
		return
	}
	select {
	case sess.commands <- cmd:
	default:
		// Command queue full, drop
	}
}

// SendDirection hands a direction straight to the session's engine.
func (s *Server) SendDirection(clientID string, d engine.Direction) {
	if sess := s.session(clientID); sess != nil {
		sess.engine.SetDirection(d)
	}
}

// GetSnapshot returns the latest snapshot of a session, or nil if unknown.
func (s *Server) GetSnapshot(clientID string) *engine.Snapshot {
	if sess := s.session(clientID); sess != nil {
		return sess.engine.Snapshot()
	}
	return nil
}

// GetLobby returns the current lobby snapshot.
func (s *Server) GetLobby() *LobbySnapshot {
	return s.lobby.Load()
}

func (s *Server) globalBest() int {
	return int(s.best.Load())
}

// raiseBest records score as the global best if it beats it.
func (s *Server) raiseBest(score int) {
	for {
		cur := s.best.Load()
		if int64(score) <= cur || s.best.CompareAndSwap(cur, int64(score)) {
			return
		}
	}
}

func (s *Server) session(id string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// recordResult adds a finished game to the leaderboard. Called from
// session goroutines.
func (s *Server) recordResult(username string, score int) {
	if score <= 0 {
		return
	}
	s.raiseBest(score)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.topScores = append(s.topScores, TopScoreEntry{Username: username, Score: score, At: time.Now()})
	slices.SortStableFunc(s.topScores, func(a, b TopScoreEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.At.Compare(b.At)
	})
	if len(s.topScores) > s.opts.TopScores {
		s.topScores = s.topScores[:s.opts.TopScores]
	}
}

// refreshLobby rebuilds the lobby snapshot from the registry.
func (s *Server) refreshLobby() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]GameSummary, 0, len(s.sessions))
	for id, sess := range s.sessions {
		snap := sess.engine.Snapshot()
		games = append(games, GameSummary{ID: id, Username: sess.username, Snapshot: snap})
	}
	slices.SortFunc(games, func(a, b GameSummary) int {
		if a.Snapshot.Score != b.Snapshot.Score {
			return b.Snapshot.Score - a.Snapshot.Score
		}
		if a.Username < b.Username {
			return -1
		}
		if a.Username > b.Username {
			return 1
		}
		return 0
	})

	s.lobby.Store(&LobbySnapshot{
		Players:   len(s.sessions),
		Best:      s.globalBest(),
		TopScores: slices.Clone(s.topScores),
		Games:     games,
		UpdatedAt: time.Now(),
	})
}
