// Package spectate streams the lobby and every live board to browsers
// over a websocket.
package spectate

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop/config"
	"github.com/Lam1900/Snakegame/internal/loop/server"
)

// Source provides lobby snapshots. *server.Server satisfies it.
type Source interface {
	GetLobby() *server.LobbySnapshot
}

// Frame is one message on the feed.
type Frame struct {
	Players int                    `json:"players"`
	Best    int                    `json:"best"`
	Top     []server.TopScoreEntry `json:"top"`
	Games   []Game                 `json:"games"`
}

// Game is one session's board.
type Game struct {
	ID        string        `json:"id"`
	User      string        `json:"user"`
	Score     int           `json:"score"`
	State     string        `json:"state"`
	Level     string        `json:"level"`
	Speed     int           `json:"speed"`
	TileCount int           `json:"tileCount"`
	Snake     []engine.Cell `json:"snake"` // Head first
	Food      *engine.Cell  `json:"food,omitempty"`
}

// Options tunes the feed. Zero values use the defaults from loop/config.
type Options struct {
	Interval     time.Duration
	WriteTimeout time.Duration
	Logger       *log.Logger
}

// NewFrame converts a lobby snapshot to its wire form.
func NewFrame(lobby *server.LobbySnapshot) Frame {
	f := Frame{
		Top:   []server.TopScoreEntry{},
		Games: make([]Game, 0),
	}
	if lobby == nil {
		return f
	}
	f.Players = lobby.Players
	f.Best = lobby.Best
	if lobby.TopScores != nil {
		f.Top = lobby.TopScores
	}
	for _, g := range lobby.Games {
		snap := g.Snapshot
		if snap == nil {
			continue
		}
		game := Game{
			ID:        g.ID,
			User:      g.Username,
			Score:     snap.Score,
			State:     snap.State.String(),
			Level:     snap.Level.String(),
			Speed:     snap.Speed,
			TileCount: snap.TileCount,
			Snake:     snap.Snake,
		}
		if snap.HasFood {
			food := snap.Food
			game.Food = &food
		}
		f.Games = append(f.Games, game)
	}
	return f
}

type handler struct {
	src      Source
	opts     Options
	upgrader websocket.Upgrader
}

// Handler returns an http.Handler that upgrades to a websocket and writes a
// Frame every interval until the client goes away.
func Handler(src Source, opts Options) http.Handler {
	if opts.Interval <= 0 {
		opts.Interval = config.SpectateInterval
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = config.SpectateWriteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &handler{
		src:  src,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Read-only public feed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.opts.Logger.Debug("spectator upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	logger := h.opts.Logger.With("remote", r.RemoteAddr)
	logger.Info("spectator connected")
	defer logger.Info("spectator disconnected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.opts.Interval)
	defer ticker.Stop()

	for {
		if err := h.writeFrame(conn); err != nil {
			logger.Debug("spectator write failed", "err", err)
			return
		}
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *handler) writeFrame(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(NewFrame(h.src.GetLobby()))
}
