package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/Lam1900/Snakegame/internal/config"
	"github.com/Lam1900/Snakegame/internal/draw"
	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop/client"
	loopconfig "github.com/Lam1900/Snakegame/internal/loop/config"
	"github.com/Lam1900/Snakegame/internal/loop/server"
	"github.com/Lam1900/Snakegame/internal/score"
	"github.com/Lam1900/Snakegame/internal/spectate"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultScoreFile   = "/app/data/" + config.DefaultScoreFile
)

// Global game server - shared by all SSH clients
var (
	gameServer *server.Server
	logger     *log.Logger
	tileCount  int
)

func main() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake-ssh",
	})
	if lvl, err := log.ParseLevel(config.GetEnv("SNAKE_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scorePath := config.GetEnv("SNAKE_SCORE_FILE", defaultScoreFile)
	spectateAddr := config.GetEnv("SPECTATE_ADDR", "")
	spectateInterval := config.GetEnvDuration("SPECTATE_INTERVAL", loopconfig.SpectateInterval)
	shutdownTimeout := config.GetEnvDuration("SNAKE_SHUTDOWN_TIMEOUT", 15*time.Second)
	topScores := config.GetEnvInt("SNAKE_TOP_SCORES", loopconfig.TopScoresCount)
	tileCount = config.GetEnvInt("SNAKE_TILE_COUNT", config.TileCount)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "scoreFile", scorePath)

	level, err := engine.ParseSpeedLevel(config.GetEnv("SNAKE_LEVEL", engine.DefaultLevel.String()))
	if err != nil {
		logger.Fatal("bad SNAKE_LEVEL", "err", err)
	}

	// One store for every session so the high score is global.
	store := score.NewAsync(score.NewFileStore(scorePath, config.HighScoreKey), logger)

	ctx, cancelServer := context.WithCancel(context.Background())
	gameServer = server.NewServer(server.Options{
		Store:     store,
		Level:     level,
		TileCount: tileCount,
		TopScores: topScores,
		Logger:    logger,
	})
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		gameServer.Run(ctx)
	}()
	logger.Info("Game server started")

	var spectator *http.Server
	if spectateAddr != "" {
		spectator = &http.Server{
			Addr:              spectateAddr,
			Handler:           spectatorMux(spectateInterval),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Starting spectator feed", "addr", spectateAddr)
			if err := spectator.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server error", "err", err)
			}
		}()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.DebugLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Gracefully shut down the game server: notify players and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...")
	gameServer.Shutdown(shutdownTimeout)
	cancelServer()
	<-serverDone
	if err := store.Close(); err != nil {
		logger.Warn("closing score store", "err", err)
	}
	logger.Info("Game server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if spectator != nil {
		_ = spectator.Shutdown(shutdownCtx)
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

func spectatorMux(interval time.Duration) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/spectate", spectate.Handler(gameServer, spectate.Options{
		Interval: interval,
		Logger:   logger,
	}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		sessLogger := logger.With("user", sess.User())
		sessLogger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Renderer:     bubbletea.MakeRenderer(sess),
			TileCount:    tileCount,
		}

		// Create a new client connected to the shared game server
		c := client.NewClient(gameServer, reader, sess, clientOpts)
		if err := c.Run(); err != nil {
			sessLogger.Error("Game error", "err", err)
		}

		sessLogger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
