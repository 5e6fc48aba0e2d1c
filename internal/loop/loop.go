// Package loop runs a single local game: one session server and one
// client sharing the process's terminal.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Lam1900/Snakegame/internal/draw"
	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop/client"
	"github.com/Lam1900/Snakegame/internal/loop/server"
)

// Options configures a local game.
type Options struct {
	Store        engine.ScoreStore
	Level        engine.SpeedLevel
	TileCount    int // Zero for the default grid
	Username     string
	TermSizeFunc draw.TermSizeFunc
	Logger       *log.Logger
}

// Run plays until the user quits. The server lives only as long as the
// client does.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	srv := server.NewServer(server.Options{
		Store:     opts.Store,
		Level:     opts.Level,
		TileCount: opts.TileCount,
		Logger:    logger,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	c := client.NewClient(srv, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     opts.Username,
		TileCount:    opts.TileCount,
	})
	return c.Run()
}
