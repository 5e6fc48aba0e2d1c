// Package client runs the per-connection frame loop: it reads keys,
// forwards them to the session server and draws the session's snapshot.
package client

import (
	"bufio"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Lam1900/Snakegame/internal/config"
	"github.com/Lam1900/Snakegame/internal/draw"
	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/input"
	loopconfig "github.com/Lam1900/Snakegame/internal/loop/config"
	"github.com/Lam1900/Snakegame/internal/loop/server"
)

// hudRows is the space kept above the board for the score line.
const hudRows = 2

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	theme        *draw.Theme
	board        *draw.Board
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	termWidth    int
	termHeight   int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Renderer     *lipgloss.Renderer // Styles for this connection's terminal
	TileCount    int                // Must match the server's grid, zero for the default
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	tileCount := opts.TileCount
	if tileCount <= 0 {
		tileCount = config.TileCount
	}
	username := opts.Username
	if len(username) > loopconfig.MaxUsernameLength {
		username = username[:loopconfig.MaxUsernameLength]
	}

	theme := draw.NewTheme(opts.Renderer, loopconfig.CellWidth)
	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(username),
		state:        NewClientState(),
		theme:        theme,
		board:        draw.NewBoard(tileCount, loopconfig.CellWidth, theme),
		chunkWriter:  draw.NewChunkWriter(w, 0, 0),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client quits, goes idle for
// too long, or the server shuts down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		snap := c.server.GetSnapshot(c.handle.ID)
		if snap == nil {
			break
		}

		c.processInput(snap)
		c.processServerEvents()
		c.updateScreen()
		c.updateState(snap)

		if err := c.drawFrame(c.server.GetSnapshot(c.handle.ID)); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < loopconfig.ClientTargetFrameTime {
			time.Sleep(loopconfig.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads keys and turns them into direction and lifecycle
// commands for the session.
func (c *Client) processInput(snap *engine.Snapshot) {
	c.state.Input = input.ReadInput(c.inputStream)
	c.handleInput(c.state.Input, snap)
}

// handleInput applies one batch of key intents against the session's
// current state.
func (c *Client) handleInput(in input.Input, snap *engine.Snapshot) {
	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}
	if c.state.Screen == ScreenShutdown {
		return
	}

	if in.Direction != engine.DirNone {
		c.server.SendDirection(c.handle.ID, in.Direction)
	}

	switch snap.State {
	case engine.StateIdle:
		if in.Level.Valid() {
			c.send(server.ClientCommand{Type: server.CmdSelectLevel, Level: in.Level})
		}
		if in.Confirm {
			c.send(server.ClientCommand{Type: server.CmdStart})
		}
	case engine.StateRunning:
		if in.Restart {
			c.send(server.ClientCommand{Type: server.CmdReset})
		}
	case engine.StateOver:
		switch {
		case in.Confirm:
			c.send(server.ClientCommand{Type: server.CmdRestart})
		case in.Restart || in.Escape:
			c.send(server.ClientCommand{Type: server.CmdReset})
		}
	}
}

func (c *Client) send(cmd server.ClientCommand) {
	c.server.SendCommand(c.handle.ID, cmd)
}

// processServerEvents handles events from the session.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventNewHighScore:
				c.state.bestFlash = 2.0
			case server.EventGameOver:
				c.state.bestFlash = 0
			case server.EventServerShutdown:
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = loopconfig.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to the max render area
// and centering the board.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.termWidth || renderHeight != c.termHeight {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.board.Invalidate()
		c.termWidth, c.termHeight = renderWidth, renderHeight
	}
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.tooSmall = !c.board.Center(renderWidth, renderHeight, hudRows)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, loopconfig.MaxTermWidth)
	renderHeight = min(termHeight, loopconfig.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateState advances client-side timers and follows the session's
// lifecycle.
func (c *Client) updateState(snap *engine.Snapshot) {
	dt := c.state.delta.Seconds()

	if c.state.Screen == ScreenShutdown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
		return
	}
	c.state.Screen = screenFor(snap.State)

	if c.state.bestFlash > 0 {
		c.state.bestFlash = max(c.state.bestFlash-dt, 0)
	}
}
