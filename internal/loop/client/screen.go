package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lam1900/Snakegame/internal/engine"
	loopconfig "github.com/Lam1900/Snakegame/internal/loop/config"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *engine.Snapshot) error {
	if snap == nil {
		return nil
	}

	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.board.Invalidate()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	centerX := c.termWidth / 2
	centerY := c.termHeight / 2

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.tooSmall:
		c.drawTooSmall(centerX, centerY)
	case c.state.Screen == ScreenTitle:
		c.drawTitleScreen(centerX, centerY, snap)
	case c.state.Screen == ScreenPlaying:
		c.board.Draw(c.chunkWriter, snap)
		c.drawPlayingHUD(snap)
	case c.state.Screen == ScreenOver:
		c.board.Draw(c.chunkWriter, snap)
		c.drawPlayingHUD(snap)
		c.drawOverScreen(centerX, centerY, snap)
	}

	return c.chunkWriter.Flush()
}

// drawTitleScreen draws the title, level picker and controls.
func (c *Client) drawTitleScreen(centerX, centerY int, snap *engine.Snapshot) {
	titleArt := []string{
		`  ___ _  _   _   _  _____ `,
		` / __| \| | /_\ | |/ / __|`,
		` \__ \ .' |/ _ \| ' <| _| `,
		` |___/_|\_/_/ \_\_|\_\___|`,
	}

	cw := c.chunkWriter
	t := c.theme
	row := centerY - 9
	for i, line := range titleArt {
		cw.WriteCentered(centerX, row+i, t.Title.Render(line))
	}
	row += len(titleArt) + 1

	cw.WriteCentered(centerX, row, t.Text.Render(fmt.Sprintf("High score: %-6d", snap.HighScore)))
	row += 2

	levels := []engine.SpeedLevel{engine.LevelNovice, engine.LevelNormal, engine.LevelExpert}
	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		label := fmt.Sprintf("%d %s", int(level), strings.ToUpper(level.String()))
		if level == snap.Level {
			parts = append(parts, t.Accent.Render("["+label+"]"))
		} else {
			parts = append(parts, t.Dim.Render(" "+label+" "))
		}
	}
	cw.WriteCentered(centerX, row, strings.Join(parts, "  "))
	row += 2

	controls := []string{
		"Arrows / WASD / HJKL . . Steer",
		"1 2 3  . . . . . . . . . Speed",
		"R  . . . . . . . . . . Restart",
		"Q  . . . . . . . . . . . .Quit",
	}
	for i, line := range controls {
		cw.WriteCentered(centerX, row+i, t.Dim.Render(line))
	}
	row += len(controls) + 1

	// Blinking start prompt; blank it explicitly since the title is not
	// cleared every frame.
	prompt := ">>  Press SPACE to Start  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = strings.Repeat(" ", len(prompt))
	}
	cw.WriteCentered(centerX, row, t.Text.Render(prompt))
}

// drawPlayingHUD draws score, best and speed above the board. Fixed-width
// fields so shrinking values don't leave residue.
func (c *Client) drawPlayingHUD(snap *engine.Snapshot) {
	cw := c.chunkWriter
	t := c.theme
	col, row := c.board.Origin()
	hudRow := row - 1

	cw.WriteAt(col, hudRow, t.Text.Render(fmt.Sprintf("Score: %-5d", snap.Score)))

	best := t.Text.Render(fmt.Sprintf("Best: %-5d", snap.HighScore))
	if c.state.bestFlash > 0 {
		best = t.Title.Render(fmt.Sprintf("Best: %-5d", snap.HighScore))
	}
	cw.WriteAt(col+14, hudRow, best)

	speed := t.Dim.Render(fmt.Sprintf("%2d/s %-6s", snap.Speed, snap.Level))
	cw.WriteAt(col+c.board.Width()-13, hudRow, speed)
}

// drawOverScreen draws the game over panel on top of the final board.
func (c *Client) drawOverScreen(centerX, centerY int, snap *engine.Snapshot) {
	t := c.theme

	title := t.Alert.Render("GAME OVER")
	if snap.Won {
		title = t.Title.Render("BOARD CLEARED!")
	}
	lines := []string{
		title,
		"",
		t.Text.Render(fmt.Sprintf("Final score: %d", snap.Score)),
	}
	if snap.NewBest {
		lines = append(lines, t.Title.Render("New high score!"))
	} else {
		lines = append(lines, t.Dim.Render(fmt.Sprintf("High score: %d", snap.HighScore)))
	}
	lines = append(lines,
		"",
		t.Text.Render("SPACE  play again"),
		t.Dim.Render("R      change speed"),
	)

	panel := t.Panel.Render(strings.Join(lines, "\n"))
	height := strings.Count(panel, "\n") + 1
	c.chunkWriter.WriteBlock(centerX, centerY-height/2, panel)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	t := c.theme
	cw.WriteCentered(centerX, centerY-2, t.Alert.Render("INACTIVITY WARNING"))

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(loopconfig.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, t.Text.Render(msg))
	cw.WriteCentered(centerX, centerY+2, t.Dim.Render("Press any key to continue"))
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	t := c.theme
	cw.WriteCentered(centerX, centerY-3, t.Alert.Render("SERVER SHUTTING DOWN"))
	cw.WriteCentered(centerX, centerY-1, t.Text.Render("The server is restarting for maintenance."))
	cw.WriteCentered(centerX, centerY, t.Text.Render("Please reconnect in a moment."))

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerX, centerY+2, t.Text.Render(fmt.Sprintf("Disconnecting in %2d seconds...", remaining)))
	cw.WriteCentered(centerX, centerY+4, t.Dim.Render("Press Q to disconnect now"))
}

// drawTooSmall asks for a bigger terminal when the board doesn't fit.
func (c *Client) drawTooSmall(centerX, centerY int) {
	msg := fmt.Sprintf("Terminal too small: need %dx%d", c.board.Width(), c.board.Height()+hudRows)
	c.chunkWriter.WriteCentered(centerX, centerY, c.theme.Alert.Render(msg))
}
