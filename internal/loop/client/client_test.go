package client

import (
	"bufio"
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/input"
	"github.com/Lam1900/Snakegame/internal/loop/server"
)

type fakeServer struct {
	mu           sync.Mutex
	snap         *engine.Snapshot
	events       chan server.ClientEvent
	commands     []server.ClientCommand
	directions   []engine.Direction
	unregistered bool
}

func newFakeServer(state engine.GameState) *fakeServer {
	return &fakeServer{
		snap: &engine.Snapshot{
			Snake:     []engine.Cell{{X: 10, Y: 10}},
			Food:      engine.Cell{X: 3, Y: 3},
			HasFood:   true,
			State:     state,
			Level:     engine.LevelNormal,
			Speed:     7,
			TileCount: 20,
		},
		events: make(chan server.ClientEvent, 4),
	}
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	return &server.ClientHandle{ID: "test", Username: username, EventsCh: f.events}
}

func (f *fakeServer) UnregisterClient(string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered = true
}

func (f *fakeServer) SendCommand(_ string, cmd server.ClientCommand) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
}

func (f *fakeServer) SendDirection(_ string, d engine.Direction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directions = append(f.directions, d)
}

func (f *fakeServer) GetSnapshot(string) *engine.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeServer) GetLobby() *server.LobbySnapshot {
	return &server.LobbySnapshot{}
}

func (f *fakeServer) sentCommands() []server.CommandType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]server.CommandType, len(f.commands))
	for i, c := range f.commands {
		types[i] = c.Type
	}
	return types
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, fs *fakeServer, keys string, w, h int) (*Client, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := NewClient(fs, bufio.NewReader(strings.NewReader(keys)), &out, ClientOptions{
		TermSizeFunc: fixedSize(w, h),
		Username:     "tester",
	})
	return c, &out
}

func TestHandleInputCommands(t *testing.T) {
	tests := []struct {
		name  string
		state engine.GameState
		in    input.Input
		want  []server.CommandType
	}{
		{"idle level then start", engine.StateIdle, input.Input{Level: engine.LevelExpert, Confirm: true}, []server.CommandType{server.CmdSelectLevel, server.CmdStart}},
		{"idle restart ignored", engine.StateIdle, input.Input{Restart: true}, nil},
		{"running reset", engine.StateRunning, input.Input{Restart: true}, []server.CommandType{server.CmdReset}},
		{"running level ignored", engine.StateRunning, input.Input{Level: engine.LevelNovice}, nil},
		{"over play again", engine.StateOver, input.Input{Confirm: true}, []server.CommandType{server.CmdRestart}},
		{"over back to menu", engine.StateOver, input.Input{Escape: true}, []server.CommandType{server.CmdReset}},
		{"quit sends nothing", engine.StateIdle, input.Input{Quit: true, Confirm: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeServer(tt.state)
			c, _ := newTestClient(t, fs, "", 80, 30)
			tt.in.Pressed = []byte{'x'}

			c.handleInput(tt.in, fs.GetSnapshot(""))

			got := fs.sentCommands()
			if len(got) != len(tt.want) {
				t.Fatalf("commands = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("commands = %v, want %v", got, tt.want)
				}
			}
			if tt.in.Quit && c.state.Running {
				t.Error("quit should stop the client")
			}
		})
	}
}

func TestHandleInputForwardsDirection(t *testing.T) {
	fs := newFakeServer(engine.StateRunning)
	c, _ := newTestClient(t, fs, "", 80, 30)

	c.handleInput(input.Input{Direction: engine.DirLeft, Pressed: []byte{'a'}}, fs.GetSnapshot(""))
	c.handleInput(input.Input{}, fs.GetSnapshot(""))

	if len(fs.directions) != 1 || fs.directions[0] != engine.DirLeft {
		t.Fatalf("directions = %v, want [left]", fs.directions)
	}
}

func TestHandleInputIgnoredDuringShutdown(t *testing.T) {
	fs := newFakeServer(engine.StateRunning)
	c, _ := newTestClient(t, fs, "", 80, 30)
	c.state.Screen = ScreenShutdown

	c.handleInput(input.Input{Direction: engine.DirUp, Restart: true, Pressed: []byte{'w'}}, fs.GetSnapshot(""))

	if len(fs.commands) != 0 || len(fs.directions) != 0 {
		t.Fatalf("expected no traffic during shutdown, got %v %v", fs.commands, fs.directions)
	}
}

func TestScreenFor(t *testing.T) {
	tests := []struct {
		state engine.GameState
		want  Screen
	}{
		{engine.StateIdle, ScreenTitle},
		{engine.StateRunning, ScreenPlaying},
		{engine.StateOver, ScreenOver},
	}
	for _, tt := range tests {
		if got := screenFor(tt.state); got != tt.want {
			t.Errorf("screenFor(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(200, 60)
	if w != 120 || h != 40 || col != 40 || row != 10 {
		t.Errorf("clampTermSize(200, 60) = %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Errorf("clampTermSize(80, 24) = %d %d %d %d", w, h, col, row)
	}
}

func TestProcessServerEvents(t *testing.T) {
	fs := newFakeServer(engine.StateRunning)
	c, _ := newTestClient(t, fs, "", 80, 30)

	fs.events <- server.ClientEvent{Type: server.EventNewHighScore, Score: 4}
	c.processServerEvents()
	if c.state.bestFlash <= 0 {
		t.Error("new high score should start the best highlight")
	}

	fs.events <- server.ClientEvent{Type: server.EventServerShutdown}
	c.processServerEvents()
	if c.state.Screen != ScreenShutdown || c.state.shutdownTimer <= 0 {
		t.Errorf("shutdown event not handled: screen=%v timer=%v", c.state.Screen, c.state.shutdownTimer)
	}

	close(fs.events)
	c.processServerEvents()
	if c.state.Running {
		t.Error("closed event channel should stop the client")
	}
}

func TestDrawFrameScreens(t *testing.T) {
	tests := []struct {
		name  string
		state engine.GameState
		won   bool
		w, h  int
		want  string
	}{
		{"title", engine.StateIdle, false, 80, 30, "High score:"},
		{"playing", engine.StateRunning, false, 80, 30, "Score:"},
		{"over", engine.StateOver, false, 80, 30, "GAME OVER"},
		{"won", engine.StateOver, true, 80, 30, "BOARD CLEARED!"},
		{"too small", engine.StateRunning, false, 30, 10, "Terminal too small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeServer(tt.state)
			fs.snap.Won = tt.won
			c, out := newTestClient(t, fs, "", tt.w, tt.h)
			snap := fs.GetSnapshot("")

			c.updateScreen()
			c.updateState(snap)
			if err := c.drawFrame(snap); err != nil {
				t.Fatalf("drawFrame: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("frame does not contain %q", tt.want)
			}
		})
	}
}

func TestRunQuitsAndUnregisters(t *testing.T) {
	fs := newFakeServer(engine.StateIdle)
	c, out := newTestClient(t, fs, "q", 80, 30)

	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fs.unregistered {
		t.Error("client did not unregister")
	}
	if !strings.Contains(out.String(), "High score:") {
		t.Error("title screen was never drawn")
	}
}
