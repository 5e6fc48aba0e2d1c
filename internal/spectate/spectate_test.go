package spectate

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop/server"
)

type fakeSource struct {
	lobby atomic.Pointer[server.LobbySnapshot]
}

func (f *fakeSource) GetLobby() *server.LobbySnapshot {
	return f.lobby.Load()
}

func sampleLobby() *server.LobbySnapshot {
	return &server.LobbySnapshot{
		Players:   2,
		Best:      12,
		TopScores: []server.TopScoreEntry{{Username: "ana", Score: 12}},
		Games: []server.GameSummary{
			{
				ID:       "a",
				Username: "ana",
				Snapshot: &engine.Snapshot{
					Snake:     []engine.Cell{{X: 3, Y: 4}, {X: 2, Y: 4}},
					Food:      engine.Cell{X: 9, Y: 9},
					HasFood:   true,
					Score:     1,
					State:     engine.StateRunning,
					Level:     engine.LevelNormal,
					Speed:     7,
					TileCount: 20,
				},
			},
			{ID: "b", Username: "bo"}, // Not started yet, no snapshot
		},
	}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(sampleLobby())

	if f.Players != 2 || f.Best != 12 {
		t.Fatalf("players/best = %d/%d, want 2/12", f.Players, f.Best)
	}
	if len(f.Games) != 1 {
		t.Fatalf("got %d games, want 1", len(f.Games))
	}
	g := f.Games[0]
	if g.User != "ana" || g.State != engine.StateRunning.String() || g.Score != 1 {
		t.Errorf("unexpected game %+v", g)
	}
	if g.Food == nil || *g.Food != (engine.Cell{X: 9, Y: 9}) {
		t.Errorf("food = %v, want (9,9)", g.Food)
	}
	if len(g.Snake) != 2 || g.Snake[0] != (engine.Cell{X: 3, Y: 4}) {
		t.Errorf("snake = %v, want head (3,4) first", g.Snake)
	}
}

func TestNewFrameEmptyLobby(t *testing.T) {
	f := NewFrame(nil)
	if f.Top == nil || f.Games == nil {
		t.Fatal("empty frame should carry empty lists, not null")
	}
}

func dial(t *testing.T, src Source, interval time.Duration) *websocket.Conn {
	t.Helper()
	h := Handler(src, Options{Interval: interval, Logger: log.New(io.Discard)})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	})
	return conn
}

func TestHandlerStreamsFrames(t *testing.T) {
	src := &fakeSource{}
	src.lobby.Store(sampleLobby())
	conn := dial(t, src, 10*time.Millisecond)

	var first Frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	if first.Players != 2 || len(first.Games) != 1 {
		t.Fatalf("unexpected first frame %+v", first)
	}

	src.lobby.Store(&server.LobbySnapshot{Players: 0, Best: 12})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if f.Players == 0 && len(f.Games) == 0 {
			return
		}
	}
	t.Fatal("feed never reflected the updated lobby")
}

func TestHandlerNilLobby(t *testing.T) {
	conn := dial(t, &fakeSource{}, time.Second)

	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if f.Players != 0 || len(f.Games) != 0 {
		t.Errorf("unexpected frame %+v", f)
	}
}
