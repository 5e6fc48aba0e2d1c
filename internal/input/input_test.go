package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/Lam1900/Snakegame/internal/engine"
)

func TestParseDirections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want engine.Direction
	}{
		{"arrow up", "\x1b[A", engine.DirUp},
		{"arrow down", "\x1b[B", engine.DirDown},
		{"arrow right", "\x1b[C", engine.DirRight},
		{"arrow left", "\x1b[D", engine.DirLeft},
		{"wasd", "w", engine.DirUp},
		{"vi keys", "h", engine.DirLeft},
		{"last wins", "w\x1b[Bd", engine.DirRight},
		{"application mode arrow", "\x1bOA", engine.DirUp},
		{"modified arrow", "\x1b[1;5D", engine.DirLeft},
		{"other sequence swallowed", "\x1b[3~", engine.DirNone},
		{"sequence final is not a letter key", "\x1b[2D", engine.DirLeft},
		{"none", "x", engine.DirNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse([]byte(tt.in)).Direction; got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseCommands(t *testing.T) {
	in := Parse([]byte(" 3r"))
	if !in.Confirm || !in.Restart || in.Level != engine.LevelExpert {
		t.Fatalf("unexpected parse result %+v", in)
	}
	if in.Quit {
		t.Fatal("did not expect quit")
	}

	if !Parse([]byte("q")).Quit {
		t.Fatal("expected q to quit")
	}
	if !Parse([]byte{'\x03'}).Quit {
		t.Fatal("expected ctrl+c to quit")
	}

	// A bare escape is not an arrow key.
	esc := Parse([]byte{'\x1b'})
	if !esc.Escape || esc.Direction != engine.DirNone {
		t.Fatalf("unexpected escape parse %+v", esc)
	}
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("d")))

	deadline := time.Now().Add(2 * time.Second)
	var sawRight bool
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		if in.Direction == engine.DirRight {
			sawRight = true
		}
		if in.Quit {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !sawRight {
		t.Fatal("expected to read the right key before EOF")
	}
	if !s.Closed() {
		t.Fatal("expected stream to be closed after EOF")
	}
}

// feed queues bytes on s as if the terminal had sent them.
func feed(s *Stream, bs ...byte) {
	for _, b := range bs {
		s.ch <- b
	}
}

func newTestStream() *Stream {
	return &Stream{ch: make(chan byte, 16)}
}

func TestReadInputSplitArrow(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		second string
		want   engine.Direction
	}{
		{"after esc", "\x1b", "[D", engine.DirLeft},
		{"after bracket", "\x1b[", "A", engine.DirUp},
		{"after key", "w\x1b", "[B", engine.DirDown},
		{"params", "\x1b[1;", "5C", engine.DirRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStream()

			feed(s, []byte(tt.first)...)
			first := ReadInput(s)
			if first.Escape {
				t.Fatalf("first read reported a bare escape: %+v", first)
			}

			feed(s, []byte(tt.second)...)
			second := ReadInput(s)
			if second.Escape {
				t.Fatalf("second read reported a bare escape: %+v", second)
			}
			if second.Direction != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, second.Direction)
			}
		})
	}
}

func TestReadInputLoneEscapeIsDelayedOneRead(t *testing.T) {
	s := newTestStream()

	feed(s, '\x1b')
	if in := ReadInput(s); in.Escape {
		t.Fatal("escape should wait for a possible sequence")
	}
	if in := ReadInput(s); !in.Escape || in.Direction != engine.DirNone {
		t.Fatalf("expected a bare escape on the quiet read, got %+v", in)
	}
	if in := ReadInput(s); in.Escape {
		t.Fatal("escape reported twice")
	}
}

func TestReadInputEscapeThenKey(t *testing.T) {
	s := newTestStream()

	feed(s, '\x1b', 'r')
	in := ReadInput(s)
	if !in.Escape || !in.Restart {
		t.Fatalf("expected escape and restart, got %+v", in)
	}
}
