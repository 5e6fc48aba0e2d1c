// Package input turns a raw terminal byte stream into key intents.
package input

import (
	"bufio"

	"github.com/Lam1900/Snakegame/internal/engine"
)

// Input is the set of intents seen since the previous read.
type Input struct {
	Quit    bool
	Confirm bool // Space or Enter
	Restart bool // R
	Escape  bool
	// Direction is the last arrow/WASD/HJKL key pressed, DirNone if none.
	Direction engine.Direction
	// Level is the last speed level digit pressed (1-3), 0 if none.
	Level   engine.SpeedLevel
	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
	// Start of an escape sequence cut off at the end of the last read,
	// carried into the next one.
	pending []byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reads as Quit.
//
// An escape sequence split across two reads is held back until the rest
// arrives. If a read brings no new bytes, the held bytes are parsed as
// they are, so a lone ESC still reads as Escape one frame later.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	fresh := 0

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
			fresh++
		default:
			break drain
		}
	}

	if fresh > 0 && !s.closed {
		if at := incompleteTail(buf); at >= 0 {
			s.pending = append([]byte(nil), buf[at:]...)
			buf = buf[:at]
		}
	}

	in := Parse(buf)
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse interprets a batch of bytes. Later keys override earlier ones for
// Direction and Level, so the most recent intent wins.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); {
		if buf[i] != '\x1b' {
			applyByte(&in, buf[i])
			i++
			continue
		}

		end := sequenceEnd(buf, i)
		switch {
		case end < 0:
			// Cut off at the end of the batch: only the ESC is known.
			in.Escape = true
			return in
		case end == i+1:
			in.Escape = true
		default:
			if d := arrowDirection(buf[i+1], buf[end-1]); d != engine.DirNone {
				in.Direction = d
			}
		}
		i = end
	}
	return in
}

// sequenceEnd returns the index just past the escape sequence starting at
// buf[i], or -1 if buf ends before the sequence does. An ESC that starts
// no sequence ends at i+1.
func sequenceEnd(buf []byte, i int) int {
	if i+1 >= len(buf) {
		return -1
	}
	switch buf[i+1] {
	case '[':
		// CSI: parameter bytes 0x30-0x3F, then a final byte 0x40-0x7E.
		for j := i + 2; j < len(buf); j++ {
			switch c := buf[j]; {
			case c >= 0x40 && c <= 0x7e:
				return j + 1
			case c < 0x30 || c > 0x3f:
				return j
			}
		}
		return -1
	case 'O':
		// SS3, sent for arrows in application cursor mode.
		if i+2 < len(buf) {
			return i + 3
		}
		return -1
	}
	return i + 1
}

// incompleteTail returns where a trailing, unfinished escape sequence
// starts in buf, or -1.
func incompleteTail(buf []byte) int {
	for i := 0; i < len(buf); {
		if buf[i] != '\x1b' {
			i++
			continue
		}
		end := sequenceEnd(buf, i)
		if end < 0 {
			return i
		}
		i = end
	}
	return -1
}

// arrowDirection maps the final byte of a CSI or SS3 arrow sequence.
// Any other sequence is swallowed whole.
func arrowDirection(intro, final byte) engine.Direction {
	if intro != '[' && intro != 'O' {
		return engine.DirNone
	}
	switch final {
	case 'A':
		return engine.DirUp
	case 'B':
		return engine.DirDown
	case 'C':
		return engine.DirRight
	case 'D':
		return engine.DirLeft
	}
	return engine.DirNone
}

// applyByte updates in for a single key press outside escape sequences.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		in.Quit = true
	case 'w', 'W', 'k', 'K':
		in.Direction = engine.DirUp
	case 's', 'S', 'j', 'J':
		in.Direction = engine.DirDown
	case 'a', 'A', 'h', 'H':
		in.Direction = engine.DirLeft
	case 'd', 'D', 'l', 'L':
		in.Direction = engine.DirRight
	case 'r', 'R':
		in.Restart = true
	case ' ', '\n', '\r':
		in.Confirm = true
	case '1', '2', '3':
		in.Level = engine.SpeedLevel(b - '0')
	}
}
