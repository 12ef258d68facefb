// Package input turns a raw terminal byte stream into per-frame key state.
package input

import "time"

// keyHoldDuration is how long a key counts as held after its last byte.
// Terminals only report presses, so holding a key is seen as a stream of
// repeats; the window must bridge the gap between them.
const keyHoldDuration = 80 * time.Millisecond

// Input is the key state for one frame.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Closed  bool   // The input stream ended
	Pressed []byte // Raw bytes received this frame
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// ByteReader is satisfied by *bufio.Reader.
type ByteReader interface {
	ReadByte() (byte, error)
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r ByteReader) *Stream {
	s := &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all buffered bytes without blocking and returns the
// key state for this frame. Arrow keys arrive as ESC [ C / ESC [ D.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		if buf[i] == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}
		applyByteToState(&s.state, buf[i], now)
	}

	return Input{
		Quit:    now.Sub(s.state.quit) < keyHoldDuration,
		Left:    now.Sub(s.state.left) < keyHoldDuration,
		Right:   now.Sub(s.state.right) < keyHoldDuration,
		Closed:  s.closed,
		Pressed: buf,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl-C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'j', 'J', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	}
}
