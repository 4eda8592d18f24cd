package terminal

import (
	"io"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// DefaultHoldDuration is how long a key counts as pressed after its last
// press was read. Terminals do not report key releases, the keypad state
// relies on the auto repeat of held keys instead.
const DefaultHoldDuration = 150 * time.Millisecond

// Control bytes that end an interactive session.
const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// keypad maps the left hand block of a QWERTY keyboard onto the hex keypad:
//
//	1 2 3 4     1 2 3 C
//	q w e r     4 5 6 D
//	a s d f     7 8 9 E
//	z x c v     A 0 B F
var keypad = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Input is a single decoded terminal input.
type Input struct {
	Key  uint8
	Quit bool
}

// Decode converts an input byte. It returns false for bytes that have no
// meaning to the interpreter.
func Decode(b byte) (Input, bool) {
	switch b {
	case keyCtrlC, keyEscape:
		return Input{Quit: true}, true
	}
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keypad[b]
	if !ok {
		return Input{}, false
	}
	return Input{Key: key}, true
}

// ReadInputs decodes the reader byte by byte and sends every recognized
// input to the channel. The channel is closed when reading fails.
func ReadInputs(reader io.Reader, inputs chan<- Input) {
	defer close(inputs)

	buf := make([]byte, 16)
	for {
		n, err := reader.Read(buf)
		for _, b := range buf[:n] {
			if input, ok := Decode(b); ok {
				inputs <- input
			}
		}
		if err != nil {
			return
		}
	}
}

// Keyboard tracks the keypad state. It is safe for concurrent use.
type Keyboard struct {
	mu      sync.Mutex
	hold    time.Duration
	expires [chip8.KeyCount]time.Time
}

// NewKeyboard returns a keyboard that holds each pressed key for the given
// duration.
func NewKeyboard(hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Keyboard{hold: hold}
}

// Press marks the key as pressed at the given time.
func (k *Keyboard) Press(key uint8, now time.Time) {
	if int(key) >= chip8.KeyCount {
		return
	}
	k.mu.Lock()
	k.expires[key] = now.Add(k.hold)
	k.mu.Unlock()
}

// State returns the bitmask of keys that are pressed at the given time,
// bit n is set for key n.
func (k *Keyboard) State(now time.Time) uint16 {
	k.mu.Lock()
	defer k.mu.Unlock()

	var keys uint16
	for key, expires := range k.expires {
		if now.Before(expires) {
			keys |= 1 << key
		}
	}
	return keys
}
