package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/pacing"
	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by Host.Pump when the user asked to stop.
var ErrQuit = errors.New("quit requested")

const bell = "\a"

// Host connects a machine to the terminal.
type Host struct {
	logger   *log.Logger
	out      io.Writer
	renderer *Renderer
	keyboard *Keyboard
	now      func() time.Time

	sounding bool
}

// NewHost returns a host that draws to out. A nil now function uses the
// system time.
func NewHost(logger *log.Logger, out io.Writer, keyboard *Keyboard, now func() time.Time) *Host {
	if now == nil {
		now = time.Now
	}
	return &Host{
		logger:   logger,
		out:      out,
		renderer: NewRenderer(out),
		keyboard: keyboard,
		now:      now,
	}
}

// Hook returns a burst hook that hands the keypad state to the machine,
// redraws changed frames and rings the bell when the sound timer starts.
// The hook must run on the goroutine executing the machine.
func (h *Host) Hook(m *chip8.Machine) pacing.BurstHook {
	return func() error {
		m.SetKeys(h.keyboard.State(h.now()))

		if _, err := h.renderer.Render(m.Display()); err != nil {
			return err
		}

		active := m.SoundActive()
		if active && !h.sounding {
			if _, err := io.WriteString(h.out, bell); err != nil {
				return fmt.Errorf("ringing bell: %w", err)
			}
		}
		h.sounding = active
		return nil
	}
}

// Pump applies inputs to the keyboard until the context is done, a quit
// input was read or the input channel was closed.
func (h *Host) Pump(ctx context.Context, inputs <-chan Input) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case input, ok := <-inputs:
			if !ok {
				h.logger.Debug("Input closed")
				return nil
			}
			if input.Quit {
				return ErrQuit
			}
			h.keyboard.Press(input.Key, h.now())
		}
	}
}

// Close restores the terminal cursor.
func (h *Host) Close() error {
	return h.renderer.Close()
}
