// Package terminal implements the interactive host shell. It renders the
// framebuffer as text, maps keyboard input onto the hex keypad and rings
// the terminal bell while the sound timer is active.
package terminal

import (
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Open if the file is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// Terminal is a file descriptor switched into raw mode.
type Terminal struct {
	fd    int
	state *term.State
}

// Open switches the terminal of the given file into raw mode.
func Open(file *os.File) (*Terminal, error) {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	return &Terminal{fd: fd, state: state}, nil
}

// Size returns the terminal dimensions in characters.
func (t *Terminal) Size() (width, height int, err error) {
	width, height, err = term.GetSize(t.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return width, height, nil
}

// Restore switches the terminal back into its original mode.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.state); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	t.state = nil
	return nil
}

// CheckSize returns an error if a terminal of the given dimensions can not
// show the whole display.
func CheckSize(width, height int) error {
	if width < chip8.DisplayWidth || height < screenHeight {
		return fmt.Errorf("terminal size %dx%d is smaller than the required %dx%d",
			width, height, chip8.DisplayWidth, screenHeight)
	}
	return nil
}
