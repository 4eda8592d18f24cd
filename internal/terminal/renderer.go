package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/chip8"
)

const (
	cursorHome   = "\x1b[H"
	clearScreen  = "\x1b[2J"
	hideCursor   = "\x1b[?25l"
	showCursor   = "\x1b[?25h"
	lineEnd      = "\r\n"
	screenHeight = chip8.DisplayHeight / 2
)

// Renderer draws framebuffers to a terminal. Two pixel rows share one
// text row using half block characters.
type Renderer struct {
	out   io.Writer
	pixel *color.Color

	last  chip8.Framebuffer
	drawn bool
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:   out,
		pixel: color.New(color.FgHiGreen, color.BgBlack),
	}
}

// Render draws the framebuffer. Output is skipped if the framebuffer did
// not change since the last call. It returns whether anything was drawn.
func (r *Renderer) Render(fb chip8.Framebuffer) (bool, error) {
	if r.drawn && fb == r.last {
		return false, nil
	}

	var sb strings.Builder
	if !r.drawn {
		sb.WriteString(hideCursor)
		sb.WriteString(clearScreen)
	}
	sb.WriteString(cursorHome)
	for row := range screenHeight {
		sb.WriteString(r.pixel.Sprint(halfBlockLine(&fb, row)))
		sb.WriteString(lineEnd)
	}

	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		return false, fmt.Errorf("writing frame: %w", err)
	}
	r.last = fb
	r.drawn = true
	return true, nil
}

// Close restores the cursor.
func (r *Renderer) Close() error {
	if !r.drawn {
		return nil
	}
	if _, err := io.WriteString(r.out, showCursor); err != nil {
		return fmt.Errorf("restoring cursor: %w", err)
	}
	return nil
}

// halfBlockLine returns the text for the pixel rows 2*row and 2*row+1.
func halfBlockLine(fb *chip8.Framebuffer, row int) string {
	var sb strings.Builder
	sb.Grow(chip8.DisplayWidth * len("█"))

	for x := range chip8.DisplayWidth {
		top := fb.Pixel(x, 2*row)
		bottom := fb.Pixel(x, 2*row+1)
		switch {
		case top && bottom:
			sb.WriteString("█")
		case top:
			sb.WriteString("▀")
		case bottom:
			sb.WriteString("▄")
		default:
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
