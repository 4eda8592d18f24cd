package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func disableColor(t *testing.T) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
}

func TestHalfBlockLine(t *testing.T) {
	var fb chip8.Framebuffer
	fb.DrawSprite(0, 0, []byte{0xC0, 0xA0})

	line := halfBlockLine(&fb, 0)
	assert.Equal(t, "█▀▄"+strings.Repeat(" ", chip8.DisplayWidth-3), line)
	assert.Equal(t, strings.Repeat(" ", chip8.DisplayWidth), halfBlockLine(&fb, 1))
}

func TestRenderer_Render(t *testing.T) {
	disableColor(t)

	var out bytes.Buffer
	r := NewRenderer(&out)

	var fb chip8.Framebuffer
	drawn, err := r.Render(fb)
	assert.NoError(t, err)
	assert.True(t, drawn)

	frame := out.String()
	assert.True(t, strings.HasPrefix(frame, hideCursor+clearScreen+cursorHome))
	assert.Equal(t, screenHeight, strings.Count(frame, lineEnd))

	// unchanged frames are not drawn again
	out.Reset()
	drawn, err = r.Render(fb)
	assert.NoError(t, err)
	assert.False(t, drawn)
	assert.Equal(t, 0, out.Len())

	fb.DrawSprite(0, 31, []byte{0x80})
	drawn, err = r.Render(fb)
	assert.NoError(t, err)
	assert.True(t, drawn)
	frame = out.String()
	assert.True(t, strings.HasPrefix(frame, cursorHome))
	assert.Contains(t, frame, "▄")

	out.Reset()
	assert.NoError(t, r.Close())
	assert.Equal(t, showCursor, out.String())
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(80, 24))
	assert.NoError(t, CheckSize(chip8.DisplayWidth, screenHeight))
	assert.Error(t, CheckSize(63, 24))
	assert.Error(t, CheckSize(80, 15))
}
