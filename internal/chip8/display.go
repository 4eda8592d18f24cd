package chip8

import "strings"

// Framebuffer dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// maxSpriteHeight is the largest row count a DXYN opcode can encode.
const maxSpriteHeight = 15

// Framebuffer is the monochrome 64x32 pixel display. Each row is stored
// as a 64 bit word, pixel x of a row is bit 63-x.
type Framebuffer struct {
	rows [DisplayHeight]uint64
}

// Pixel returns whether the pixel at the given coordinates is set.
// Coordinates wrap around the display dimensions.
func (f *Framebuffer) Pixel(x, y int) bool {
	x, y = wrap(x, DisplayWidth), wrap(y, DisplayHeight)
	return f.rows[y]&pixelMask(x) != 0
}

// Row returns the pixel bits of a single row.
func (f *Framebuffer) Row(y int) uint64 {
	return f.rows[wrap(y, DisplayHeight)]
}

// Lit returns the number of set pixels.
func (f *Framebuffer) Lit() int {
	n := 0
	for _, row := range f.rows {
		for ; row != 0; row &= row - 1 {
			n++
		}
	}
	return n
}

// Clear unsets all pixels.
func (f *Framebuffer) Clear() {
	f.rows = [DisplayHeight]uint64{}
}

// DrawSprite XORs the sprite rows onto the framebuffer with the top left
// corner at the given coordinates. Pixels that leave the display wrap
// around to the opposite edge. It returns whether any set pixel was
// cleared.
func (f *Framebuffer) DrawSprite(x, y int, sprite []byte) bool {
	x, y = wrap(x, DisplayWidth), wrap(y, DisplayHeight)
	collision := false

	for row, data := range sprite {
		py := (y + row) % DisplayHeight
		for bit := 0; bit < 8; bit++ {
			if data&(0x80>>bit) == 0 {
				continue
			}
			mask := pixelMask((x + bit) % DisplayWidth)
			if f.rows[py]&mask != 0 {
				collision = true
			}
			f.rows[py] ^= mask
		}
	}
	return collision
}

// String renders the framebuffer as text, one line per row using '#'
// for set and '.' for unset pixels.
func (f *Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow(DisplayHeight * (DisplayWidth + 1))
	for y := range f.rows {
		for x := 0; x < DisplayWidth; x++ {
			if f.rows[y]&pixelMask(x) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pixelMask(x int) uint64 {
	return 1 << (DisplayWidth - 1 - x)
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}
