package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestOpcode_Fields(t *testing.T) {
	op := decodeOpcode(0xD1, 0x2F)

	assert.Equal(t, Opcode(0xD12F), op)
	assert.Equal(t, uint8(0xD), op.Family())
	assert.Equal(t, uint8(0x1), op.X())
	assert.Equal(t, uint8(0x2), op.Y())
	assert.Equal(t, uint8(0xF), op.N())
	assert.Equal(t, uint8(0x2F), op.NN())
	assert.Equal(t, uint16(0x12F), op.NNN())
	assert.Equal(t, "$D12F", op.String())
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		op    Opcode
		known bool
	}{
		{"cls", 0x00E0, true},
		{"ret", 0x00EE, true},
		{"exit", 0x00FD, true},
		{"machine code routine", 0x0123, false},
		{"jp", 0x1234, true},
		{"se register", 0x5120, true},
		{"se register with trailing nibble", 0x5121, false},
		{"8XY7 subn", 0x8127, true},
		{"8XY8 undefined", 0x8128, false},
		{"8XYE shl", 0x812E, true},
		{"sne register", 0x9120, true},
		{"sne register with trailing nibble", 0x912F, false},
		{"skp", 0xE19E, true},
		{"EX00 undefined", 0xE100, false},
		{"ld B, Vx", 0xF133, true},
		{"FX99 undefined", 0xF199, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.known, lookup(tt.op) != nil)
		})
	}
}

func TestFetch_OutOfBounds(t *testing.T) {
	m := newTestMachine(t)

	m.pc = MaxAddress - 1
	_, err := m.fetch()
	assert.NoError(t, err)

	m.pc = MaxAddress
	_, err = m.fetch()
	assert.Error(t, err)

	m.pc = MemorySize
	_, err = m.fetch()
	assert.Error(t, err)
}
