package trace

import (
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		opcode   uint16
		expected string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x00FD, "exit"},
		{0x1234, "jp $234"},
		{0x2300, "call $300"},
		{0x3234, "se V2, $34"},
		{0x4A01, "sne VA, $01"},
		{0x5120, "se V1, V2"},
		{0x6A12, "ld VA, $12"},
		{0x7A01, "add VA, $01"},
		{0x8AB0, "ld VA, VB"},
		{0x8AB4, "add VA, VB"},
		{0x8AB5, "sub VA, VB"},
		{0xA234, "ld I, $234"},
		{0xB300, "jp V0, $300"},
		{0xC10F, "rnd V1, $0F"},
		{0xD125, "drw V1, V2, $5"},
		{0xE19E, "skp V1"},
		{0xE1A1, "sknp V1"},
		{0xF115, "ld DT, V1"},
		{0xF133, "ld B, V1"},
		{0xF11E, "add I, V1"},
		{0xFFFF, ".word $FFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.opcode))
		})
	}
}

func TestLookup(t *testing.T) {
	_, ok := Lookup(0x1234)
	assert.True(t, ok)

	_, ok = Lookup(0xFFFF)
	assert.False(t, ok)
}

func TestTracer_PerformCycle(t *testing.T) {
	m, err := chip8.New([]byte{0x61, 0x05, 0x00, 0xEE})
	assert.NoError(t, err)
	tracer := New(log.NewTestLogger(t), m)

	assert.NoError(t, tracer.PerformCycle())
	assert.Equal(t, uint8(5), m.Registers().V[1])

	err = tracer.PerformCycle()
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.True(t, tracer.Finished())
	assert.NoError(t, tracer.PerformCycle())
}
