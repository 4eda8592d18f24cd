package trace

import (
	"strings"
	"testing"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestFormat_AllTableOpcodes(t *testing.T) {
	for nibble, opcodes := range cpu.Opcodes {
		for _, op := range opcodes {
			if op.Instruction == nil {
				continue
			}
			opcode := op.Info.Value

			_, ok := Lookup(opcode)
			assert.True(t, ok, "opcode $%04X of nibble %X not found", opcode, nibble)

			formatted := Format(opcode)
			assert.NotEmpty(t, formatted, "opcode $%04X", opcode)
			assert.False(t, strings.HasPrefix(formatted, ".word"), "opcode $%04X formatted as data", opcode)
		}
	}
}
