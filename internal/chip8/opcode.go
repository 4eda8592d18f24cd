package chip8

import "fmt"

// opcodeSize is the size of CHIP-8 instructions in bytes.
const opcodeSize = 2

// Opcode is a 16 bit CHIP-8 instruction word. The high nibble selects the
// instruction family, the remaining nibbles encode register operands,
// immediate values or a 12 bit address.
type Opcode uint16

// decodeOpcode builds an opcode from its two bytes in memory order.
func decodeOpcode(high, low byte) Opcode {
	return Opcode(uint16(high)<<8 | uint16(low))
}

// Family returns the high nibble.
func (o Opcode) Family() uint8 {
	return uint8(o >> 12)
}

// X returns the X register nibble.
func (o Opcode) X() uint8 {
	return uint8((o & 0x0F00) >> 8)
}

// Y returns the Y register nibble.
func (o Opcode) Y() uint8 {
	return uint8((o & 0x00F0) >> 4)
}

// N returns the lowest nibble.
func (o Opcode) N() uint8 {
	return uint8(o & 0x000F)
}

// NN returns the lowest byte.
func (o Opcode) NN() uint8 {
	return uint8(o & 0x00FF)
}

// NNN returns the 12 bit address.
func (o Opcode) NNN() uint16 {
	return uint16(o & 0x0FFF)
}

func (o Opcode) String() string {
	return fmt.Sprintf("$%04X", uint16(o))
}

// fetch reads the opcode at the program counter.
func (m *Machine) fetch() (Opcode, error) {
	if uint32(m.pc)+1 >= MemorySize {
		return 0, &FetchError{Address: m.pc}
	}
	return decodeOpcode(m.memory[m.pc], m.memory[m.pc+1]), nil
}
