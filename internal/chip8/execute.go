package chip8

// instruction executes a decoded opcode. It has to check every failure
// condition before it modifies any machine state.
type instruction func(m *Machine, op Opcode) error

// PerformCycle fetches, decodes and executes a single instruction.
// Calling it on a halted or faulted machine does nothing.
func (m *Machine) PerformCycle() error {
	if m.Finished() {
		return nil
	}
	m.state = Running

	op, err := m.fetch()
	if err != nil {
		return m.fault(err)
	}

	execute := lookup(op)
	if execute == nil {
		err := &DecodeError{Address: m.pc, Opcode: op}
		if m.unknownPolicy == ContinueOnUnknown {
			return err
		}
		return m.fault(err)
	}

	if err := execute(m, op); err != nil {
		return m.fault(err)
	}
	m.cycles++
	return nil
}

func (m *Machine) fault(err error) error {
	m.state = Faulted
	m.err = err
	return err
}

// lookup returns the implementation of an opcode or nil if the opcode is
// unknown.
func lookup(op Opcode) instruction {
	switch op.Family() {
	case 0x0:
		return lookupSystem(op)
	case 0x1:
		return jp
	case 0x2:
		return call
	case 0x3:
		return seByte
	case 0x4:
		return sneByte
	case 0x5:
		if op.N() == 0 {
			return seReg
		}
	case 0x6:
		return ldByte
	case 0x7:
		return addByte
	case 0x8:
		return arithmetic[op.N()]
	case 0x9:
		if op.N() == 0 {
			return sneReg
		}
	case 0xA:
		return ldI
	case 0xB:
		return jpV0
	case 0xC:
		return rnd
	case 0xD:
		return drw
	case 0xE:
		switch op.NN() {
		case 0x9E:
			return skp
		case 0xA1:
			return sknp
		}
	case 0xF:
		return misc[op.NN()]
	}
	return nil
}

func lookupSystem(op Opcode) instruction {
	switch op {
	case 0x00E0:
		return cls
	case 0x00EE:
		return ret
	case 0x00FD:
		return exit
	}
	return nil
}

// arithmetic maps the low nibble of 8XYN opcodes to instructions.
var arithmetic = [16]instruction{
	0x0: ldReg,
	0x1: or,
	0x2: and,
	0x3: xor,
	0x4: addReg,
	0x5: sub,
	0x6: shr,
	0x7: subn,
	0xE: shl,
}

// misc maps the low byte of FXNN opcodes to instructions.
var misc = map[uint8]instruction{
	0x07: ldVxDT,
	0x0A: ldVxK,
	0x15: ldDTVx,
	0x18: ldSTVx,
	0x1E: addIVx,
	0x29: ldFVx,
	0x33: ldBVx,
	0x55: ldIVx,
	0x65: ldVxI,
}

func (m *Machine) next() {
	m.pc += opcodeSize
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2 * opcodeSize
		return
	}
	m.pc += opcodeSize
}

// 00E0: clear the display.
func cls(m *Machine, _ Opcode) error {
	m.display.Clear()
	m.next()
	return nil
}

// 00EE: return from subroutine.
func ret(m *Machine, _ Opcode) error {
	if m.sp == 0 {
		return &StackError{Address: m.pc, Err: ErrStackUnderflow}
	}
	m.sp--
	m.pc = m.stack[m.sp]
	return nil
}

// 00FD: exit the interpreter.
func exit(m *Machine, _ Opcode) error {
	m.next()
	m.state = Halted
	return nil
}

// 1NNN: jump to address NNN.
func jp(m *Machine, op Opcode) error {
	m.pc = op.NNN()
	return nil
}

// 2NNN: call subroutine at NNN.
func call(m *Machine, op Opcode) error {
	if int(m.sp) >= StackSize {
		return &StackError{Address: m.pc, Err: ErrStackOverflow}
	}
	m.stack[m.sp] = m.pc + opcodeSize
	m.sp++
	m.pc = op.NNN()
	return nil
}

// 3XNN: skip next instruction if VX == NN.
func seByte(m *Machine, op Opcode) error {
	m.skipIf(m.v[op.X()] == op.NN())
	return nil
}

// 4XNN: skip next instruction if VX != NN.
func sneByte(m *Machine, op Opcode) error {
	m.skipIf(m.v[op.X()] != op.NN())
	return nil
}

// 5XY0: skip next instruction if VX == VY.
func seReg(m *Machine, op Opcode) error {
	m.skipIf(m.v[op.X()] == m.v[op.Y()])
	return nil
}

// 6XNN: set VX to NN.
func ldByte(m *Machine, op Opcode) error {
	m.v[op.X()] = op.NN()
	m.next()
	return nil
}

// 7XNN: add NN to VX without changing the carry flag.
func addByte(m *Machine, op Opcode) error {
	m.v[op.X()] += op.NN()
	m.next()
	return nil
}

// 8XY0: set VX to VY.
func ldReg(m *Machine, op Opcode) error {
	m.v[op.X()] = m.v[op.Y()]
	m.next()
	return nil
}

// 8XY1: set VX to VX OR VY.
func or(m *Machine, op Opcode) error {
	m.v[op.X()] |= m.v[op.Y()]
	m.logicFlag()
	m.next()
	return nil
}

// 8XY2: set VX to VX AND VY.
func and(m *Machine, op Opcode) error {
	m.v[op.X()] &= m.v[op.Y()]
	m.logicFlag()
	m.next()
	return nil
}

// 8XY3: set VX to VX XOR VY.
func xor(m *Machine, op Opcode) error {
	m.v[op.X()] ^= m.v[op.Y()]
	m.logicFlag()
	m.next()
	return nil
}

func (m *Machine) logicFlag() {
	if m.quirks.ResetVFOnLogic {
		m.v[0xF] = 0
	}
}

// 8XY4: add VY to VX, VF is set to the carry.
func addReg(m *Machine, op Opcode) error {
	sum := uint16(m.v[op.X()]) + uint16(m.v[op.Y()])
	m.v[op.X()] = uint8(sum)
	m.v[0xF] = uint8(sum >> 8)
	m.next()
	return nil
}

// 8XY5: subtract VY from VX, VF is set to 0 on borrow and 1 otherwise.
func sub(m *Machine, op Opcode) error {
	x, y := m.v[op.X()], m.v[op.Y()]
	m.v[op.X()] = x - y
	m.v[0xF] = boolToFlag(x >= y)
	m.next()
	return nil
}

// 8XY6: shift right by one, VF is set to the shifted out bit.
func shr(m *Machine, op Opcode) error {
	value := m.shiftSource(op)
	m.v[op.X()] = value >> 1
	m.v[0xF] = value & 0x01
	m.next()
	return nil
}

// 8XY7: set VX to VY minus VX, VF is set to 0 on borrow and 1 otherwise.
func subn(m *Machine, op Opcode) error {
	x, y := m.v[op.X()], m.v[op.Y()]
	m.v[op.X()] = y - x
	m.v[0xF] = boolToFlag(y >= x)
	m.next()
	return nil
}

// 8XYE: shift left by one, VF is set to the shifted out bit.
func shl(m *Machine, op Opcode) error {
	value := m.shiftSource(op)
	m.v[op.X()] = value << 1
	m.v[0xF] = value >> 7
	m.next()
	return nil
}

func (m *Machine) shiftSource(op Opcode) uint8 {
	if m.quirks.ShiftUsesVY {
		return m.v[op.Y()]
	}
	return m.v[op.X()]
}

// 9XY0: skip next instruction if VX != VY.
func sneReg(m *Machine, op Opcode) error {
	m.skipIf(m.v[op.X()] != m.v[op.Y()])
	return nil
}

// ANNN: set I to NNN.
func ldI(m *Machine, op Opcode) error {
	m.i = op.NNN()
	m.next()
	return nil
}

// BNNN: jump to NNN plus V0.
func jpV0(m *Machine, op Opcode) error {
	m.pc = (op.NNN() + uint16(m.v[0])) & MaxAddress
	return nil
}

// CXNN: set VX to a random byte AND NN.
func rnd(m *Machine, op Opcode) error {
	m.v[op.X()] = m.random() & op.NN()
	m.next()
	return nil
}

// DXYN: draw an N rows high sprite from memory at I to position VX, VY.
// VF is set when a set pixel got cleared.
func drw(m *Machine, op Opcode) error {
	var buf [maxSpriteHeight]byte
	sprite := buf[:op.N()]
	for row := range sprite {
		sprite[row] = m.ReadMemory(m.i + uint16(row))
	}

	collision := m.display.DrawSprite(int(m.v[op.X()]), int(m.v[op.Y()]), sprite)
	m.v[0xF] = boolToFlag(collision)
	m.next()
	return nil
}

// EX9E: skip next instruction if the key in VX is down.
func skp(m *Machine, op Opcode) error {
	m.skipIf(m.keyDown(m.v[op.X()]))
	return nil
}

// EXA1: skip next instruction if the key in VX is up.
func sknp(m *Machine, op Opcode) error {
	m.skipIf(!m.keyDown(m.v[op.X()]))
	return nil
}

func (m *Machine) keyDown(key uint8) bool {
	return m.keys&(1<<(key&0x0F)) != 0
}

// FX07: set VX to the delay timer.
func ldVxDT(m *Machine, op Opcode) error {
	m.v[op.X()] = m.delayTimer
	m.next()
	return nil
}

// FX0A: wait for a key press and store it in VX. The program counter is
// not advanced while no key is down, which repeats the instruction.
func ldVxK(m *Machine, op Opcode) error {
	if m.keys == 0 {
		return nil
	}
	for key := uint8(0); key < KeyCount; key++ {
		if m.keyDown(key) {
			m.v[op.X()] = key
			break
		}
	}
	m.next()
	return nil
}

// FX15: set the delay timer to VX.
func ldDTVx(m *Machine, op Opcode) error {
	m.delayTimer = m.v[op.X()]
	m.next()
	return nil
}

// FX18: set the sound timer to VX.
func ldSTVx(m *Machine, op Opcode) error {
	m.soundTimer = m.v[op.X()]
	m.next()
	return nil
}

// FX1E: add VX to I.
func addIVx(m *Machine, op Opcode) error {
	m.i += uint16(m.v[op.X()])
	m.next()
	return nil
}

// FX29: set I to the font glyph of the low nibble of VX.
func ldFVx(m *Machine, op Opcode) error {
	m.i = FontAddress + uint16(m.v[op.X()]&0x0F)*fontGlyphSize
	m.next()
	return nil
}

// FX33: store the decimal digits of VX at I, I+1 and I+2.
func ldBVx(m *Machine, op Opcode) error {
	value := m.v[op.X()]
	m.writeMemory(m.i, value/100)
	m.writeMemory(m.i+1, value/10%10)
	m.writeMemory(m.i+2, value%10)
	m.next()
	return nil
}

// FX55: store V0 to VX in memory starting at I.
func ldIVx(m *Machine, op Opcode) error {
	x := uint16(op.X())
	for n := uint16(0); n <= x; n++ {
		m.writeMemory(m.i+n, m.v[n])
	}
	if m.quirks.LoadStoreIncrementsI {
		m.i += x + 1
	}
	m.next()
	return nil
}

// FX65: load V0 to VX from memory starting at I.
func ldVxI(m *Machine, op Opcode) error {
	x := uint16(op.X())
	for n := uint16(0); n <= x; n++ {
		m.v[n] = m.ReadMemory(m.i + n)
	}
	if m.quirks.LoadStoreIncrementsI {
		m.i += x + 1
	}
	m.next()
	return nil
}

func (m *Machine) writeMemory(address uint16, value byte) {
	m.memory[address&MaxAddress] = value
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
