package chip8

import (
	"math/rand/v2"
)

// CHIP-8 memory layout and hardware constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFF: User program space (3584 bytes)
//
// The display buffer (64x32 pixels) and stack are maintained
// separately from the 4KB main memory address space.
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 0x1000

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and begin execution.
	ProgramStart = 0x200

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = MemorySize - 1

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// StackSize is the number of return addresses the call stack can hold.
	StackSize = 16

	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16
)

// State describes the lifecycle stage of a machine.
type State uint8

// Machine lifecycle states.
const (
	Loaded State = iota
	Running
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Machine contains the complete emulated CHIP-8 hardware state.
// A machine is not safe for concurrent use, all calls have to be made
// from the goroutine that drives the emulation.
type Machine struct {
	memory [MemorySize]byte
	v      [RegisterCount]uint8
	i      uint16
	pc     uint16
	stack  [StackSize]uint16
	sp     uint8

	delayTimer uint8
	soundTimer uint8

	display Framebuffer
	keys    uint16

	state  State
	err    error
	cycles uint64

	quirks        Quirks
	unknownPolicy UnknownOpcodePolicy
	random        func() uint8
}

// Registers is a snapshot of the CPU registers of a machine.
type Registers struct {
	V          [RegisterCount]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      [StackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
}

// ValidateImage checks that a program image fits into the loadable
// memory region.
func ValidateImage(rom []byte) error {
	if len(rom) > MaxProgramSize {
		return &LoadError{Size: len(rom), Max: MaxProgramSize}
	}
	return nil
}

// New returns a machine with the program image copied to ProgramStart
// and all registers, timers and the stack zeroed.
func New(rom []byte, options ...Option) (*Machine, error) {
	if err := ValidateImage(rom); err != nil {
		return nil, err
	}

	m := &Machine{
		pc:     ProgramStart,
		random: defaultRandom,
	}
	for _, option := range options {
		option(m)
	}

	copy(m.memory[FontAddress:], font[:])
	copy(m.memory[ProgramStart:], rom)
	return m, nil
}

func defaultRandom() uint8 {
	return uint8(rand.UintN(256))
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Err returns the error that faulted the machine, nil otherwise.
func (m *Machine) Err() error {
	return m.err
}

// Finished returns whether the machine stopped executing instructions,
// either because it was halted or because it faulted.
func (m *Machine) Finished() bool {
	return m.state == Halted || m.state == Faulted
}

// Stop halts the machine. Cycles performed afterwards are no-ops.
func (m *Machine) Stop() {
	if !m.Finished() {
		m.state = Halted
	}
}

// Cycles returns the number of successfully executed cycles.
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Registers returns a snapshot of all registers.
func (m *Machine) Registers() Registers {
	return Registers{
		V:          m.v,
		I:          m.i,
		PC:         m.pc,
		SP:         m.sp,
		Stack:      m.stack,
		DelayTimer: m.delayTimer,
		SoundTimer: m.soundTimer,
	}
}

// ReadMemory returns the byte at the given address, wrapped into the
// addressable range.
func (m *Machine) ReadMemory(address uint16) byte {
	return m.memory[address&MaxAddress]
}

// Display returns a copy of the framebuffer.
func (m *Machine) Display() Framebuffer {
	return m.display
}

// SetKeys sets the keypad state, bit n is set while key n is held down.
// It must only be called between cycles.
func (m *Machine) SetKeys(keys uint16) {
	m.keys = keys
}

// Keys returns the keypad state.
func (m *Machine) Keys() uint16 {
	return m.keys
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// TickTimers decrements the delay and sound timer. A timer that reached
// zero stays at zero.
func (m *Machine) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SkipInstruction moves the program counter past the current
// instruction. It is used by hosts that continue after an unknown opcode.
func (m *Machine) SkipInstruction() {
	if !m.Finished() {
		m.pc += opcodeSize
	}
}

// PeekOpcode returns the opcode at the program counter without
// executing it.
func (m *Machine) PeekOpcode() (Opcode, error) {
	return m.fetch()
}
