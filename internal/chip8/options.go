package chip8

// Option configures a machine on creation.
type Option func(*Machine)

// UnknownOpcodePolicy defines how the machine reacts to an opcode
// that does not map to any instruction.
type UnknownOpcodePolicy uint8

const (
	// HaltOnUnknown faults the machine on an unknown opcode.
	HaltOnUnknown UnknownOpcodePolicy = iota
	// ContinueOnUnknown reports the unknown opcode but keeps the machine
	// running, the host decides whether to skip the instruction.
	ContinueOnUnknown
)

// Quirks selects between the behaviors that differ across historical
// CHIP-8 interpreters. The zero value describes the behavior of most
// modern interpreters.
type Quirks struct {
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX instead of
	// shifting VX in place.
	ShiftUsesVY bool
	// LoadStoreIncrementsI makes FX55 and FX65 leave I pointing past
	// the last accessed register.
	LoadStoreIncrementsI bool
	// ResetVFOnLogic clears VF after 8XY1, 8XY2 and 8XY3.
	ResetVFOnLogic bool
}

// CosmacQuirks describes the original COSMAC VIP interpreter.
var CosmacQuirks = Quirks{
	ShiftUsesVY:          true,
	LoadStoreIncrementsI: true,
	ResetVFOnLogic:       true,
}

// WithQuirks sets the compatibility behavior of the machine.
func WithQuirks(quirks Quirks) Option {
	return func(m *Machine) {
		m.quirks = quirks
	}
}

// WithUnknownOpcodePolicy sets how unknown opcodes are handled.
func WithUnknownOpcodePolicy(policy UnknownOpcodePolicy) Option {
	return func(m *Machine) {
		m.unknownPolicy = policy
	}
}

// WithRandom sets the random byte source used by CXNN.
func WithRandom(random func() uint8) Option {
	return func(m *Machine) {
		if random != nil {
			m.random = random
		}
	}
}
