// Package options contains the program options.
package options

import (
	"github.com/retroenv/retrochip8/internal/pacing"
)

// Quirk profile names.
const (
	QuirksModern = "modern"
	QuirksCosmac = "cosmac"
)

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
}

// Flags contains behavior options.
type Flags struct {
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
	Trace    bool `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Headless bool `flag:"headless" usage:"run without terminal display and print the final screen"`
	Dump     bool `flag:"dump" usage:"print the registers when the run ends"`
}

// Emulation contains the machine and pacing options.
type Emulation struct {
	CyclesPerCheck int    `flag:"cycles-per-check" usage:"instructions executed per burst" default:"5"`
	TargetRate     int    `flag:"rate" usage:"instructions per second" default:"500"`
	TimerRate      int    `flag:"timer-rate" usage:"delay and sound timer decrements per second" default:"60"`
	MaxCycles      uint64 `flag:"max-cycles" usage:"stop after this many instructions, 0 runs until halted"`
	Quirks         string `flag:"quirks" usage:"compatibility profile: modern, cosmac" default:"modern"`
	IgnoreUnknown  bool   `flag:"ignore-unknown" usage:"skip unknown opcodes instead of halting"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	Emulation
}

// NewProgram returns program options with default values.
func NewProgram() Program {
	return Program{
		Emulation: Emulation{
			CyclesPerCheck: pacing.DefaultCyclesPerCheck,
			TargetRate:     pacing.DefaultTargetRate,
			TimerRate:      pacing.DefaultTimerRate,
			Quirks:         QuirksModern,
		},
	}
}
