// Package chip8 implements the CHIP-8 virtual machine state and its
// instruction executor.
//
// # CHIP-8 Architecture Overview
//
// CHIP-8 is an interpreted programming language developed in the 1970s for simple games
// on early microcomputers such as the COSMAC VIP.
//
// # Memory Layout
//
// CHIP-8 systems have 4KB of memory (0x000-MaxAddress):
//   - 0x000-0x1FF: Interpreter area, holds the built-in font at FontAddress
//   - ProgramStart-MaxAddress: User program and data area
//
// # Registers
//
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - I, a 16-bit address register
//   - PC and SP, plus a 16 entry call stack
//   - delay and sound timers, decremented by TickTimers
//
// # Execution
//
// A Machine is created from a program image with New and advanced one
// instruction at a time by PerformCycle:
//
//	m, err := chip8.New(rom)
//	if err != nil {
//		return fmt.Errorf("creating machine: %w", err)
//	}
//	for !m.Finished() {
//		if err := m.PerformCycle(); err != nil {
//			return err
//		}
//	}
//
// Instructions are atomic: a cycle that fails leaves memory, registers and
// timers untouched and moves the machine into the Faulted state.
//
// # Lifecycle
//
//	Loaded -> Running -> Halted | Faulted
//
// Halted is reached through the 00FD exit instruction or Stop, Faulted
// through any execution error. Cycles performed on a finished machine
// are no-ops.
package chip8
