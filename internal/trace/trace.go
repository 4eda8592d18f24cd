// Package trace provides instruction level logging of a running CHIP-8
// machine and the mnemonic formatting it needs.
package trace

import (
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Tracer wraps a machine and logs every instruction before it is executed.
type Tracer struct {
	*chip8.Machine

	logger *log.Logger
}

// New returns a tracer for the machine.
func New(logger *log.Logger, m *chip8.Machine) *Tracer {
	return &Tracer{
		Machine: m,
		logger:  logger,
	}
}

// PerformCycle logs the instruction at the program counter and executes it.
func (t *Tracer) PerformCycle() error {
	if t.Finished() {
		return nil
	}

	pc := t.PC()
	if op, err := t.PeekOpcode(); err == nil {
		t.logger.Debug("Executing",
			log.Hex("pc", pc),
			log.Hex("opcode", uint16(op)),
			log.String("instruction", Format(uint16(op))))
	}

	if err := t.Machine.PerformCycle(); err != nil {
		t.logger.Debug("Cycle failed",
			log.Hex("pc", pc),
			log.Err(err))
		return err
	}
	return nil
}
