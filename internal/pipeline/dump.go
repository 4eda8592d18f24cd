package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// writeRegisters writes a human readable register dump.
func writeRegisters(writer io.Writer, regs chip8.Registers) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC: $%04X  I: $%04X  SP: %d  DT: %d  ST: %d\n",
		regs.PC, regs.I, regs.SP, regs.DelayTimer, regs.SoundTimer)

	for i, value := range regs.V {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "V%X: $%02X", i, value)
	}
	sb.WriteByte('\n')

	if regs.SP > 0 {
		sb.WriteString("Stack:")
		for _, address := range regs.Stack[:regs.SP] {
			fmt.Fprintf(&sb, " $%04X", address)
		}
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return fmt.Errorf("writing register dump: %w", err)
	}
	return nil
}
