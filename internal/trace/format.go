package trace

import (
	"fmt"
	"math/bits"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// exitName is the mnemonic of the 00FD exit instruction, which is a
// SUPER-CHIP extension that the instruction tables do not list.
const exitName = "exit"

// Lookup returns the instruction that the opcode table lists for the
// given opcode. If multiple table entries match, the one with the most
// specific mask wins.
func Lookup(opcode uint16) (*chip8.Instruction, bool) {
	firstNibble := (opcode & 0xF000) >> 12

	var instruction *chip8.Instruction
	specificity := -1
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Instruction == nil || op.Info.Mask&opcode != op.Info.Value {
			continue
		}
		if n := bits.OnesCount16(op.Info.Mask); n > specificity {
			instruction, specificity = op.Instruction, n
		}
	}
	return instruction, instruction != nil
}

// Format returns the assembly representation of an opcode.
// Unknown opcodes are formatted as a data word.
func Format(opcode uint16) string {
	if opcode == 0x00FD {
		return exitName
	}

	instruction, ok := Lookup(opcode)
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode)
	}

	name := instruction.Name
	if params := formatInstruction(name, opcode); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// formatInstruction formats a CHIP-8 instruction with its parameters.
// Returns the formatted parameter string for the given instruction.
func formatInstruction(name string, opcode uint16) string {
	switch name {
	case chip8.ClsInst.Name, chip8.RetInst.Name:
		return "" // No parameters
	case chip8.JpInst.Name:
		return formatJumpInstruction(opcode)
	case chip8.CallInst.Name:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case chip8.SeInst.Name, chip8.SneInst.Name:
		return formatCompareInstruction(opcode)
	case chip8.LdInst.Name:
		return formatLoadInstruction(opcode)
	case chip8.AddInst.Name:
		return formatAddInstruction(opcode)
	case chip8.OrInst.Name, chip8.AndInst.Name, chip8.XorInst.Name, chip8.SubInst.Name, chip8.SubnInst.Name:
		return fmt.Sprintf("V%X, V%X", registerX(opcode), registerY(opcode))
	case chip8.ShrInst.Name, chip8.ShlInst.Name, chip8.SkpInst.Name, chip8.SknpInst.Name:
		return fmt.Sprintf("V%X", registerX(opcode))
	case chip8.RndInst.Name:
		return fmt.Sprintf("V%X, $%02X", registerX(opcode), opcode&0x00FF)
	case chip8.DrwInst.Name:
		return fmt.Sprintf("V%X, V%X, $%X", registerX(opcode), registerY(opcode), opcode&0x000F)
	}
	return ""
}

// formatJumpInstruction formats jump instructions (JP addr, JP V0+addr).
func formatJumpInstruction(opcode uint16) string {
	switch opcode & 0xF000 {
	case 0x1000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	}
	return ""
}

// formatCompareInstruction formats comparison instructions (SE, SNE).
func formatCompareInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x3000, 0x4000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	}
	return ""
}

// fRegisterLoads maps the low byte of FXNN load instructions to their
// parameter format, %X is replaced by the X register.
var fRegisterLoads = map[uint16]string{
	0x07: "V%X, DT",
	0x0A: "V%X, K",
	0x15: "DT, V%X",
	0x18: "ST, V%X",
	0x29: "F, V%X",
	0x33: "B, V%X",
	0x55: "[I], V%X",
	0x65: "V%X, [I]",
}

// formatLoadInstruction formats load instructions (LD Vx, byte/Vy/I and
// the FXNN register transfers).
func formatLoadInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x6000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xF000:
		if format, ok := fRegisterLoads[opcode&0x00FF]; ok {
			return fmt.Sprintf(format, x)
		}
	}
	return ""
}

// formatAddInstruction formats add instructions (ADD Vx, byte/Vy, ADD I, Vx).
func formatAddInstruction(opcode uint16) string {
	x := registerX(opcode)
	switch opcode & 0xF000 {
	case 0x7000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x8000:
		return fmt.Sprintf("V%X, V%X", x, registerY(opcode))
	case 0xF000:
		return fmt.Sprintf("I, V%X", x)
	}
	return ""
}

func registerX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

func registerY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
