package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
	assert.NotNil(t, p.clock)
}

func headlessOptions() options.Program {
	opts := options.NewProgram()
	opts.Headless = true
	opts.Quiet = true
	opts.TargetRate = 100000
	return opts
}

func TestExecute(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger)

	rom := []byte{
		0x60, 0x00, // ld V0, $00
		0x61, 0x00, // ld V1, $00
		0xA0, 0x50, // ld I, $050
		0xD0, 0x15, // drw V0, V1, $5
		0x00, 0xFD, // exit
	}
	tmpFile := createTempFile(t, rom)

	t.Run("execute halting program", func(t *testing.T) {
		opts := headlessOptions()
		opts.Input = tmpFile

		var buf bytes.Buffer
		result, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, chip8.Halted, result.State)
		assert.Equal(t, uint64(5), result.Stats.Cycles)
		assert.Equal(t, uint64(5), result.Cycles)

		// glyph 0 of the font: ####, #..#, #..#, #..#, ####
		lines := strings.Split(buf.String(), "\n")
		assert.Equal(t, "####", lines[0][:4])
		assert.Equal(t, "#..#", lines[1][:4])
		assert.Equal(t, "####", lines[4][:4])
		assert.Equal(t, chip8.DisplayHeight+1, len(lines))
	})

	t.Run("execute with register dump", func(t *testing.T) {
		opts := headlessOptions()
		opts.Input = tmpFile
		opts.Dump = true

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "PC: $020A  I: $0050")
		assert.Contains(t, buf.String(), "V0: $00 V1: $00")
	})

	t.Run("execute with trace", func(t *testing.T) {
		opts := headlessOptions()
		opts.Input = tmpFile
		opts.Trace = true
		opts.Debug = true

		var buf bytes.Buffer
		result, err := p.Execute(context.Background(), opts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, chip8.Halted, result.State)
	})

	t.Run("execute with non-existent file", func(t *testing.T) {
		opts := headlessOptions()
		opts.Input = "/nonexistent/file.ch8"

		var buf bytes.Buffer
		_, err := p.Execute(context.Background(), opts, &buf)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestExecuteWithROM_CycleLimit(t *testing.T) {
	p := New(log.NewTestLogger(t))

	opts := headlessOptions()
	opts.MaxCycles = 25

	var buf bytes.Buffer
	result, err := p.ExecuteWithROM(context.Background(), []byte{0x12, 0x00}, opts, &buf)
	assert.NoError(t, err)
	assert.Equal(t, chip8.Running, result.State)
	assert.Equal(t, uint64(25), result.Stats.Cycles)
	assert.Equal(t, uint16(chip8.ProgramStart), result.Registers.PC)
}

func TestExecuteWithROM_UnknownOpcode(t *testing.T) {
	p := New(log.NewTestLogger(t))
	rom := []byte{
		0x60, 0x07, // ld V0, $07
		0x01, 0x23, // unknown opcode
		0x00, 0xFD, // exit
	}

	t.Run("faults by default", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := p.ExecuteWithROM(context.Background(), rom, headlessOptions(), &buf)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, chip8.ErrUnknownOpcode))

		var decodeErr *chip8.DecodeError
		assert.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, uint16(0x202), decodeErr.Address)
		assert.Equal(t, chip8.Faulted, result.State)
		assert.Equal(t, uint8(0x07), result.Registers.V[0])
	})

	t.Run("skips when ignored", func(t *testing.T) {
		opts := headlessOptions()
		opts.IgnoreUnknown = true

		var buf bytes.Buffer
		result, err := p.ExecuteWithROM(context.Background(), rom, opts, &buf)
		assert.NoError(t, err)
		assert.Equal(t, chip8.Halted, result.State)
		assert.Equal(t, uint64(1), result.Stats.Skipped)
	})
}

func TestExecuteWithROM_Cancelled(t *testing.T) {
	p := New(log.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := p.ExecuteWithROM(ctx, []byte{0x12, 0x00}, headlessOptions(), &buf)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExecuteWithROM_InvalidQuirks(t *testing.T) {
	p := New(log.NewTestLogger(t))
	opts := headlessOptions()
	opts.Quirks = "schip"

	var buf bytes.Buffer
	_, err := p.ExecuteWithROM(context.Background(), []byte{0x00, 0xFD}, opts, &buf)
	assert.ErrorContains(t, err, "unsupported quirks profile")
}

func TestWriteRegisters(t *testing.T) {
	regs := chip8.Registers{
		PC:         0x0234,
		I:          0x0ABC,
		SP:         2,
		DelayTimer: 3,
		SoundTimer: 4,
	}
	regs.V[0xF] = 0x01
	regs.Stack[0] = 0x0202
	regs.Stack[1] = 0x0310

	var buf bytes.Buffer
	assert.NoError(t, writeRegisters(&buf, regs))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "PC: $0234  I: $0ABC  SP: 2  DT: 3  ST: 4", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "VF: $01"))
	assert.Equal(t, "Stack: $0202 $0310", lines[2])
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

func TestPrintBanner(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := options.NewProgram()
	PrintBanner(logger, opts, "dev", "abcdef1", "2024-01-01")

	opts.Quiet = true
	PrintBanner(logger, opts, "dev", "", "")
}
