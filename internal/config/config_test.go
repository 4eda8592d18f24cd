package config

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pacing"
	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestMachineOptions(t *testing.T) {
	rom := []byte{
		0x61, 0x01, // ld V1, $01
		0x62, 0x04, // ld V2, $04
		0x81, 0x26, // shr V1, V2
		0x01, 0x23, // unknown opcode
	}

	tests := []struct {
		name    string
		quirks  string
		ignore  bool
		shifted uint8
	}{
		{"modern", options.QuirksModern, false, 0x00},
		{"cosmac", options.QuirksCosmac, false, 0x02},
		{"ignore unknown", options.QuirksModern, true, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.NewProgram()
			opts.Quirks = tt.quirks
			opts.IgnoreUnknown = tt.ignore

			machineOpts, err := MachineOptions(opts)
			assert.NoError(t, err)
			m, err := chip8.New(rom, machineOpts...)
			assert.NoError(t, err)

			for range 3 {
				assert.NoError(t, m.PerformCycle())
			}
			assert.Equal(t, tt.shifted, m.Registers().V[1])

			assert.Error(t, m.PerformCycle())
			assert.Equal(t, tt.ignore, !m.Finished())
		})
	}
}

func TestMachineOptions_InvalidQuirks(t *testing.T) {
	opts := options.NewProgram()
	opts.Quirks = "schip"
	_, err := MachineOptions(opts)
	assert.Error(t, err)
}

func TestPacingConfig(t *testing.T) {
	opts := options.NewProgram()
	assert.Equal(t, pacing.DefaultConfig(), PacingConfig(opts))
}
