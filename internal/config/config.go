// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pacing"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions returns the machine options for the program options.
func MachineOptions(opts options.Program) ([]chip8.Option, error) {
	var quirks chip8.Quirks
	switch opts.Quirks {
	case options.QuirksModern, "":
	case options.QuirksCosmac:
		quirks = chip8.CosmacQuirks
	default:
		return nil, fmt.Errorf("unsupported quirks profile '%s'", opts.Quirks)
	}

	policy := chip8.HaltOnUnknown
	if opts.IgnoreUnknown {
		policy = chip8.ContinueOnUnknown
	}

	return []chip8.Option{
		chip8.WithQuirks(quirks),
		chip8.WithUnknownOpcodePolicy(policy),
	}, nil
}

// PacingConfig returns the pacing configuration for the program options.
func PacingConfig(opts options.Program) pacing.Config {
	return pacing.Config{
		CyclesPerCheck: opts.CyclesPerCheck,
		TargetRate:     opts.TargetRate,
		TimerRate:      opts.TimerRate,
	}
}
