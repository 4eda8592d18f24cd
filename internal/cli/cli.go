// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := options.NewProgram()
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage help including all flag defaults.
func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	if opts.Trace {
		opts.Debug = true
	}

	switch {
	case opts.CyclesPerCheck <= 0:
		return fmt.Errorf("invalid cycles per check %d, must be positive", opts.CyclesPerCheck)
	case opts.TargetRate <= 0:
		return fmt.Errorf("invalid rate %d, must be positive", opts.TargetRate)
	case opts.TimerRate <= 0:
		return fmt.Errorf("invalid timer rate %d, must be positive", opts.TimerRate)
	}

	opts.Quirks = strings.ToLower(opts.Quirks)
	validQuirks := []string{options.QuirksModern, options.QuirksCosmac}
	for _, valid := range validQuirks {
		if opts.Quirks == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported quirks profile: %s. Valid options: %s",
		opts.Quirks, strings.Join(validQuirks, ", "))
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal display and print the final screen")
	flags.BoolVar(&opts.Dump, "dump", false, "print the registers when the run ends")

	flags.IntVar(&opts.CyclesPerCheck, "cycles-per-check", opts.CyclesPerCheck, "instructions executed per burst before pacing")
	flags.IntVar(&opts.TargetRate, "rate", opts.TargetRate, "instructions executed per second")
	flags.IntVar(&opts.TimerRate, "timer-rate", opts.TimerRate, "delay and sound timer decrements per second")
	flags.Uint64Var(&opts.MaxCycles, "max-cycles", 0, "stop after this many instructions, 0 runs until the program halts")
	flags.StringVar(&opts.Quirks, "quirks", opts.Quirks, "compatibility profile (modern/cosmac)")
	flags.BoolVar(&opts.IgnoreUnknown, "ignore-unknown", false, "skip unknown opcodes instead of halting")
}
