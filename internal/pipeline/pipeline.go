// Package pipeline orchestrates loading and running a CHIP-8 program.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/pacing"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrochip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"
)

// inputBuffer is the number of decoded key presses that can be queued
// before the terminal reader blocks.
const inputBuffer = 32

// executor is the machine interface driven by the pacing controller.
type executor interface {
	pacing.Executor
	SkipInstruction()
}

// Result contains the final machine state of a run.
type Result struct {
	State     chip8.State
	Cycles    uint64 // instructions executed by the machine
	Stats     pacing.Stats
	Registers chip8.Registers
	Display   chip8.Framebuffer
}

// Pipeline orchestrates the complete run workflow.
type Pipeline struct {
	logger *log.Logger
	loader *loader.Loader
	clock  pacing.Clock
}

// New creates a new run pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		loader: loader.New(),
		clock:  pacing.SystemClock{},
	}
}

// Execute loads the ROM file named in the options and runs it.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*Result, error) {
	rom, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	return p.ExecuteWithROM(ctx, rom, opts, writer)
}

// ExecuteWithROM runs an already loaded ROM image. In headless mode the
// final framebuffer is written to writer, otherwise the display is drawn
// continuously. Reaching the cycle limit or a quit request is a regular
// end of the run.
func (p *Pipeline) ExecuteWithROM(ctx context.Context, rom []byte, opts options.Program,
	writer io.Writer) (*Result, error) {

	m, err := p.createMachine(rom, opts)
	if err != nil {
		return nil, fmt.Errorf("creating machine: %w", err)
	}

	var exec executor = m
	if opts.Trace {
		exec = trace.New(p.logger, m)
	}

	p.printInfo(opts, rom)

	var stats pacing.Stats
	if opts.Headless {
		stats, err = p.runHeadless(ctx, m, exec, opts, writer)
	} else {
		stats, err = p.runInteractive(ctx, m, exec, opts, writer)
	}

	result := &Result{
		State:     m.State(),
		Cycles:    m.Cycles(),
		Stats:     stats,
		Registers: m.Registers(),
		Display:   m.Display(),
	}

	if result.State == chip8.Faulted {
		p.reportFault(m)
	}
	if opts.Dump {
		if dumpErr := writeRegisters(writer, result.Registers); dumpErr != nil {
			return result, dumpErr
		}
	}
	if err != nil {
		return result, err
	}

	p.printSummary(opts, result)
	return result, nil
}

func (p *Pipeline) createMachine(rom []byte, opts options.Program) (*chip8.Machine, error) {
	machineOpts, err := config.MachineOptions(opts)
	if err != nil {
		return nil, err
	}
	m, err := chip8.New(rom, machineOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return m, nil
}

func (p *Pipeline) createController(opts options.Program, hook pacing.BurstHook) (*pacing.Controller, error) {
	controllerOpts := []pacing.Option{
		pacing.WithClock(p.clock),
		pacing.WithLogger(p.logger),
		pacing.WithMaxCycles(opts.MaxCycles),
		pacing.WithSkipUnknown(opts.IgnoreUnknown),
	}
	if hook != nil {
		controllerOpts = append(controllerOpts, pacing.WithBurstHook(hook))
	}

	controller, err := pacing.New(config.PacingConfig(opts), controllerOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating pacing controller: %w", err)
	}
	return controller, nil
}

// runHeadless runs the machine without any input and writes the final
// framebuffer.
func (p *Pipeline) runHeadless(ctx context.Context, m *chip8.Machine, exec executor,
	opts options.Program, writer io.Writer) (pacing.Stats, error) {

	controller, err := p.createController(opts, nil)
	if err != nil {
		return pacing.Stats{}, err
	}

	stats, err := controller.Run(ctx, exec)
	if errors.Is(err, pacing.ErrCycleLimit) {
		p.logger.Debug("Cycle limit reached", log.Int("cycles", int(stats.Cycles)))
		err = nil
	}

	display := m.Display()
	if _, writeErr := io.WriteString(writer, display.String()); writeErr != nil && err == nil {
		err = fmt.Errorf("writing display: %w", writeErr)
	}
	if err != nil {
		return stats, fmt.Errorf("running program: %w", err)
	}
	return stats, nil
}

// runInteractive runs the machine with the terminal as display and keypad.
// The emulation and the input handling run concurrently, the key state is
// handed to the machine between bursts.
func (p *Pipeline) runInteractive(ctx context.Context, m *chip8.Machine, exec executor,
	opts options.Program, writer io.Writer) (pacing.Stats, error) {

	tty, err := terminal.Open(os.Stdin)
	if err != nil {
		return pacing.Stats{}, fmt.Errorf("opening terminal, use -headless to run without one: %w", err)
	}
	defer func() {
		if err := tty.Restore(); err != nil {
			p.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	if width, height, err := tty.Size(); err == nil {
		if err := terminal.CheckSize(width, height); err != nil {
			p.logger.Warn("Display will be cut off", log.Err(err))
		}
	}

	host := terminal.NewHost(p.logger, writer, terminal.NewKeyboard(terminal.DefaultHoldDuration), nil)
	defer func() { _ = host.Close() }()

	controller, err := p.createController(opts, host.Hook(m))
	if err != nil {
		return pacing.Stats{}, err
	}

	// the reader blocks in Read and can not be interrupted, it ends with
	// the process
	inputs := make(chan terminal.Input, inputBuffer)
	go terminal.ReadInputs(os.Stdin, inputs)

	group, groupCtx := errgroup.WithContext(ctx)
	pumpCtx, stopPump := context.WithCancel(groupCtx)
	defer stopPump()

	var stats pacing.Stats
	group.Go(func() error {
		defer stopPump()
		var runErr error
		stats, runErr = controller.Run(groupCtx, exec)
		return runErr
	})
	group.Go(func() error {
		err := host.Pump(pumpCtx, inputs)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	err = group.Wait()
	switch {
	case err == nil, errors.Is(err, terminal.ErrQuit), errors.Is(err, pacing.ErrCycleLimit):
		return stats, nil
	default:
		return stats, fmt.Errorf("running program: %w", err)
	}
}

// reportFault logs the instruction the machine faulted on.
func (p *Pipeline) reportFault(m *chip8.Machine) {
	pc := m.PC()
	opcode := uint16(m.ReadMemory(pc))<<8 | uint16(m.ReadMemory(pc+1))
	p.logger.Error("Machine faulted",
		log.Hex("pc", pc),
		log.Hex("opcode", opcode),
		log.String("instruction", trace.Format(opcode)),
		log.Err(m.Err()))
}

// printInfo prints information about the ROM being run.
func (p *Pipeline) printInfo(opts options.Program, rom []byte) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom)),
		log.String("quirks", opts.Quirks),
		log.Int("rate", opts.TargetRate),
	)
}

// printSummary prints the outcome of a finished run.
func (p *Pipeline) printSummary(opts options.Program, result *Result) {
	if opts.Quiet {
		return
	}

	p.logger.Info("Run finished",
		log.Stringer("state", result.State),
		log.Int("cycles", int(result.Cycles)),
		log.Int("skipped", int(result.Stats.Skipped)),
		log.Stringer("elapsed", result.Stats.Elapsed),
	)
}
