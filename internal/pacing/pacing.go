// Package pacing drives a CHIP-8 machine at a configured instruction rate.
//
// Instructions are executed in bursts of Config.CyclesPerCheck cycles.
// After each burst the wall clock time it took is compared to the time
// the burst should take at Config.TargetRate and the difference is slept.
// Each burst is throttled independently, lag of earlier bursts is not
// compensated.
package pacing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// Default configuration values.
const (
	DefaultCyclesPerCheck = 5
	DefaultTargetRate     = 500
	DefaultTimerRate      = 60
)

// ErrCycleLimit is returned by Run when the configured maximum number of
// cycles was executed before the machine finished.
var ErrCycleLimit = errors.New("cycle limit reached")

// Executor is the machine interface the controller drives.
type Executor interface {
	PerformCycle() error
	TickTimers()
	Finished() bool
}

// skipper is implemented by executors that can step over an instruction
// they failed to decode.
type skipper interface {
	SkipInstruction()
}

// BurstHook is called after every burst, before the controller sleeps.
// Returning an error stops the run.
type BurstHook func() error

// Config contains the pacing parameters.
type Config struct {
	CyclesPerCheck int // instructions per burst
	TargetRate     int // instructions per second
	TimerRate      int // timer decrements per second
}

// DefaultConfig returns the canonical pacing configuration.
func DefaultConfig() Config {
	return Config{
		CyclesPerCheck: DefaultCyclesPerCheck,
		TargetRate:     DefaultTargetRate,
		TimerRate:      DefaultTimerRate,
	}
}

// Validate checks that all values are usable.
func (c Config) Validate() error {
	if c.CyclesPerCheck <= 0 {
		return fmt.Errorf("cycles per check must be positive, got %d", c.CyclesPerCheck)
	}
	if c.TargetRate <= 0 {
		return fmt.Errorf("target rate must be positive, got %d", c.TargetRate)
	}
	if c.TimerRate <= 0 {
		return fmt.Errorf("timer rate must be positive, got %d", c.TimerRate)
	}
	return nil
}

// BurstDuration returns the ideal duration of a single burst.
func (c Config) BurstDuration() time.Duration {
	return time.Duration(c.CyclesPerCheck) * time.Second / time.Duration(c.TargetRate)
}

// Stats contains counters of a finished run.
type Stats struct {
	Cycles     uint64        // executed cycles
	Bursts     uint64        // executed bursts
	TimerTicks uint64        // timer decrements
	Skipped    uint64        // unknown opcodes that were skipped
	Slept      time.Duration // total time spent sleeping
	Elapsed    time.Duration // wall clock duration of the run
}

// Controller runs an executor in throttled bursts.
type Controller struct {
	cfg       Config
	clock     Clock
	logger    *log.Logger
	hook      BurstHook
	maxCycles uint64
	skip      bool
}

// Option configures a controller.
type Option func(*Controller)

// WithClock sets the time source, it defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithBurstHook sets a function that is called after every burst.
func WithBurstHook(hook BurstHook) Option {
	return func(c *Controller) {
		c.hook = hook
	}
}

// WithMaxCycles limits the number of executed cycles, 0 means no limit.
func WithMaxCycles(limit uint64) Option {
	return func(c *Controller) {
		c.maxCycles = limit
	}
}

// WithSkipUnknown makes the controller step over unknown opcodes instead
// of stopping the run. It only has an effect for machines that report
// unknown opcodes without faulting.
func WithSkipUnknown(skip bool) Option {
	return func(c *Controller) {
		c.skip = skip
	}
}

// New returns a controller for the given configuration.
func New(cfg Config, options ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating pacing config: %w", err)
	}

	c := &Controller{
		cfg:   cfg,
		clock: SystemClock{},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Run executes bursts until the executor finishes, the context is
// cancelled, the cycle limit is reached or a cycle fails.
func (c *Controller) Run(ctx context.Context, exec Executor) (Stats, error) {
	var stats Stats
	ideal := c.cfg.BurstDuration()
	start := c.clock.Now()

	finish := func(err error) (Stats, error) {
		stats.Elapsed = c.clock.Now().Sub(start)
		return stats, err
	}

	for {
		t0 := c.clock.Now()

		err := c.burst(ctx, exec, &stats)
		c.tickTimers(exec, start, &stats)
		if err != nil {
			return finish(err)
		}
		stats.Bursts++

		if c.hook != nil {
			if err := c.hook(); err != nil {
				return finish(fmt.Errorf("running burst hook: %w", err))
			}
		}
		if exec.Finished() {
			return finish(nil)
		}

		elapsed := c.clock.Now().Sub(t0)
		if ideal > elapsed {
			wait := ideal - elapsed
			c.clock.Sleep(wait)
			stats.Slept += wait
		}
	}
}

// burst executes up to CyclesPerCheck cycles.
func (c *Controller) burst(ctx context.Context, exec Executor, stats *Stats) error {
	for range c.cfg.CyclesPerCheck {
		if err := ctx.Err(); err != nil {
			return err
		}
		if exec.Finished() {
			return nil
		}
		if c.maxCycles > 0 && stats.Cycles >= c.maxCycles {
			return ErrCycleLimit
		}

		if err := exec.PerformCycle(); err != nil {
			if !c.handleUnknown(exec, err, stats) {
				return fmt.Errorf("executing cycle %d: %w", stats.Cycles, err)
			}
			continue
		}
		stats.Cycles++

		if exec.Finished() {
			return nil
		}
	}
	return nil
}

// handleUnknown steps over an unknown opcode if the controller is
// configured to do so. It returns whether the run can continue.
func (c *Controller) handleUnknown(exec Executor, err error, stats *Stats) bool {
	if !c.skip || exec.Finished() || !errors.Is(err, chip8.ErrUnknownOpcode) {
		return false
	}
	s, ok := exec.(skipper)
	if !ok {
		return false
	}

	if c.logger != nil {
		c.logger.Warn("Skipping unknown opcode", log.Err(err))
	}
	s.SkipInstruction()
	stats.Skipped++
	return true
}

// tickTimers applies all timer ticks that are due since the start of the
// run. Ticks are derived from the total run time so that they do not
// depend on the instruction rate or burst size.
func (c *Controller) tickTimers(exec Executor, start time.Time, stats *Stats) {
	elapsed := c.clock.Now().Sub(start)
	due := uint64(elapsed * time.Duration(c.cfg.TimerRate) / time.Second)
	for ; stats.TimerTicks < due; stats.TimerTicks++ {
		exec.TickTimers()
	}
}
