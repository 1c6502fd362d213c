package rtkernel

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"
	microbatch "github.com/joeycumines/go-microbatch"
	"github.com/rtkernel-go/rtkernel/port"
)

// Package-default configuration constants (spec.md §3, §6). These are the
// values New uses when no overriding Option is supplied, and the values the
// compile-time assertions below are checked against.
const (
	// DefaultPrioCount is PRIO_COUNT: priorities 0..DefaultPrioCount-1 are
	// available, 0 highest, DefaultPrioCount-1 reserved for the idle task.
	DefaultPrioCount = 32

	// DefaultSliceMax is SLICE_MAX: the round-robin quantum, in ticks.
	DefaultSliceMax = 10

	// DefaultTicksPerSec is TICKS_PER_SEC: the tick frequency used by the
	// CPU-usage calibration window (spec.md §4.9).
	DefaultTicksPerSec = 1000

	// DefaultSystickMS is SYSTICK_MS: the period programmed into the port's
	// tick source.
	DefaultSystickMS = 1

	// DefaultIdleTaskStackSize is IDLETASK_STACK_SIZE, in bytes.
	DefaultIdleTaskStackSize = 256

	// DefaultTimerTaskStackSize is TIMERTASK_STACK_SIZE, in bytes.
	DefaultTimerTaskStackSize = 512

	// DefaultTimerTaskPrio is TIMERTASK_PRIO: one priority level above the
	// idle task (numerically one less), so the soft-timer task outranks only
	// the idle task and never preempts an application task (spec.md §4.7's
	// priority-inversion/starvation rationale).
	DefaultTimerTaskPrio = DefaultPrioCount - 2
)

// Compile-time assertions, the closest stdlib-only equivalent of
// static_assert available without generics-based constraints: an array type
// whose length expression is negative when the condition is violated fails
// to compile. Both only catch the package defaults; Config-supplied
// overrides are re-validated at New time, see validate below.
type (
	_assertDefaultPrioCountInRange [32 - DefaultPrioCount]struct{}
	_assertDefaultTimerTaskPrio    [DefaultPrioCount - 2 - DefaultTimerTaskPrio]struct{}
)

// Config holds every tunable named in spec.md §6's "Configuration
// constants" list, plus the ambient-stack wiring (port, logger, rate
// limiter, trace sink) SPEC_FULL.md §3/§4 add. Build one with New and a set
// of Options; do not construct directly in application code.
type Config struct {
	PrioCount          int
	SliceMax           int
	TicksPerSec        int
	SystickMS          int
	IdleTaskStackSize  int
	TimerTaskStackSize int
	TimerTaskPrio      int

	port   port.Port
	logger *Logger

	overloadLimiter  *catrate.Limiter
	hardTimerListMax int

	traceSink  func([]TraceEvent)
	traceBatch *microbatch.BatcherConfig
}

func defaultConfig() Config {
	return Config{
		PrioCount:          DefaultPrioCount,
		SliceMax:           DefaultSliceMax,
		TicksPerSec:        DefaultTicksPerSec,
		SystickMS:          DefaultSystickMS,
		IdleTaskStackSize:  DefaultIdleTaskStackSize,
		TimerTaskStackSize: DefaultTimerTaskStackSize,
		TimerTaskPrio:      DefaultTimerTaskPrio,
	}
}

// validate re-checks every constraint the compile-time assertions enforce
// for the defaults, this time against whatever a caller's Options produced.
// Mismatches fail here, at New time, rather than at the point some
// component silently misbehaves.
func (c *Config) validate() error {
	if c.PrioCount <= 0 || c.PrioCount > 32 {
		return ErrInvalidPrioCount
	}
	if c.TimerTaskPrio < 0 || c.TimerTaskPrio >= c.PrioCount-1 {
		return ErrInvalidTimerTaskPrio
	}
	if c.SliceMax <= 0 {
		return ErrInvalidSliceMax
	}
	if c.TicksPerSec <= 0 {
		return ErrInvalidTicksPerSec
	}
	if c.port == nil {
		return ErrNoPort
	}
	return nil
}

// Option configures a Kernel at construction time, following
// eventloop/options.go's loopOptions/LoopOption functional-options pattern.
type Option func(*Config) error

// WithPort supplies the platform collaborator. Required; New returns
// ErrNoPort without it.
func WithPort(p port.Port) Option {
	return func(c *Config) error {
		c.port = p
		return nil
	}
}

// WithPrioCount overrides PRIO_COUNT.
func WithPrioCount(n int) Option {
	return func(c *Config) error {
		c.PrioCount = n
		return nil
	}
}

// WithSliceMax overrides SLICE_MAX.
func WithSliceMax(n int) Option {
	return func(c *Config) error {
		c.SliceMax = n
		return nil
	}
}

// WithTicksPerSec overrides TICKS_PER_SEC.
func WithTicksPerSec(n int) Option {
	return func(c *Config) error {
		c.TicksPerSec = n
		return nil
	}
}

// WithSystickMS overrides SYSTICK_MS, the period programmed into the port's
// tick source at bootstrap.
func WithSystickMS(ms int) Option {
	return func(c *Config) error {
		c.SystickMS = ms
		return nil
	}
}

// WithIdleTaskStackSize overrides IDLETASK_STACK_SIZE.
func WithIdleTaskStackSize(n int) Option {
	return func(c *Config) error {
		c.IdleTaskStackSize = n
		return nil
	}
}

// WithTimerTaskStackSize overrides TIMERTASK_STACK_SIZE.
func WithTimerTaskStackSize(n int) Option {
	return func(c *Config) error {
		c.TimerTaskStackSize = n
		return nil
	}
}

// WithTimerTaskPrio overrides TIMERTASK_PRIO. Validated at New time against
// the (possibly also overridden) PrioCount.
func WithTimerTaskPrio(prio int) Option {
	return func(c *Config) error {
		c.TimerTaskPrio = prio
		return nil
	}
}

// WithLogger attaches a structured logger, following the same "accept an
// optional collaborator, default to a safe no-op" shape as
// eventloop.New's hook/option defaults. A nil Logger (the default) is safe:
// every logiface call on a nil receiver is a no-op.
func WithLogger(l *Logger) Option {
	return func(c *Config) error {
		c.logger = l
		return nil
	}
}

// WithOverloadRateLimit rate-limits the kernel's own contract-violation and
// overload diagnostics (scheduler lock held across a tick, timer hard-list
// overrun) through a catrate.Limiter, so a sustained fault condition cannot
// flood the log sink. rates follows catrate.NewLimiter's own
// map[time.Duration]int shape.
func WithOverloadRateLimit(rates map[time.Duration]int) Option {
	return func(c *Config) error {
		c.overloadLimiter = catrate.NewLimiter(rates)
		return nil
	}
}

// WithHardTimerListMax bounds the hard-timer list: notifyTimerModule's
// tick-ISR scan compares the live list length against n on every tick, and
// a length over n (a sign hard timers are being started faster than the
// ISR can retire them) is reported through logTimerHardListOverrun. n <= 0 disables
// the check, the default — a bound only makes sense once a caller knows
// how many hard timers their system actually runs.
func WithHardTimerListMax(n int) Option {
	return func(c *Config) error {
		c.hardTimerListMax = n
		return nil
	}
}

// WithTraceSink enables the optional diagnostic trace recorder (SPEC_FULL.md
// §4): context-switch events are batched by go-microbatch and delivered to
// sink from soft (task) context only, never the tick ISR. batchConfig may be
// nil to take microbatch's own defaults.
func WithTraceSink(sink func([]TraceEvent), batchConfig *microbatch.BatcherConfig) Option {
	return func(c *Config) error {
		c.traceSink = sink
		c.traceBatch = batchConfig
		return nil
	}
}
