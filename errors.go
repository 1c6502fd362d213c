package rtkernel

import "errors"

// Sentinel errors returned by the bootstrap and configuration surface.
// Event-primitive outcomes (OK/TIMEOUT/DEL) are a distinct Result enum
// written into the waiting task, never returned as a Go error — see
// result.go.
var (
	// ErrNoPort is returned by New when no port.Port was supplied via
	// WithPort; the kernel cannot schedule anything without one.
	ErrNoPort = errors.New("rtkernel: no port configured")

	// ErrInvalidPrioCount is returned when Config.PrioCount is outside
	// (0, 32].
	ErrInvalidPrioCount = errors.New("rtkernel: prio count must be in (0,32]")

	// ErrInvalidTimerTaskPrio is returned when Config.TimerTaskPrio does
	// not satisfy timer_task_prio < PrioCount-1 (spec.md §4.7).
	ErrInvalidTimerTaskPrio = errors.New("rtkernel: timer task priority must be strictly higher than idle")

	// ErrInvalidSliceMax is returned when Config.SliceMax <= 0.
	ErrInvalidSliceMax = errors.New("rtkernel: slice max must be positive")

	// ErrInvalidTicksPerSec is returned when Config.TicksPerSec <= 0.
	ErrInvalidTicksPerSec = errors.New("rtkernel: ticks per second must be positive")

	// ErrPriorityTaken is returned by CreateTask when prio collides with
	// the reserved idle or timer-task priority.
	ErrPriorityTaken = errors.New("rtkernel: priority reserved for idle or timer task")

	// ErrAlreadyRunning is returned by Run if called more than once.
	ErrAlreadyRunning = errors.New("rtkernel: kernel already running")

	// ErrTimerDestroyed is returned by timer operations on a Timer that
	// has already been destroyed.
	ErrTimerDestroyed = errors.New("rtkernel: timer destroyed")
)
