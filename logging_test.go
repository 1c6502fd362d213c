package rtkernel

import (
	"bytes"
	"testing"
	"time"

	"github.com/joeycumines/stumpy"
	"github.com/rtkernel-go/rtkernel/port"
	"github.com/stretchr/testify/require"
)

// newStumpyLogger builds a real stumpy-backed logiface logger the way
// logiface-stumpy/example_test.go does, so WithLogger is exercised against
// the actual JSON backend rather than a mock.
func newStumpyLogger(w *bytes.Buffer) *Logger {
	return stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(w),
			stumpy.WithTimeField(``),
		),
	).Logger()
}

func TestWithLogger_EmitsBootstrapAndTaskEvents(t *testing.T) {
	var buf bytes.Buffer
	k, err := New(WithPort(port.NewMock()), WithPrioCount(8), WithTimerTaskPrio(6), WithLogger(newStumpyLogger(&buf)))
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "kernel initialized")
	require.Contains(t, out, "prio_count")

	buf.Reset()
	_, err = k.CreateTask("worker", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.Contains(t, buf.String(), "task created")
}

func TestNilLogger_IsANoOp(t *testing.T) {
	k, _ := newTestKernel()
	require.NotPanics(t, func() {
		k.logBootstrap("should not panic")
	})
}

// Drives the "scheduler lock held across a tick" contract check (spec.md
// §8): Tick observes schedLock > 0 at entry and logs through
// logLockContract, which is rate-limited by overloadLimiter so a sustained
// SchedDisable span doesn't log on every single tick.
func TestSchedLockHeldAcrossTick_LogsContractViolation(t *testing.T) {
	var buf bytes.Buffer
	k, err := New(
		WithPort(port.NewMock()), WithPrioCount(8), WithTimerTaskPrio(6),
		WithLogger(newStumpyLogger(&buf)),
		WithOverloadRateLimit(map[time.Duration]int{time.Hour: 1}),
	)
	require.NoError(t, err)
	require.NoError(t, k.Run())

	k.SchedDisable()
	defer k.SchedEnable()

	k.Tick()
	require.Contains(t, buf.String(), "scheduling lock held across a tick boundary")
	require.Contains(t, buf.String(), "ticks_held")

	buf.Reset()
	k.Tick()
	require.Empty(t, buf.String(), "second tick within the same hour is rate-limited")
}

// Drives the "timer hard-list overrun" check (SPEC_FULL.md §4): once the
// hard list grows past WithHardTimerListMax, scanHardTimers reports it
// through the rate-limited logTimerHardListOverrun path.
func TestTimerHardListOverrun_LogsWhenBoundExceeded(t *testing.T) {
	var buf bytes.Buffer
	k, err := New(
		WithPort(port.NewMock()), WithPrioCount(8), WithTimerTaskPrio(6),
		WithLogger(newStumpyLogger(&buf)),
		WithHardTimerListMax(1),
		WithOverloadRateLimit(map[time.Duration]int{time.Hour: 1}),
	)
	require.NoError(t, err)
	require.NoError(t, k.Run())

	a := k.NewTimer(TimerHard, 100, 0, func(any) {}, nil)
	b := k.NewTimer(TimerHard, 100, 0, func(any) {}, nil)
	require.NoError(t, k.TimerStart(a))
	require.NoError(t, k.TimerStart(b))

	k.Tick()
	require.Contains(t, buf.String(), "timer hard list exceeded configured bound")
	require.Contains(t, buf.String(), "entries")

	buf.Reset()
	k.Tick()
	require.Empty(t, buf.String(), "second tick within the same hour is rate-limited")
}
