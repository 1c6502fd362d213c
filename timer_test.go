package rtkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario 4 (spec.md §8): one-shot hard timer fired from the tick ISR.
func TestScenario_HardTimerInISR(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	count := 0
	timer := k.NewTimer(TimerHard, 5, 0, func(arg any) { count++ }, nil)
	require.NoError(t, k.TimerStart(timer))

	for i := 0; i < 10; i++ {
		k.Tick()
	}

	require.Equal(t, 1, count)
	require.Equal(t, TimerStopped, k.TimerGetInfo(timer).State)
	require.Equal(t, 0, k.hardTimers.Len(), "one-shot timer unlinks itself on completion")
}

// Scenario 5 (spec.md §8): periodic soft timer, pumped once per tick to
// model "the soft-timer task has been allowed to run".
func TestScenario_SoftTimerPeriodic(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	// Count Tick calls here rather than reading TickCount: the first Tick
	// resets the kernel's tick counter when it arms CPU-usage calibration.
	var tick uint64
	var fireTicks []uint64
	timer := k.NewTimer(TimerSoft, 0, 3, func(arg any) { fireTicks = append(fireTicks, tick) }, nil)
	require.NoError(t, k.TimerStart(timer))

	for i := 0; i < 10; i++ {
		tick++
		k.Tick()
		k.PumpSoftTimers()
	}

	require.Equal(t, []uint64{3, 6, 9}, fireTicks)
}

// Law (spec.md §8): for a periodic timer with period P, over N*P ticks the
// callback fires N times (within ±1 at the boundary).
func TestLaw_PeriodicTimerFiresNTimesOverNPTicks(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	const period = 4
	const n = 25
	count := 0
	timer := k.NewTimer(TimerHard, period, period, func(arg any) { count++ }, nil)
	require.NoError(t, k.TimerStart(timer))

	for i := 0; i < n*period; i++ {
		k.Tick()
	}

	require.InDelta(t, n, count, 1)
}

func TestTimerStart_NoOpOutsideCreatedOrStopped(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	timer := k.NewTimer(TimerHard, 1, 0, func(arg any) {}, nil)
	require.NoError(t, k.TimerStart(timer))
	require.Equal(t, TimerStarted, k.TimerGetInfo(timer).State)

	// Starting an already-started timer is a no-op: it must not be
	// double-linked into the hard list.
	require.NoError(t, k.TimerStart(timer))
	require.Equal(t, 1, k.hardTimers.Len())
}

func TestTimerStop_UnlinksAndIsIdempotent(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	timer := k.NewTimer(TimerHard, 5, 0, func(arg any) {}, nil)
	require.NoError(t, k.TimerStart(timer))
	require.Equal(t, 1, k.hardTimers.Len())

	require.NoError(t, k.TimerStop(timer))
	require.Equal(t, TimerStopped, k.TimerGetInfo(timer).State)
	require.Equal(t, 0, k.hardTimers.Len())

	require.NoError(t, k.TimerStop(timer))
	require.Equal(t, 0, k.hardTimers.Len())
}

func TestTimerDestroy_RejectsFurtherUse(t *testing.T) {
	k, _ := newTestKernel()
	require.NoError(t, k.Run())

	timer := k.NewTimer(TimerHard, 5, 0, func(arg any) {}, nil)
	require.NoError(t, k.TimerStart(timer))
	require.NoError(t, k.TimerDestroy(timer))
	require.Equal(t, TimerDestroyed, k.TimerGetInfo(timer).State)

	require.ErrorIs(t, k.TimerStart(timer), ErrTimerDestroyed)
	require.ErrorIs(t, k.TimerStop(timer), ErrTimerDestroyed)
	require.ErrorIs(t, k.TimerDestroy(timer), ErrTimerDestroyed)
}
