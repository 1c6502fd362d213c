package rtkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// SemaphoreWait itself would return before any give could arrive here (this
// kernel has no real concurrent task execution behind port.Mock, see
// DESIGN.md), so "W blocks,
// then another task gives" is modeled with the same EventWait call
// SemaphoreWait makes internally, followed by a real SemaphoreGive.
func TestSemaphore_GiveWakesWaiterBeforeIncrementingCount(t *testing.T) {
	k, _ := newTestKernel()
	w, err := k.CreateTask("w", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())

	s := k.NewSemaphore(0, 1)
	var slot any
	k.EventWait(s.ev, w, &slot, 0, Forever)
	require.Equal(t, 1, k.SemaphoreWaitCount(s))

	k.SemaphoreGive(s)
	require.True(t, w.IsReady())
	require.Equal(t, ResultOK, w.WaitResult())
	require.Equal(t, 0, k.SemaphoreCount(s), "count stays 0: the give went straight to the waiter")
}

func TestSemaphore_GiveIncrementsCountWhenNoWaiters(t *testing.T) {
	k, _ := newTestKernel()
	s := k.NewSemaphore(0, 2)
	k.SemaphoreGive(s)
	require.Equal(t, 1, k.SemaphoreCount(s))
	k.SemaphoreGive(s)
	require.Equal(t, 2, k.SemaphoreCount(s))
	k.SemaphoreGive(s)
	require.Equal(t, 2, k.SemaphoreCount(s), "saturates at max")
}

func TestSemaphore_WaitReturnsImmediatelyWhenCounted(t *testing.T) {
	k, _ := newTestKernel()
	w, err := k.CreateTask("w", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())

	s := k.NewSemaphore(1, 1)
	k.curTask = w
	result := k.SemaphoreWait(s, Forever)
	require.Equal(t, ResultOK, result)
	require.Equal(t, 0, k.SemaphoreCount(s))
}

// Scenario 3 (spec.md §8): timed semaphore wait with no give. At the
// timeout tick, the task wakes with ResultTimeout and the wait list empties.
func TestScenario_TimedSemaphoreWait(t *testing.T) {
	k, _ := newTestKernel()
	w, err := k.CreateTask("w", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())
	require.Same(t, w, k.CurTask())

	s := k.NewSemaphore(0, 1)
	k.curTask = w
	var slot any
	k.EventWait(s.ev, w, &slot, 0, 20)
	require.True(t, w.IsWaitingEvent())
	require.True(t, w.IsDelayed())

	for i := 0; i < 19; i++ {
		k.Tick()
	}
	require.True(t, w.IsWaitingEvent(), "not yet timed out")

	k.Tick() // tick 20: timeout fires
	require.Equal(t, ResultTimeout, w.WaitResult())
	require.False(t, w.IsWaitingEvent())
	require.False(t, w.IsDelayed())
	require.Equal(t, 0, s.ev.WaitCount())
	require.True(t, w.IsReady())
}
