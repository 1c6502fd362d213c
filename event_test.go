package rtkernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Law (spec.md §8): event_wait(e, t); event_wake(e) with no other waiters
// returns exactly task t with the posted message.
func TestLaw_EventWaitThenEventWake(t *testing.T) {
	k, _ := newTestKernel()
	task, err := k.CreateTask("waiter", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())

	ev := NewEvent(EventSemaphore)
	var slot any
	k.EventWait(ev, task, &slot, 0, Forever)
	require.True(t, task.IsWaitingEvent())
	require.Equal(t, 1, ev.WaitCount())

	woken := k.EventWake(ev, "payload", ResultOK)
	require.Same(t, task, woken)
	require.Equal(t, "payload", slot)
	require.Equal(t, ResultOK, task.WaitResult())
	require.False(t, task.IsWaitingEvent())
	require.True(t, task.IsReady())
	require.Equal(t, 0, ev.WaitCount())
}

func TestEventWake_ReturnsNilWhenNoWaiters(t *testing.T) {
	k, _ := newTestKernel()
	ev := NewEvent(EventMutex)
	require.Nil(t, k.EventWake(ev, nil, ResultOK))
}

func TestEventWakeAll_ReleasesEveryWaiter(t *testing.T) {
	k, _ := newTestKernel()
	var waiters []*Task
	for i := 0; i < 3; i++ {
		task, err := k.CreateTask("w", noopEntry, nil, i+1, make([]byte, 64))
		require.NoError(t, err)
		waiters = append(waiters, task)
	}
	require.NoError(t, k.Run())

	ev := NewEvent(EventFlagGroup)
	for _, w := range waiters {
		var slot any
		k.EventWait(ev, w, &slot, 0, Forever)
	}
	require.Equal(t, 3, ev.WaitCount())

	n := k.EventWakeAll(ev, "broadcast", ResultOK)
	require.Equal(t, 3, n)
	require.Equal(t, 0, ev.WaitCount())
	for _, w := range waiters {
		require.True(t, w.IsReady())
		require.Equal(t, ResultOK, w.WaitResult())
	}
}

// An event wait that also carries the SUSPENDED bit must not be made
// ready by completeWait until SUSPENDED clears too (spec.md §4.5: state bits
// combine independently).
func TestCompleteWait_DoesNotReadyASuspendedTask(t *testing.T) {
	k, _ := newTestKernel()
	task, err := k.CreateTask("w", noopEntry, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())

	k.Suspend(task)
	require.True(t, task.IsSuspended())

	ev := NewEvent(EventSemaphore)
	var slot any
	task.state |= StateWaitEvent
	task.waitEvent = ev
	task.msgSlot = &slot
	ev.waitList.InsertLast(&task.link)

	k.EventWake(ev, "msg", ResultOK)
	require.False(t, task.IsWaitingEvent())
	require.True(t, task.IsSuspended(), "SUSPENDED must survive the wake")
	require.False(t, task.IsReady())
}
