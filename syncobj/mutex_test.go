package syncobj

import (
	"testing"

	"github.com/rtkernel-go/rtkernel"
	"github.com/stretchr/testify/require"
)

func TestMutex_LockUnlockUncontended(t *testing.T) {
	k := newTestKernel(t)
	m := NewMutex(k)

	require.Equal(t, rtkernel.ResultOK, m.Lock(rtkernel.Forever))
	require.True(t, m.Locked())

	m.Unlock()
	require.False(t, m.Locked())
}

// Drives Mutex entirely through exported rtkernel API: holder (prio 3) locks
// first as the current task; Suspend/WakeUp hand the CPU to waiter (prio 1)
// the same way a real preemption would, so waiter's own Lock call observes
// the mutex already held and blocks through the real path (including the
// OnInversion hook, since waiter outranks holder). Unlocking then hands the
// mutex directly to waiter.
func TestMutex_WaiterBlocksWithInversionHookThenInheritsOnUnlock(t *testing.T) {
	k := newTestKernel(t)
	holder, err := k.CreateTask("holder", func(any) {}, nil, 3, make([]byte, 64))
	require.NoError(t, err)
	waiter, err := k.CreateTask("waiter", func(any) {}, nil, 1, make([]byte, 64))
	require.NoError(t, err)
	require.NoError(t, k.Run())
	require.Same(t, waiter, k.CurTask(), "waiter (prio 1) outranks holder (prio 3)")

	k.Suspend(waiter) // let holder run first and take the lock
	require.Same(t, holder, k.CurTask())

	m := NewMutex(k)
	require.Equal(t, rtkernel.ResultOK, m.Lock(rtkernel.Forever))
	require.True(t, m.Locked())

	k.Suspend(holder)
	k.WakeUp(waiter)
	require.Same(t, waiter, k.CurTask())

	var gotHolder, gotWaiter PriorityInheritanceHook
	m.OnInversion = func(h, w PriorityInheritanceHook) { gotHolder, gotWaiter = h, w }

	// waiter contends for the held mutex: OnInversion fires synchronously
	// (waiter outranks holder) and waiter is queued on the mutex's event.
	// Lock's own return value is meaningless here — nobody has unlocked
	// yet — so the real assertions are on task state directly, the same
	// way mailbox_test.go drives a genuinely-contended wait without a
	// second goroutine racing the kernel's single-threaded state.
	m.Lock(rtkernel.Forever)
	require.NotNil(t, gotHolder)
	require.Equal(t, holder.Prio(), gotHolder.Prio())
	require.Equal(t, waiter.Prio(), gotWaiter.Prio())
	require.True(t, waiter.IsWaitingEvent())
	require.Equal(t, 1, m.WaitCount())

	m.Unlock()
	require.Equal(t, rtkernel.ResultOK, waiter.WaitResult())
	require.True(t, waiter.IsReady())
	require.Same(t, waiter, m.owner)
	require.True(t, m.Locked())
}
