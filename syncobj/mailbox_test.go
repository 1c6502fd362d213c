package syncobj

import (
	"testing"

	"github.com/rtkernel-go/rtkernel"
	"github.com/rtkernel-go/rtkernel/port"
	"github.com/stretchr/testify/require"
)

func newTestKernel(t *testing.T) *rtkernel.Kernel {
	t.Helper()
	k, err := rtkernel.New(
		rtkernel.WithPort(port.NewMock()),
		rtkernel.WithPrioCount(8),
		rtkernel.WithTimerTaskPrio(6),
	)
	require.NoError(t, err)
	require.NoError(t, k.Run())
	return k
}

func TestMailbox_PostThenReceiveDeliversQueuedMessage(t *testing.T) {
	k := newTestKernel(t)
	mb := NewMailbox(k, 1)

	require.True(t, mb.Post("hello"))
	require.Equal(t, 1, mb.Len())

	msg, result := mb.Receive(rtkernel.Forever)
	require.Equal(t, rtkernel.ResultOK, result)
	require.Equal(t, "hello", msg)
	require.Equal(t, 0, mb.Len())
}

func TestMailbox_FullQueueRejectsPostWithNoWaiter(t *testing.T) {
	k := newTestKernel(t)
	mb := NewMailbox(k, 2)

	require.True(t, mb.Post(1))
	require.True(t, mb.Post(2))
	require.False(t, mb.Post(3), "mailbox is full and nobody is waiting")
	require.Equal(t, 2, mb.Len())
}

func TestMailbox_ReceiveBlocksThenPostDeliversDirectly(t *testing.T) {
	k := newTestKernel(t)
	waiter, err := k.CreateTask("waiter", func(any) {}, nil, 1, make([]byte, 64))
	require.NoError(t, err)

	mb := NewMailbox(k, 1)

	mask := k.EnterCritical()
	var slot any
	k.EventWait(mb.ev, waiter, &slot, 0, rtkernel.Forever)
	k.ExitCritical(mask)
	require.Equal(t, 1, mb.WaitCount())

	require.True(t, mb.Post("direct"))
	require.Equal(t, rtkernel.ResultOK, waiter.WaitResult())
	require.Equal(t, "direct", slot)
	require.Equal(t, 0, mb.Len(), "delivered straight to the waiter, never queued")
}
