package syncobj

import "github.com/rtkernel-go/rtkernel"

// Mailbox is a bounded FIFO of messages with task-blocking Receive, built on
// rtkernel.Event (SPEC_FULL.md §5's "single-slot and bounded-queue
// mailbox"). A capacity of 1 gives single-slot behavior.
type Mailbox struct {
	k    *rtkernel.Kernel
	ev   *rtkernel.Event
	buf  []any
	head int
	n    int
}

// NewMailbox constructs a Mailbox with room for capacity undelivered
// messages (minimum 1).
func NewMailbox(k *rtkernel.Kernel, capacity int) *Mailbox {
	if capacity < 1 {
		capacity = 1
	}
	return &Mailbox{
		k:   k,
		ev:  rtkernel.NewEvent(rtkernel.EventMailbox),
		buf: make([]any, capacity),
	}
}

// Post delivers msg directly to the longest-waiting Receiver if one exists,
// otherwise enqueues it. It reports false if the mailbox is full and nobody
// is waiting — Post never blocks the poster.
func (m *Mailbox) Post(msg any) bool {
	mask := m.k.EnterCritical()
	ok := true
	if woken := m.k.EventWake(m.ev, msg, rtkernel.ResultOK); woken == nil {
		if m.n == len(m.buf) {
			ok = false
		} else {
			m.buf[(m.head+m.n)%len(m.buf)] = msg
			m.n++
		}
	}
	m.k.ExitCritical(mask)
	m.k.Schedule()
	return ok
}

// Receive dequeues the oldest message, blocking the current task if the
// mailbox is empty. timeout follows rtkernel.EventWait's convention
// (rtkernel.Forever for no timeout).
func (m *Mailbox) Receive(timeout int) (any, rtkernel.Result) {
	mask := m.k.EnterCritical()
	if m.n > 0 {
		msg := m.buf[m.head]
		m.buf[m.head] = nil
		m.head = (m.head + 1) % len(m.buf)
		m.n--
		m.k.ExitCritical(mask)
		return msg, rtkernel.ResultOK
	}
	t := m.k.CurTask()
	var slot any
	m.k.EventWait(m.ev, t, &slot, 0, timeout)
	m.k.ExitCritical(mask)
	m.k.Schedule()
	return slot, t.WaitResult()
}

// Len reports the number of queued, undelivered messages.
func (m *Mailbox) Len() int { return m.n }

// WaitCount reports the number of tasks blocked in Receive.
func (m *Mailbox) WaitCount() int { return m.ev.WaitCount() }
