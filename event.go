package rtkernel

// EventType tags what kind of synchronization object owns an Event, purely
// for diagnostics — the core treats every Event identically regardless of
// tag (spec.md §3's "Event object").
type EventType int

const (
	EventUnknown EventType = iota
	EventSemaphore
	EventMailbox
	EventMutex
	EventFlagGroup
)

func (t EventType) String() string {
	switch t {
	case EventSemaphore:
		return "semaphore"
	case EventMailbox:
		return "mailbox"
	case EventMutex:
		return "mutex"
	case EventFlagGroup:
		return "flag-group"
	default:
		return "unknown"
	}
}

// Event is the generic wait queue every blocking synchronization object
// (Semaphore here; syncobj.Mailbox/Mutex/FlagGroup) builds on. It owns a
// FIFO wait-list of tasks (head = longest waiter) and nothing else — it
// never inspects why a task is waiting.
type Event struct {
	Type     EventType
	waitList List[Task]
}

// NewEvent constructs an Event ready for use (event_init in spec.md §6).
func NewEvent(t EventType) *Event {
	e := &Event{Type: t}
	e.waitList.Init()
	return e
}

// WaitCount returns the current queue length (event_wait_count).
func (e *Event) WaitCount() int { return e.waitList.Len() }

// Forever is the timeout passed to EventWait to mean "no timeout". It is the
// value 0 given a name, so call sites read as an explicit choice; a literal
// 0 means the same thing, and a zero-tick (non-blocking) wait cannot be
// expressed through EventWait.
const Forever = 0

// EventWait blocks t on ev (spec.md §4.4's event_wait). It must be called
// with the kernel's critical section held; the caller is responsible for
// calling Schedule once the section is released. extra is OR'd into state
// alongside WAIT_EVENT (the spec's "new_state_bit" parameter — unused by
// anything in this core, kept for parity with objects layered above that
// may want a distinguishing bit).
//
// timeout == Forever (0) means wait indefinitely; any positive value is a
// tick count after which the tick handler times the wait out.
func (k *Kernel) EventWait(ev *Event, t *Task, msgSlot *any, extra State, timeout int) {
	k.schedUnready(t)
	t.state |= StateWaitEvent | extra
	t.msgSlot = msgSlot
	t.waitEvent = ev
	ev.waitList.InsertLast(&t.link)
	if timeout != Forever {
		t.delayTicks = timeout
		t.state |= StateDelayed
		k.delayedList.InsertLast(&t.delay)
	}
}

// EventWake pops the head waiter (FIFO), delivers msg and result, clears
// WAIT_EVENT and — if the wait was timed — DELAYED too (unlinking it from
// the delay list), and makes it ready. Returns nil if ev has no waiters.
// Used for "exactly one waiter released" semantics: semaphore give,
// mailbox post, mutex release.
func (k *Kernel) EventWake(ev *Event, msg any, result Result) *Task {
	n := ev.waitList.RemoveFirst()
	if n == nil {
		return nil
	}
	t := n.Owner()
	k.completeWait(t, msg, result, true)
	return t
}

// EventWakeAll releases every waiter on ev with the same msg/result,
// returning the count released. Used by broadcast objects (flag groups)
// and by object destruction (result = ResultDel).
func (k *Kernel) EventWakeAll(ev *Event, msg any, result Result) int {
	count := 0
	for {
		n := ev.waitList.RemoveFirst()
		if n == nil {
			break
		}
		k.completeWait(n.Owner(), msg, result, true)
		count++
	}
	return count
}

// EventRemoveTask aborts a specific waiter — used by the tick handler's
// timeout path (ForceDelete unlinks a waiter from its event's wait-list
// directly instead). Unlike EventWake/EventWakeAll, it
// only clears WAIT_EVENT: the DELAYED bit and delay-list membership are the
// caller's responsibility, since the tick handler is already mid-traversal
// of the delay list when it calls this (spec.md §4.4, §4.6 step 1).
func (k *Kernel) EventRemoveTask(t *Task, msg any, result Result) {
	if t.waitEvent != nil {
		t.waitEvent.waitList.Remove(&t.link)
	}
	k.completeWait(t, msg, result, false)
}

// completeWait is the shared tail of every wake path: deliver the payload,
// clear WAIT_EVENT (and DELAYED when clearDelay is set), and make the task
// ready.
func (k *Kernel) completeWait(t *Task, msg any, result Result, clearDelay bool) {
	if t.msgSlot != nil {
		*t.msgSlot = msg
	}
	t.waitResult = result
	t.state &^= StateWaitEvent
	t.waitEvent = nil
	t.msgSlot = nil
	if clearDelay && t.state&StateDelayed != 0 {
		k.delayedList.Remove(&t.delay)
		t.state &^= StateDelayed
		t.delayTicks = 0
	}
	if t.state == 0 {
		k.schedReady(t)
	}
}
