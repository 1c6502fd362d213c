package rtkernel

import (
	"sync/atomic"

	"github.com/rtkernel-go/rtkernel/port"
)

// State is the task state bit-set described in spec.md §4.5: zero means
// READY, and DELAYED/SUSPENDED/WAIT_EVENT may combine (a timed event wait is
// simultaneously DELAYED and WAIT_EVENT).
type State uint32

const (
	// StateDelayed is set while delay_ticks counts down, either from an
	// explicit Delay call or the timeout half of a timed event wait.
	StateDelayed State = 1 << iota
	// StateSuspended is set iff suspend_count > 0.
	StateSuspended
	// StateWaitEvent is set while the task is linked into some event's
	// wait-list.
	StateWaitEvent
)

func (s State) String() string {
	if s == 0 {
		return "READY"
	}
	out := ""
	add := func(name string) {
		if out != "" {
			out += "|"
		}
		out += name
	}
	if s&StateDelayed != 0 {
		add("DELAYED")
	}
	if s&StateSuspended != 0 {
		add("SUSPENDED")
	}
	if s&StateWaitEvent != 0 {
		add("WAIT_EVENT")
	}
	return out
}

// CleanFunc is a task's cooperative-deletion cleanup hook, invoked with
// cleanParam by ForceDelete and DeleteSelf.
type CleanFunc func(param any)

// Task is the kernel's per-task control block (spec.md §3's "Task"
// attributes). A Task is never copied once it has been passed to CreateTask
// — its link/delay nodes hold pointers into the struct itself.
type Task struct {
	// Name exists purely for logging/diagnostics; the core never compares
	// or indexes tasks by name.
	Name string

	entry func(arg any)
	arg   any

	stackBase []byte

	prio int // immutable after creation

	state        State
	slice        int
	delayTicks   int
	suspendCount int

	waitEvent     *Event
	msgSlot       *any
	waitResult    Result

	// link is the task's membership node in exactly one of:
	// ready_table[prio], or some event's wait-list (invariant I5). delay is
	// independent and tracks delayed_list membership.
	link  Node[Task]
	delay Node[Task]

	clean      CleanFunc
	cleanParam any

	deleteRequested atomic.Bool

	handle port.TaskHandle
}

// newTask builds a Task per spec.md §4.2 steps 1 and 3 (stack bookkeeping,
// zeroing, and state initialization). Step 2 (synthetic exception frame)
// and step 4 (ready-table insertion) are the port's and the Kernel's
// responsibility respectively — see Kernel.CreateTask.
func newTask(name string, entry func(arg any), arg any, prio, sliceMax int, stack []byte) *Task {
	for i := range stack {
		stack[i] = 0
	}
	t := &Task{
		Name:      name,
		entry:     entry,
		arg:       arg,
		stackBase: stack,
		prio:      prio,
		slice:     sliceMax,
	}
	t.link.owner = t
	t.delay.owner = t
	return t
}

// Prio returns the task's fixed priority.
func (t *Task) Prio() int { return t.prio }

// IsReady reports whether the task is purely READY (state == 0).
func (t *Task) IsReady() bool { return t.state == 0 }

// IsDelayed reports whether DELAYED is set.
func (t *Task) IsDelayed() bool { return t.state&StateDelayed != 0 }

// IsSuspended reports whether SUSPEND is set.
func (t *Task) IsSuspended() bool { return t.state&StateSuspended != 0 }

// IsWaitingEvent reports whether WAIT_EVENT is set.
func (t *Task) IsWaitingEvent() bool { return t.state&StateWaitEvent != 0 }

// WaitResult returns the result code of the most recently completed event
// wait (spec.md §7): OK, Timeout, or Del.
func (t *Task) WaitResult() Result { return t.waitResult }

// SetCleanCallback installs the cooperative-deletion cleanup hook invoked
// by ForceDelete and DeleteSelf.
func (t *Task) SetCleanCallback(fn CleanFunc, param any) {
	t.clean = fn
	t.cleanParam = param
}

// RequestDelete sets the cooperative delete-request flag a task polls at
// its own safe points.
func (t *Task) RequestDelete() { t.deleteRequested.Store(true) }

// IsDeleteRequested reports whether RequestDelete has been called.
func (t *Task) IsDeleteRequested() bool { return t.deleteRequested.Load() }

// TaskInfo is the snapshot returned by Kernel.GetInfo (spec.md §4.10's
// "task_get_info").
type TaskInfo struct {
	Name           string
	Prio           int
	State          State
	Slice          int
	DelayTicks     int
	SuspendCount   int
	StackFreeBytes int
}

// GetInfo returns a point-in-time snapshot of the task, including the
// stack-free estimate from stackFree.
func (k *Kernel) GetInfo(t *Task) TaskInfo {
	return TaskInfo{
		Name:           t.Name,
		Prio:           t.prio,
		State:          t.state,
		Slice:          t.slice,
		DelayTicks:     t.delayTicks,
		SuspendCount:   t.suspendCount,
		StackFreeBytes: stackFree(t.stackBase),
	}
}

// stackFree implements spec.md §4.10: walk the stack from its base upward
// while bytes remain zero; the zero-cell count estimates untouched stack.
// It requires the initial zero-fill newTask performs.
func stackFree(stack []byte) int {
	n := 0
	for _, b := range stack {
		if b != 0 {
			break
		}
		n++
	}
	return n
}
