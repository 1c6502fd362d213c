package syncobj

import "github.com/rtkernel-go/rtkernel"

// PriorityInheritanceHook is the read-only seam SPEC_FULL.md §5 carves out
// of the "no dynamic priority adjustment" non-goal: a Mutex consults a
// holder's current priority to detect inversion, but performs no
// reprioritization itself. *rtkernel.Task already satisfies this (its Prio
// method), so callers get inversion detection for free; actually boosting a
// holder's priority is left to OnInversion, wired in by whatever owns the
// real port's task-priority storage.
type PriorityInheritanceHook interface {
	Prio() int
}

// Mutex is a binary-ownership lock built on rtkernel.Event. It does not
// support recursive locking by the owner.
type Mutex struct {
	k      *rtkernel.Kernel
	ev     *rtkernel.Event
	locked bool
	owner  PriorityInheritanceHook

	// OnInversion, if set, is called from Lock whenever a waiter about to
	// block has higher priority than the current holder. It receives both
	// sides so the caller can boost holder and restore it on Unlock; the
	// mutex itself never mutates either task's priority.
	OnInversion func(holder, waiter PriorityInheritanceHook)
}

// NewMutex constructs an unlocked Mutex.
func NewMutex(k *rtkernel.Kernel) *Mutex {
	return &Mutex{k: k, ev: rtkernel.NewEvent(rtkernel.EventMutex)}
}

// Lock acquires the mutex, blocking if it is already held. timeout follows
// rtkernel.EventWait's convention.
func (m *Mutex) Lock(timeout int) rtkernel.Result {
	mask := m.k.EnterCritical()
	if !m.locked {
		m.locked = true
		m.owner = m.k.CurTask()
		m.k.ExitCritical(mask)
		return rtkernel.ResultOK
	}
	waiter := m.k.CurTask()
	if m.OnInversion != nil && m.owner != nil && m.owner.Prio() > waiter.Prio() {
		m.OnInversion(m.owner, waiter)
	}
	var slot any
	m.k.EventWait(m.ev, waiter, &slot, 0, timeout)
	m.k.ExitCritical(mask)
	m.k.Schedule()
	return waiter.WaitResult()
}

// Unlock releases the mutex, handing it directly to the longest-waiting
// blocked task if one exists, else marking it free.
func (m *Mutex) Unlock() {
	mask := m.k.EnterCritical()
	if next := m.k.EventWake(m.ev, nil, rtkernel.ResultOK); next != nil {
		m.owner = next
	} else {
		m.locked = false
		m.owner = nil
	}
	m.k.ExitCritical(mask)
	m.k.Schedule()
}

// Locked reports whether the mutex is currently held.
func (m *Mutex) Locked() bool { return m.locked }

// WaitCount reports the number of tasks blocked in Lock.
func (m *Mutex) WaitCount() int { return m.ev.WaitCount() }
