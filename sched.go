package rtkernel

// schedReady links t at the head of ready_table[t.prio] and sets its bitmap
// bit (spec.md §4.3's sched_ready). Head insertion lets a just-woken/created
// task run before existing same-priority peers — the tick handler is the
// sole source of round-robin rotation (§4.6 step 2).
func (k *Kernel) schedReady(t *Task) {
	k.readyTable[t.prio].InsertFirst(&t.link)
	k.bitmap.Set(t.prio)
}

// schedUnready unlinks t from ready_table[t.prio], clearing the bitmap bit
// if the list becomes empty (spec.md §4.3's sched_unready/sched_remove —
// one operation under two names in the source). Callers must only invoke
// this when t is actually linked into its ready list (state == 0
// beforehand); calling it on a task linked into an event's wait-list
// instead would splice the wrong list's node count.
func (k *Kernel) schedUnready(t *Task) {
	k.readyTable[t.prio].Remove(&t.link)
	if k.readyTable[t.prio].Len() == 0 {
		k.bitmap.Clear(t.prio)
	}
}

// highestReady returns the highest-priority ready task: bitmap first-set,
// then that priority's head node. It is never called while the bitmap is
// empty — the idle task is always ready, so the bitmap never reaches zero
// once bootstrap has run.
func (k *Kernel) highestReady() *Task {
	p := k.bitmap.FirstSet()
	if p < 0 {
		return nil
	}
	n := k.readyTable[p].First()
	if n == nil {
		return nil
	}
	return n.Owner()
}

// Schedule implements spec.md §4.3's schedule(): if the scheduling lock is
// held, it is inert. Otherwise it computes the highest-priority ready task
// and, if that differs from CurTask, asks the port to switch. The port's
// RequestSwitch is documented as completing on the matching ExitCritical;
// since this implementation has no real CPU behind it, the switch is
// treated as completing synchronously and CurTask is updated immediately —
// a simplification a real port's trampoline would instead perform when
// execution actually resumes in the new task. Before Run there is no
// current task to switch away from, so Schedule does nothing; Run picks the
// first task itself.
func (k *Kernel) Schedule() { k.schedule(true) }

// scheduleNoTrace is Schedule without diagnostic tracing, used solely by
// Tick's own epilogue reschedule: the trace batcher's Submit is a task-
// context-only operation (SPEC_FULL.md §4), and must never be reached from
// the tick ISR.
func (k *Kernel) scheduleNoTrace() { k.schedule(false) }

func (k *Kernel) schedule(trace bool) {
	mask := k.port.EnterCritical()
	defer k.port.ExitCritical(mask)
	if k.schedLock > 0 || k.curTask == nil {
		return
	}
	next := k.highestReady()
	if next != k.curTask {
		prev := k.curTask
		k.port.RequestSwitch(prev.handle, next.handle)
		k.curTask = next
		if trace {
			k.traceSwitch(prev, next)
		}
	}
}

// SchedDisable implements sched_disable: a saturating increment (max 255)
// of the scheduling lock. While nonzero, Schedule is inert, though tasks
// continue to be made ready/unready.
func (k *Kernel) SchedDisable() {
	mask := k.port.EnterCritical()
	if k.schedLock < 255 {
		k.schedLock++
	}
	k.port.ExitCritical(mask)
}

// SchedEnable implements sched_enable: decrement the scheduling lock; if it
// reaches zero, invoke Schedule so any wakeups that occurred while locked
// are honored immediately.
func (k *Kernel) SchedEnable() {
	mask := k.port.EnterCritical()
	if k.schedLock > 0 {
		k.schedLock--
	}
	unlocked := k.schedLock == 0
	if unlocked {
		// A fully-released lock ends this episode: the next time Tick
		// observes schedLock > 0, it's a new episode and must not inherit
		// a stale streak count from one that already ended and was logged.
		k.schedLockStreak = 0
	}
	k.port.ExitCritical(mask)
	if unlocked {
		k.Schedule()
	}
}

// SchedLockDepth reports the current scheduling-lock nesting count, for
// tests asserting spec.md §8's "sched_lock_counter > 0 implies no context
// switch occurs" invariant.
func (k *Kernel) SchedLockDepth() int { return int(k.schedLock) }

// ReadyCount reports the length of ready_table[prio], for invariant tests.
func (k *Kernel) ReadyCount(prio int) int { return k.readyTable[prio].Len() }

// BitmapPopCount reports the number of priorities with at least one ready
// task, for the zero-empty invariant test (spec.md §8).
func (k *Kernel) BitmapPopCount() int { return k.bitmap.PopCount() }

// DelayedCount reports the length of the global delay list.
func (k *Kernel) DelayedCount() int { return k.delayedList.Len() }

// Delay implements spec.md §4.8's delay(ticks): the task is unreadied,
// DELAYED is set, and it is linked into the global delay list to be woken
// by the tick handler after the given number of ticks. A non-positive
// ticks value is a no-op.
func (k *Kernel) Delay(t *Task, ticks int) {
	if ticks <= 0 {
		return
	}
	mask := k.port.EnterCritical()
	wasReady := t.state == 0
	t.delayTicks = ticks
	t.state |= StateDelayed
	k.delayedList.InsertLast(&t.delay)
	if wasReady {
		k.schedUnready(t)
	}
	k.port.ExitCritical(mask)
	k.Schedule()
}

// Suspend implements spec.md §4.8's suspend(task). If the task is currently
// DELAYED, this is a no-op per the documented rule: the task must first
// return from its delay and become purely READY before a suspend can take
// effect, avoiding two independent lifetimes for one logical removal.
func (k *Kernel) Suspend(t *Task) {
	mask := k.port.EnterCritical()
	edge := false
	if !t.IsDelayed() {
		t.suspendCount++
		if t.suspendCount == 1 {
			edge = true
			wasReady := t.state == 0
			t.state |= StateSuspended
			if wasReady {
				k.schedUnready(t)
			}
		}
	}
	cur := t == k.curTask
	k.port.ExitCritical(mask)
	if edge && cur {
		k.Schedule()
	}
}

// WakeUp implements spec.md §4.8's wake_up(task): decrements suspend_count;
// on the 1→0 edge, clears SUSPEND, makes the task ready (if no other state
// bit still holds it back), and reschedules.
func (k *Kernel) WakeUp(t *Task) {
	mask := k.port.EnterCritical()
	edge := false
	if t.IsSuspended() {
		t.suspendCount--
		if t.suspendCount == 0 {
			edge = true
			t.state &^= StateSuspended
			if t.state == 0 {
				k.schedReady(t)
			}
		}
	}
	k.port.ExitCritical(mask)
	if edge {
		k.Schedule()
	}
}

// ForceDelete implements spec.md §4.8's force_delete(task): unlinks it from
// whichever queue it inhabits, invokes its cleanup hook, and reschedules if
// it was the current task (in which case the switch never returns here).
func (k *Kernel) ForceDelete(t *Task) {
	mask := k.port.EnterCritical()
	if t.IsDelayed() {
		k.delayedList.Remove(&t.delay)
	}
	if t.state == 0 {
		k.schedUnready(t)
	} else if t.waitEvent != nil {
		t.waitEvent.waitList.Remove(&t.link)
	}
	wasCur := t == k.curTask
	k.port.ExitCritical(mask)

	if t.clean != nil {
		t.clean(t.cleanParam)
	}
	k.logForceDelete(t)

	if wasCur {
		k.Schedule()
	}
}

// DeleteSelf implements spec.md §4.8's delete_self(): the current task
// removes itself from the ready list, invokes its cleanup hook, and
// reschedules. Like ForceDelete on the current task, the switch never
// returns here.
func (k *Kernel) DeleteSelf() {
	t := k.curTask
	mask := k.port.EnterCritical()
	k.schedUnready(t)
	k.port.ExitCritical(mask)

	if t.clean != nil {
		t.clean(t.cleanParam)
	}

	k.Schedule()
}
