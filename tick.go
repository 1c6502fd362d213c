package rtkernel

// Tick implements the system-tick interrupt handler (spec.md §4.6),
// invoked by the port layer once per SystickMS. It must run with the
// critical section already masked by the caller's exception entry (the
// Mock port's EnterCritical/ExitCritical model interrupt masking with a
// plain counter, since there is no real interrupt controller behind it).
func (k *Kernel) Tick() {
	mask := k.port.EnterCritical()

	// Contract check: the scheduling lock is meant to guard short regions,
	// never to span a tick boundary. Track how many consecutive ticks it
	// has stayed held; SchedEnable resets the streak as soon as the lock
	// actually releases, so a fresh episode never inherits a stale count
	// from one already logged and closed out. The actual (rate-limited)
	// log call happens after ExitCritical below, since logger I/O has no
	// place in a masked region.
	lockStreak := 0
	if k.schedLock > 0 {
		k.schedLockStreak++
		lockStreak = k.schedLockStreak
	} else {
		k.schedLockStreak = 0
	}

	// Step 1: walk delayed_list once, tolerant of current-node removal —
	// List.Each captures next before calling back.
	k.delayedList.Each(func(n *Node[Task]) {
		t := n.Owner()
		t.delayTicks--
		if t.delayTicks > 0 {
			return
		}
		if t.waitEvent != nil {
			// Abort the wait with TIMEOUT; EventRemoveTask only clears
			// WAIT_EVENT, leaving DELAYED/delay-list membership to us,
			// since we're already mid-traversal of that list.
			k.EventRemoveTask(t, nil, ResultTimeout)
		}
		k.delayedList.Remove(&t.delay)
		t.state &^= StateDelayed
		if t.state == 0 {
			k.schedReady(t)
		}
	})

	// Step 2: slice accounting. Wakeups above happen before this, so a
	// task that just became ready this tick never pays for the slice. A
	// priority class with a single ready task never yields.
	if cur := k.curTask; cur != nil {
		cur.slice--
		if cur.slice <= 0 && k.readyTable[cur.prio].Len() > 1 {
			k.readyTable[cur.prio].MoveToBack(&cur.link)
			cur.slice = k.cfg.SliceMax
		}
	}

	// Step 3: tick_count is post-incremented so tick-indexed sampling
	// aligns with observed boundaries.
	k.tickCount++
	k.updateCPUUsage()

	k.port.ExitCritical(mask)

	if lockStreak > 0 {
		k.logLockContract(lockStreak)
	}

	// Step 4: notify the timer module (hard-list scan, soft-list release)
	// and request a reschedule, outside the critical section.
	k.notifyTimerModule()
	k.scheduleNoTrace()
}
