package rtkernel

// TimerState is a Timer's lifecycle state (spec.md §3's Timer "state").
type TimerState int

const (
	TimerCreated TimerState = iota
	TimerStarted
	TimerRunning
	TimerStopped
	TimerDestroyed
)

func (s TimerState) String() string {
	switch s {
	case TimerCreated:
		return "Created"
	case TimerStarted:
		return "Started"
	case TimerRunning:
		return "Running"
	case TimerStopped:
		return "Stopped"
	case TimerDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// TimerKind selects which of the two timer lists a Timer belongs to: the
// tick-ISR-scanned hard list, or the soft-timer-task-scanned soft list
// (spec.md §4.7).
type TimerKind int

const (
	TimerHard TimerKind = iota
	TimerSoft
)

// TimerFunc is a timer's callback. Hard-timer callbacks run in tick-ISR
// context and must be short and non-blocking; soft-timer callbacks run in
// the soft-timer task and may call any non-blocking kernel API.
type TimerFunc func(arg any)

// Timer is a two-phase (start-delay then period) software/hardware timer.
// A zero Timer is not usable; construct with Kernel.NewTimer.
type Timer struct {
	startDelayTicks int
	durationTicks   int
	delayTicks      int
	fn              TimerFunc
	arg             any
	kind            TimerKind
	state           TimerState
	link            Node[Timer]
}

// NewTimer implements timer_init. startDelay is the tick count before the
// first firing (0 means "use duration as the first delay too"); duration is
// the period for subsequent firings, or 0 for a one-shot timer.
func (k *Kernel) NewTimer(kind TimerKind, startDelay, duration int, fn TimerFunc, arg any) *Timer {
	t := &Timer{
		startDelayTicks: startDelay,
		durationTicks:   duration,
		fn:              fn,
		arg:             arg,
		kind:            kind,
		state:           TimerCreated,
	}
	t.link.owner = t
	return t
}

// TimerStart implements timer_start: no-op outside {Created, Stopped}.
// Links the timer into the hard list (under the critical section) or the
// soft list (under timer_protect), per its kind.
func (k *Kernel) TimerStart(t *Timer) error {
	if t.state == TimerDestroyed {
		return ErrTimerDestroyed
	}
	if t.state != TimerCreated && t.state != TimerStopped {
		return nil
	}
	delay := t.startDelayTicks
	if delay == 0 {
		delay = t.durationTicks
	}
	t.delayTicks = delay
	t.state = TimerStarted
	k.linkTimer(t)
	return nil
}

// TimerStop implements timer_stop: symmetric with Start, a no-op outside
// {Started, Running}.
func (k *Kernel) TimerStop(t *Timer) error {
	if t.state == TimerDestroyed {
		return ErrTimerDestroyed
	}
	if t.state != TimerStarted && t.state != TimerRunning {
		return nil
	}
	k.unlinkTimer(t)
	t.state = TimerStopped
	return nil
}

// TimerDestroy implements timer_destroy: Stop then transition to Destroyed.
func (k *Kernel) TimerDestroy(t *Timer) error {
	if t.state == TimerDestroyed {
		return ErrTimerDestroyed
	}
	_ = k.TimerStop(t)
	t.state = TimerDestroyed
	return nil
}

// TimerInfo is the snapshot returned by TimerGetInfo.
type TimerInfo struct {
	State      TimerState
	Kind       TimerKind
	DelayTicks int
}

// TimerGetInfo implements timer_get_info.
func (k *Kernel) TimerGetInfo(t *Timer) TimerInfo {
	return TimerInfo{State: t.state, Kind: t.kind, DelayTicks: t.delayTicks}
}

func (k *Kernel) linkTimer(t *Timer) {
	switch t.kind {
	case TimerHard:
		mask := k.port.EnterCritical()
		k.hardTimers.InsertLast(&t.link)
		k.port.ExitCritical(mask)
	case TimerSoft:
		k.SemaphoreWait(k.timerProtect, Forever)
		k.softTimers.InsertLast(&t.link)
		k.SemaphoreGive(k.timerProtect)
	}
}

func (k *Kernel) unlinkTimer(t *Timer) {
	switch t.kind {
	case TimerHard:
		mask := k.port.EnterCritical()
		k.hardTimers.Remove(&t.link)
		k.port.ExitCritical(mask)
	case TimerSoft:
		k.SemaphoreWait(k.timerProtect, Forever)
		k.softTimers.Remove(&t.link)
		k.SemaphoreGive(k.timerProtect)
	}
}

// scanTimerList implements the scan algorithm shared by the hard and soft
// lists (spec.md §4.7): decrement delay_ticks, and on reaching zero, fire
// the callback and either reschedule (periodic) or unlink and stop
// (one-shot). Callers are responsible for holding whichever protection
// applies to the list (critical section for hard, timer_protect for soft)
// before calling this.
func scanTimerList(l *List[Timer]) {
	l.Each(func(n *Node[Timer]) {
		t := n.Owner()
		if t.delayTicks > 0 {
			t.delayTicks--
			if t.delayTicks > 0 {
				return
			}
		}
		t.state = TimerRunning
		t.fn(t.arg)
		t.state = TimerStarted
		if t.durationTicks > 0 {
			t.delayTicks = t.durationTicks
		} else {
			l.Remove(n)
			t.state = TimerStopped
		}
	})
}

// scanHardTimers runs the hard-list scan under the critical section, called
// from the tick ISR's notifyTimerModule epilogue. Before scanning, it
// checks the list length against WithHardTimerListMax (when configured): a
// hard list that keeps growing means hard timers are being started faster
// than the ISR retires them. The overrun count is only noted here; the
// actual (rate-limited) log call happens after ExitCritical, since logger
// I/O has no place in a masked region.
func (k *Kernel) scanHardTimers() {
	mask := k.port.EnterCritical()
	overrun := 0
	if max := k.cfg.hardTimerListMax; max > 0 && k.hardTimers.Len() > max {
		overrun = k.hardTimers.Len()
	}
	scanTimerList(&k.hardTimers)
	k.port.ExitCritical(mask)

	if overrun > 0 {
		k.logTimerHardListOverrun(overrun)
	}
}

// PumpSoftTimers runs one pass of the soft-list scan under timer_protect.
// In a real port this is the body of the soft-timer task's loop, gated by
// the timer_tick counting semaphore the tick handler signals once per
// tick; since this kernel has no real concurrent task execution behind it
// (see port.Mock), tests and examples call PumpSoftTimers directly to
// model "the soft-timer task has been allowed to run" (spec.md §8
// scenario 5), without waiting on timer_tick.
func (k *Kernel) PumpSoftTimers() {
	k.SemaphoreWait(k.timerProtect, Forever)
	scanTimerList(&k.softTimers)
	k.SemaphoreGive(k.timerProtect)
}

// timerTaskEntry is the soft-timer task's real entry point, installed via
// newSystemTask/NewStack so a production port with real task execution runs
// it continuously. It is never invoked by port.Mock.
func (k *Kernel) timerTaskEntry(arg any) {
	for {
		k.SemaphoreWait(k.timerTick, Forever)
		k.PumpSoftTimers()
	}
}

// notifyTimerModule is the tick handler's step 4 "notify the timer module":
// scan the hard list synchronously, then release the soft-timer task for
// one pass by signalling timer_tick.
func (k *Kernel) notifyTimerModule() {
	k.scanHardTimers()
	k.giveTimerTick()
}
